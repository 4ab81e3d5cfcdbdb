package utils

import "math/rand"

// Alphabet excludes characters easy to misread when shared by hand
// (0/O, 1/I).
const shareCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const ShareCodeLength = 6

func GenerateShareCode() string {
	code := make([]byte, ShareCodeLength)
	for i := range code {
		code[i] = shareCodeAlphabet[rand.Intn(len(shareCodeAlphabet))]
	}
	return string(code)
}
