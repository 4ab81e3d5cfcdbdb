package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateShareCode(t *testing.T) {
	for i := 0; i < 200; i++ {
		code := GenerateShareCode()
		require.Len(t, code, ShareCodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(shareCodeAlphabet, r), "unexpected character %q in %s", r, code)
		}
		// Ambiguous characters stay out of the alphabet.
		assert.NotContains(t, code, "0")
		assert.NotContains(t, code, "O")
		assert.NotContains(t, code, "1")
		assert.NotContains(t, code, "I")
	}
}
