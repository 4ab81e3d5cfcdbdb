package services

import "errors"

// Sentinel errors for the shallow failure taxonomy: validation
// rejections, lookup misses, and one-way transition conflicts.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrSlotNotFound     = errors.New("slot not found")
	ErrSlotTaken        = errors.New("slot already taken")
	ErrAlreadyJoined    = errors.New("campaign already joined")
	ErrProfileNotFound  = errors.New("profile not found")
)
