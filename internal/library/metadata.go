package library

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// TrackMetadata is the library index entry for one reusable generated track.
type TrackMetadata struct {
	TrackID    string
	Title      string
	Genre      string
	Subgenre   string
	BPM        int
	DurationMS int
	// Energy is the 1-10 placement weight used when planning a set arc.
	Energy     int
	Role       string
	Provider   string
	PromptHash string
	SessionID  string
	CreatedAt  time.Time
	LastUsedAt *time.Time
	UsageCount int
}

// NewTrackMetadata assigns a fresh track ID and creation time.
func NewTrackMetadata(title, genre string) TrackMetadata {
	return TrackMetadata{
		TrackID:   uuid.NewString(),
		Title:     title,
		Genre:     genre,
		Role:      "track",
		CreatedAt: time.Now().UTC(),
	}
}

// HashPrompt fingerprints a generation prompt so the library can detect
// when the same prompt has already produced a track.
func HashPrompt(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
