package testsupport

import (
	"context"
	"testing"

	"github.com/QuincyMillerDev/cooliomusic/internal/config"
	"github.com/QuincyMillerDev/cooliomusic/internal/library"
)

// MustOpenStore opens a library.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewTrack indexes a fresh track record for tests using the provided store.
func NewTrack(t testing.TB, store *library.Store, title, genre string) library.TrackMetadata {
	t.Helper()

	track := library.NewTrackMetadata(title, genre)
	if err := store.Save(context.Background(), track); err != nil {
		t.Fatalf("store.Save: %v", err)
	}
	return track
}
