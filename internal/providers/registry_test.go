package providers

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/QuincyMillerDev/cooliomusic/internal/config"
	"github.com/QuincyMillerDev/cooliomusic/internal/services"
)

func TestRegistryFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.StableAudio.Enabled = true
	cfg.StableAudio.APIKey = "a"
	cfg.ElevenLabs.Enabled = true
	cfg.ElevenLabs.APIKey = "b"

	registry := FromConfig(&cfg, nil)
	if registry.Len() != 2 {
		t.Fatalf("len = %d, want 2", registry.Len())
	}
	want := []string{"elevenlabs", "stable_audio"}
	if got := registry.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("names = %v, want %v", got, want)
	}

	if _, err := registry.Get("stable_audio"); err != nil {
		t.Errorf("Get(stable_audio): %v", err)
	}
	if _, err := registry.Get("suno"); !errors.Is(err, services.ErrConfiguration) {
		t.Errorf("Get(suno): err = %v, want configuration error", err)
	}
}

func TestRegistryFromConfigSkipsDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.StableAudio.Enabled = true
	cfg.StableAudio.APIKey = "a"

	registry := FromConfig(&cfg, nil)
	if registry.Len() != 1 {
		t.Fatalf("len = %d, want 1", registry.Len())
	}
	if _, err := registry.Get("elevenlabs"); err == nil {
		t.Error("expected disabled provider to be absent")
	}
}

func TestEstimateCost(t *testing.T) {
	flat := Capabilities{CostPerTrackUSD: 0.20}
	if got := EstimateCost(flat, 90000); got != 0.20 {
		t.Errorf("flat cost = %v", got)
	}

	metered := Capabilities{CostPerSecondUSD: 0.005}
	if got := EstimateCost(metered, 30000); math.Abs(got-0.15) > 1e-9 {
		t.Errorf("metered cost = %v, want 0.15", got)
	}
}
