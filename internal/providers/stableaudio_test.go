package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/QuincyMillerDev/cooliomusic/internal/config"
	"github.com/QuincyMillerDev/cooliomusic/internal/retry"
	"github.com/QuincyMillerDev/cooliomusic/internal/services"
)

func instantPolicy(maxAttempts int) retry.Policy {
	return retry.Policy{
		MaxAttempts: maxAttempts,
		BaseDelay:   time.Millisecond,
		MaxDelay:    time.Millisecond,
		Sleep:       func(context.Context, time.Duration) error { return nil },
	}
}

func providerConfig(baseURL string) config.Provider {
	return config.Provider{
		Enabled: true,
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "stable-audio-2.5",
	}
}

func sampleRequest(dir string) Request {
	return Request{
		Order:        1,
		Title:        "Sunrise Drift",
		Role:         "opener",
		Prompt:       "warm analog house groove",
		DurationMS:   30000,
		BPM:          122,
		Energy:       6,
		OutputDir:    dir,
		FilenameBase: "track_001_sunrise_drift",
	}
}

func readSidecar(t *testing.T, path string) map[string]any {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sidecar: %v", err)
	}
	var meta map[string]any
	if err := json.Unmarshal(raw, &meta); err != nil {
		t.Fatalf("parse sidecar: %v", err)
	}
	return meta
}

func TestStableAudioGenerate(t *testing.T) {
	audio := []byte("mp3-bytes")
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		if got := r.Header.Get("Accept"); got != "audio/*" {
			t.Errorf("accept = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.FormValue("prompt"); got != "warm analog house groove" {
			t.Errorf("prompt = %q", got)
		}
		if got := r.FormValue("duration"); got != "30" {
			t.Errorf("duration = %q, want 30", got)
		}
		if got := r.FormValue("output_format"); got != "mp3" {
			t.Errorf("output_format = %q", got)
		}
		if got := r.FormValue("model"); got != "stable-audio-2.5" {
			t.Errorf("model = %q", got)
		}
		w.Write(audio)
	}))
	defer server.Close()

	dir := t.TempDir()
	provider := NewStableAudio(providerConfig(server.URL), instantPolicy(3), server.Client(), nil)

	clip, err := provider.Generate(context.Background(), sampleRequest(dir))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if hits != 1 {
		t.Fatalf("hits = %d, want 1", hits)
	}
	if clip.Provider != "stable_audio" {
		t.Errorf("provider = %q", clip.Provider)
	}
	if clip.DurationMS != 30000 {
		t.Errorf("duration = %d", clip.DurationMS)
	}

	got, err := os.ReadFile(clip.AudioPath)
	if err != nil {
		t.Fatalf("read audio: %v", err)
	}
	if string(got) != string(audio) {
		t.Errorf("audio bytes = %q", got)
	}

	meta := readSidecar(t, clip.MetadataPath)
	if meta["title"] != "Sunrise Drift" {
		t.Errorf("sidecar title = %v", meta["title"])
	}
	if meta["duration_ms"] != float64(30000) {
		t.Errorf("sidecar duration_ms = %v", meta["duration_ms"])
	}
	if meta["provider"] != "stable_audio" {
		t.Errorf("sidecar provider = %v", meta["provider"])
	}
	if filepath.Ext(clip.AudioPath) != ".mp3" {
		t.Errorf("audio path = %q", clip.AudioPath)
	}
}

func TestStableAudioClampsDuration(t *testing.T) {
	var gotDuration string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(1 << 20)
		gotDuration = r.FormValue("duration")
		w.Write([]byte("audio"))
	}))
	defer server.Close()

	provider := NewStableAudio(providerConfig(server.URL), instantPolicy(3), server.Client(), nil)
	req := sampleRequest(t.TempDir())
	req.DurationMS = 500

	clip, err := provider.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if gotDuration != "1" {
		t.Errorf("duration field = %q, want 1", gotDuration)
	}
	if clip.DurationMS != 1000 {
		t.Errorf("clip duration = %d, want 1000", clip.DurationMS)
	}
}

func TestStableAudioRetriesServerErrors(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("audio"))
	}))
	defer server.Close()

	provider := NewStableAudio(providerConfig(server.URL), instantPolicy(3), server.Client(), nil)
	if _, err := provider.Generate(context.Background(), sampleRequest(t.TempDir())); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if hits != 2 {
		t.Fatalf("hits = %d, want 2", hits)
	}
}

func TestStableAudioBadRequestIsPermanent(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, `{"errors":["invalid prompt"]}`, http.StatusBadRequest)
	}))
	defer server.Close()

	provider := NewStableAudio(providerConfig(server.URL), instantPolicy(5), server.Client(), nil)
	_, err := provider.Generate(context.Background(), sampleRequest(t.TempDir()))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if hits != 1 {
		t.Fatalf("hits = %d, want 1", hits)
	}
}

func TestStableAudioRequiresAPIKey(t *testing.T) {
	cfg := providerConfig("http://unused.invalid")
	cfg.APIKey = ""
	provider := NewStableAudio(cfg, instantPolicy(1), nil, nil)

	_, err := provider.Generate(context.Background(), sampleRequest(t.TempDir()))
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("err = %v, want configuration error", err)
	}
}

func TestGenerateValidatesRequest(t *testing.T) {
	provider := NewStableAudio(providerConfig("http://unused.invalid"), instantPolicy(1), nil, nil)

	req := sampleRequest(t.TempDir())
	req.Prompt = ""
	if _, err := provider.Generate(context.Background(), req); !errors.Is(err, services.ErrValidation) {
		t.Errorf("empty prompt: err = %v", err)
	}

	req = sampleRequest(t.TempDir())
	req.FilenameBase = ""
	if _, err := provider.Generate(context.Background(), req); !errors.Is(err, services.ErrValidation) {
		t.Errorf("empty filename base: err = %v", err)
	}
}
