package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/QuincyMillerDev/cooliomusic/internal/services"
)

// Request describes one track generation.
type Request struct {
	Order        int
	Title        string
	Role         string
	Prompt       string
	DurationMS   int
	BPM          int
	Energy       int
	OutputDir    string
	FilenameBase string
}

// Clip is a generated track written to disk: the audio file plus a sidecar
// JSON the mix compositor reads back.
type Clip struct {
	Order        int
	Title        string
	Role         string
	Prompt       string
	DurationMS   int
	BPM          int
	Energy       int
	AudioPath    string
	MetadataPath string
	Provider     string
}

// Capabilities describe a backend's limits and cost model, surfaced to the
// session planner so it can budget generation.
type Capabilities struct {
	Name          string
	MinDurationMS int
	MaxDurationMS int
	// CostPerTrackUSD is set for flat-rate backends, CostPerSecondUSD for
	// metered ones; the other is zero.
	CostPerTrackUSD  float64
	CostPerSecondUSD float64
	Strengths        []string
}

// EstimateCost returns the expected cost of one generation in USD.
func EstimateCost(caps Capabilities, durationMS int) float64 {
	if caps.CostPerTrackUSD > 0 {
		return caps.CostPerTrackUSD
	}
	return caps.CostPerSecondUSD * float64(durationMS) / 1000
}

// Provider is a music generation backend.
type Provider interface {
	Capabilities() Capabilities
	Generate(ctx context.Context, req Request) (Clip, error)
}

func (r Request) validate() error {
	if r.Prompt == "" {
		return services.Wrap(services.ErrValidation, "providers", "generate", "prompt required", nil)
	}
	if r.OutputDir == "" {
		return services.Wrap(services.ErrValidation, "providers", "generate", "output directory required", nil)
	}
	if r.FilenameBase == "" {
		return services.Wrap(services.ErrValidation, "providers", "generate", "filename base required", nil)
	}
	return nil
}

// clampDuration bounds the requested duration to the backend's limits.
func clampDuration(durationMS int, caps Capabilities) int {
	if durationMS < caps.MinDurationMS {
		return caps.MinDurationMS
	}
	if durationMS > caps.MaxDurationMS {
		return caps.MaxDurationMS
	}
	return durationMS
}

type sidecarMeta struct {
	Order      int    `json:"order,omitempty"`
	Title      string `json:"title"`
	Role       string `json:"role,omitempty"`
	Prompt     string `json:"prompt,omitempty"`
	DurationMS int    `json:"duration_ms"`
	Provider   string `json:"provider,omitempty"`
	Model      string `json:"model,omitempty"`
	BPM        int    `json:"bpm,omitempty"`
	Energy     int    `json:"energy,omitempty"`
}

// writeClip saves the generated audio and its sidecar metadata and builds
// the Clip record.
func writeClip(req Request, providerName, model string, durationMS int, finalPrompt string, audio []byte) (Clip, error) {
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return Clip{}, fmt.Errorf("create output dir: %w", err)
	}

	audioPath := filepath.Join(req.OutputDir, req.FilenameBase+".mp3")
	metadataPath := filepath.Join(req.OutputDir, req.FilenameBase+".json")

	if err := os.WriteFile(audioPath, audio, 0o644); err != nil {
		return Clip{}, fmt.Errorf("write audio: %w", err)
	}

	title := req.Title
	if title == "" {
		title = "Untitled"
	}
	meta := sidecarMeta{
		Order:      req.Order,
		Title:      title,
		Role:       req.Role,
		Prompt:     finalPrompt,
		DurationMS: durationMS,
		Provider:   providerName,
		Model:      model,
		BPM:        req.BPM,
		Energy:     req.Energy,
	}
	raw, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return Clip{}, fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(metadataPath, raw, 0o644); err != nil {
		return Clip{}, fmt.Errorf("write metadata: %w", err)
	}

	return Clip{
		Order:        req.Order,
		Title:        title,
		Role:         req.Role,
		Prompt:       finalPrompt,
		DurationMS:   durationMS,
		BPM:          req.BPM,
		Energy:       req.Energy,
		AudioPath:    audioPath,
		MetadataPath: metadataPath,
		Provider:     providerName,
	}, nil
}
