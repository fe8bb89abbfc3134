package providers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/QuincyMillerDev/cooliomusic/internal/config"
	"github.com/QuincyMillerDev/cooliomusic/internal/logging"
	"github.com/QuincyMillerDev/cooliomusic/internal/retry"
	"github.com/QuincyMillerDev/cooliomusic/internal/services"
)

const (
	stableAudioName = "stable_audio"

	stableAudioMinMS = 1000
	stableAudioMaxMS = 190000

	stableAudioCostPerTrackUSD = 0.20
)

// StableAudio generates tracks through the Stability AI text-to-audio
// endpoint. Requests are multipart form posts; responses are raw MP3 bytes.
type StableAudio struct {
	cfg    config.Provider
	client *http.Client
	policy retry.Policy
	logger *slog.Logger
}

// NewStableAudio builds the provider. A nil httpClient uses
// http.DefaultClient and a nil logger discards output.
func NewStableAudio(cfg config.Provider, policy retry.Policy, httpClient *http.Client, logger *slog.Logger) *StableAudio {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StableAudio{
		cfg:    cfg,
		client: httpClient,
		policy: policy,
		logger: logging.NewComponentLogger(logger, stableAudioName),
	}
}

func (p *StableAudio) Capabilities() Capabilities {
	return Capabilities{
		Name:            stableAudioName,
		MinDurationMS:   stableAudioMinMS,
		MaxDurationMS:   stableAudioMaxMS,
		CostPerTrackUSD: stableAudioCostPerTrackUSD,
		Strengths:       []string{"instrumental", "electronic", "ambient"},
	}
}

// Generate submits the prompt and writes the returned audio plus its
// sidecar metadata under req.OutputDir.
func (p *StableAudio) Generate(ctx context.Context, req Request) (Clip, error) {
	if err := req.validate(); err != nil {
		return Clip{}, err
	}
	if p.cfg.APIKey == "" {
		return Clip{}, services.Wrap(services.ErrConfiguration, stableAudioName, "generate", "api key not configured", nil)
	}

	durationMS := clampDuration(req.DurationMS, p.Capabilities())
	durationSeconds := durationMS / 1000

	p.logger.Info("generating track",
		logging.Int("order", req.Order),
		logging.Int("duration_ms", durationMS),
		logging.String("model", p.cfg.Model))

	var audio []byte
	err := p.policy.Do(ctx, func(ctx context.Context) error {
		body, contentType, err := stableAudioForm(req.Prompt, durationSeconds, p.cfg.Model)
		if err != nil {
			return retry.Permanent(err)
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL, body)
		if err != nil {
			return retry.Permanent(err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
		httpReq.Header.Set("Accept", "audio/*")
		httpReq.Header.Set("Content-Type", contentType)

		resp, err := p.client.Do(httpReq)
		if err != nil {
			return services.Wrap(services.ErrTransient, stableAudioName, "generate", "request failed", err)
		}
		defer resp.Body.Close()

		payload, err := io.ReadAll(resp.Body)
		if err != nil {
			return services.Wrap(services.ErrTransient, stableAudioName, "generate", "read response", err)
		}
		if resp.StatusCode != http.StatusOK {
			return classifyHTTPError(stableAudioName, resp.StatusCode, payload)
		}
		if len(payload) == 0 {
			return services.Wrap(services.ErrTransient, stableAudioName, "generate", "empty audio response", nil)
		}
		audio = payload
		return nil
	})
	if err != nil {
		return Clip{}, err
	}

	return writeClip(req, stableAudioName, p.cfg.Model, durationMS, req.Prompt, audio)
}

func stableAudioForm(prompt string, durationSeconds int, model string) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	fields := map[string]string{
		"prompt":        prompt,
		"duration":      strconv.Itoa(durationSeconds),
		"output_format": "mp3",
	}
	if model != "" {
		fields["model"] = model
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("build form field %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize form: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

// classifyHTTPError maps a non-200 status to a retryable or permanent
// failure. Rate limits and server errors retry; everything else is a bad
// request the caller must fix.
func classifyHTTPError(component string, status int, body []byte) error {
	detail := truncateBody(body)
	if status == http.StatusTooManyRequests || status >= 500 {
		return services.Wrap(services.ErrTransient, component, "generate",
			fmt.Sprintf("status %d: %s", status, detail), nil)
	}
	return retry.Permanent(services.Wrap(services.ErrValidation, component, "generate",
		fmt.Sprintf("status %d: %s", status, detail), nil))
}

func truncateBody(body []byte) string {
	const limit = 300
	if len(body) > limit {
		body = body[:limit]
	}
	return string(bytes.TrimSpace(body))
}
