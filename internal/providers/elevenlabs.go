package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/QuincyMillerDev/cooliomusic/internal/config"
	"github.com/QuincyMillerDev/cooliomusic/internal/logging"
	"github.com/QuincyMillerDev/cooliomusic/internal/retry"
	"github.com/QuincyMillerDev/cooliomusic/internal/services"
)

const (
	elevenLabsName = "elevenlabs"

	elevenLabsMinMS = 10000
	elevenLabsMaxMS = 300000

	elevenLabsCostPerSecondUSD = 0.005
)

// ElevenLabs generates tracks through the ElevenLabs music composition
// endpoint. When the service rejects a prompt it often returns a rewritten
// suggestion; the provider retries once with that suggestion before giving
// up.
type ElevenLabs struct {
	cfg    config.Provider
	client *http.Client
	policy retry.Policy
	logger *slog.Logger
}

// NewElevenLabs builds the provider. A nil httpClient uses
// http.DefaultClient and a nil logger discards output.
func NewElevenLabs(cfg config.Provider, policy retry.Policy, httpClient *http.Client, logger *slog.Logger) *ElevenLabs {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ElevenLabs{
		cfg:    cfg,
		client: httpClient,
		policy: policy,
		logger: logging.NewComponentLogger(logger, elevenLabsName),
	}
}

func (p *ElevenLabs) Capabilities() Capabilities {
	return Capabilities{
		Name:             elevenLabsName,
		MinDurationMS:    elevenLabsMinMS,
		MaxDurationMS:    elevenLabsMaxMS,
		CostPerSecondUSD: elevenLabsCostPerSecondUSD,
		Strengths:        []string{"vocals", "lyrics", "structured songs"},
	}
}

type elevenLabsRequest struct {
	Prompt        string `json:"prompt"`
	MusicLengthMS int    `json:"music_length_ms"`
	ModelID       string `json:"model_id,omitempty"`
}

type elevenLabsErrorDetail struct {
	Detail struct {
		Status string `json:"status"`
		Data   struct {
			PromptSuggestion string `json:"prompt_suggestion"`
		} `json:"data"`
	} `json:"detail"`
}

// Generate submits the prompt and writes the returned audio plus its
// sidecar metadata under req.OutputDir.
func (p *ElevenLabs) Generate(ctx context.Context, req Request) (Clip, error) {
	if err := req.validate(); err != nil {
		return Clip{}, err
	}
	if p.cfg.APIKey == "" {
		return Clip{}, services.Wrap(services.ErrConfiguration, elevenLabsName, "generate", "api key not configured", nil)
	}

	durationMS := clampDuration(req.DurationMS, p.Capabilities())

	p.logger.Info("generating track",
		logging.Int("order", req.Order),
		logging.Int("duration_ms", durationMS))

	prompt := req.Prompt
	audio, err := p.compose(ctx, prompt, durationMS)
	if suggestion := promptSuggestion(err); suggestion != "" {
		p.logger.Warn("prompt rejected, retrying with suggestion",
			logging.Int("order", req.Order))
		prompt = suggestion
		audio, err = p.compose(ctx, prompt, durationMS)
	}
	if err != nil {
		return Clip{}, err
	}

	return writeClip(req, elevenLabsName, p.cfg.Model, durationMS, prompt, audio)
}

// compose performs one composition request under the retry policy.
func (p *ElevenLabs) compose(ctx context.Context, prompt string, durationMS int) ([]byte, error) {
	payload, err := json.Marshal(elevenLabsRequest{
		Prompt:        prompt,
		MusicLengthMS: durationMS,
		ModelID:       p.cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var audio []byte
	err = p.policy.Do(ctx, func(ctx context.Context) error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL, bytes.NewReader(payload))
		if err != nil {
			return retry.Permanent(err)
		}
		httpReq.Header.Set("xi-api-key", p.cfg.APIKey)
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Accept", "audio/mpeg")

		resp, err := p.client.Do(httpReq)
		if err != nil {
			return services.Wrap(services.ErrTransient, elevenLabsName, "generate", "request failed", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return services.Wrap(services.ErrTransient, elevenLabsName, "generate", "read response", err)
		}
		if resp.StatusCode != http.StatusOK {
			if suggestion := parsePromptSuggestion(body); suggestion != "" {
				return retry.Permanent(&badPromptError{suggestion: suggestion})
			}
			return classifyHTTPError(elevenLabsName, resp.StatusCode, body)
		}
		if len(body) == 0 {
			return services.Wrap(services.ErrTransient, elevenLabsName, "generate", "empty audio response", nil)
		}
		audio = body
		return nil
	})
	if err != nil {
		return nil, err
	}
	return audio, nil
}

// badPromptError carries the service's rewritten prompt so the caller can
// retry with it.
type badPromptError struct {
	suggestion string
}

func (e *badPromptError) Error() string {
	return "prompt rejected by content filter"
}

func parsePromptSuggestion(body []byte) string {
	var detail elevenLabsErrorDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return ""
	}
	if detail.Detail.Status != "bad_prompt" {
		return ""
	}
	return detail.Detail.Data.PromptSuggestion
}

func promptSuggestion(err error) string {
	var bad *badPromptError
	if errors.As(err, &bad) {
		return bad.suggestion
	}
	return ""
}
