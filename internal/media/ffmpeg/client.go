package ffmpeg

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/QuincyMillerDev/cooliomusic/internal/config"
	"github.com/QuincyMillerDev/cooliomusic/internal/logging"
	"github.com/QuincyMillerDev/cooliomusic/internal/media/pcm"
)

// Decode targets: all mix audio goes through one canonical PCM layout so
// buffers from differently-encoded clips can be chained directly.
const (
	MixSampleRate = 44100
	MixChannels   = 2
)

// Client wraps ffmpeg CLI interactions for audio transcode, frame
// extraction, and loop rendering.
type Client struct {
	binary string
	exec   Executor
	logger *slog.Logger
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// New constructs an ffmpeg client.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Client {
	binary := "ffmpeg"
	if cfg != nil {
		if v := strings.TrimSpace(cfg.Tools.FFmpegBinary); v != "" {
			binary = v
		}
	}
	client := &Client{
		binary: binary,
		exec:   commandExecutor{},
		logger: logging.NewComponentLogger(logger, "ffmpeg"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// DecodePCM decodes any ffmpeg-readable audio file into the canonical mix
// layout (44.1kHz stereo s16le).
func (c *Client) DecodePCM(ctx context.Context, path string) (*pcm.Buffer, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("decode: empty path")
	}
	args := []string{
		"-v", "error",
		"-i", path,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", fmt.Sprint(MixSampleRate),
		"-ac", fmt.Sprint(MixChannels),
		"-",
	}
	var raw bytes.Buffer
	if err := c.exec.Run(ctx, c.binary, args, nil, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	samples, err := bytesToSamples(raw.Bytes())
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("decode %s: no audio data produced", path)
	}
	return pcm.New(MixSampleRate, MixChannels, samples)
}

// EncodeMP3 writes the buffer to path as MP3 at the given bitrate.
func (c *Client) EncodeMP3(ctx context.Context, buf *pcm.Buffer, path string, bitrateKbps int) error {
	if buf == nil || len(buf.Samples) == 0 {
		return errors.New("encode: empty buffer")
	}
	if bitrateKbps <= 0 {
		bitrateKbps = 320
	}
	args := []string{
		"-y", "-v", "error",
		"-f", "s16le",
		"-ar", fmt.Sprint(buf.SampleRate),
		"-ac", fmt.Sprint(buf.Channels),
		"-i", "-",
		"-codec:a", "libmp3lame",
		"-b:a", fmt.Sprintf("%dk", bitrateKbps),
		path,
	}
	c.logger.Debug("encoding mix",
		logging.String("path", path),
		logging.Int("bitrate_kbps", bitrateKbps),
		logging.Int("duration_ms", buf.DurationMS()))
	if err := c.exec.Run(ctx, c.binary, args, bytes.NewReader(samplesToBytes(buf.Samples)), nil); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

func bytesToSamples(raw []byte) ([]int16, error) {
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("odd PCM byte count %d", len(raw))
	}
	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return samples, nil
}

func samplesToBytes(samples []int16) []byte {
	raw := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(s))
	}
	return raw
}
