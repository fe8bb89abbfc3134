package mix

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/QuincyMillerDev/cooliomusic/internal/config"
	"github.com/QuincyMillerDev/cooliomusic/internal/logging"
	"github.com/QuincyMillerDev/cooliomusic/internal/media/pcm"
	"github.com/QuincyMillerDev/cooliomusic/internal/services"
)

// Codec abstracts the audio transcode boundary so the compositor can be
// exercised with synthetic buffers. *ffmpeg.Client satisfies it.
type Codec interface {
	DecodePCM(ctx context.Context, path string) (*pcm.Buffer, error)
	EncodeMP3(ctx context.Context, buf *pcm.Buffer, path string, bitrateKbps int) error
}

// Leading-silence trimming scans the first clip in fixed chunks of this
// size.
const trimChunkMS = 10

// Options control one mix operation.
type Options struct {
	CrossfadeMS          int
	Normalize            bool
	TargetPeakDBFS       float64
	TrimLeadingSilence   bool
	SilenceThresholdDBFS float64
	MaxTrimMS            int
	BitrateKbps          int
	// StrictOrder truncates at the first order gap instead of warning and
	// mixing everything present.
	StrictOrder bool
}

// DefaultOptions returns the standard mix settings.
func DefaultOptions() Options {
	return Options{
		CrossfadeMS:          5000,
		Normalize:            true,
		TargetPeakDBFS:       -1.0,
		TrimLeadingSilence:   true,
		SilenceThresholdDBFS: -33.0,
		MaxTrimMS:            30000,
		BitrateKbps:          320,
	}
}

// OptionsFromConfig builds mix options from the runtime configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return DefaultOptions()
	}
	return Options{
		CrossfadeMS:          cfg.Mix.CrossfadeMS,
		Normalize:            cfg.Mix.Normalize,
		TargetPeakDBFS:       cfg.Mix.TargetPeakDBFS,
		TrimLeadingSilence:   cfg.Mix.TrimLeadingSilence,
		SilenceThresholdDBFS: cfg.Mix.SilenceThresholdDBFS,
		MaxTrimMS:            cfg.Mix.MaxTrimMS,
		BitrateKbps:          cfg.Mix.BitrateKbps,
		StrictOrder:          cfg.Mix.StrictOrder,
	}
}

// Track is a clip placed on the final mix timeline. StartMS is where the
// clip begins fading in, not where it reaches full volume; the convention
// matters for tracklist timestamps and is kept deliberately.
type Track struct {
	Clip
	StartMS int
}

// Result describes a completed mix.
type Result struct {
	OutputPath      string
	TracklistPath   string
	TotalDurationMS int
	TrimmedMS       int
	Tracks          []Track
}

// Composer chains clips into one continuous level-balanced track.
type Composer struct {
	codec  Codec
	opts   Options
	logger *slog.Logger
}

// NewComposer constructs a mix composer.
func NewComposer(codec Codec, opts Options, logger *slog.Logger) *Composer {
	if opts.CrossfadeMS < 0 {
		opts.CrossfadeMS = 0
	}
	if opts.BitrateKbps <= 0 {
		opts.BitrateKbps = 320
	}
	return &Composer{
		codec:  codec,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "mix"),
	}
}

// Compose decodes the clips in order and chains them with linear crossfades
// into a single buffer, recording each clip's timeline start. The first
// clip optionally has leading silence trimmed; after chaining, the whole
// mix is optionally peak-normalized in one global pass so relative levels
// between clips are preserved.
//
// A decode failure on any clip aborts the whole mix. Order gaps are logged
// as warnings unless StrictOrder is set, in which case mixing stops at the
// first gap.
func (c *Composer) Compose(ctx context.Context, clips []Clip) (*pcm.Buffer, []Track, int, error) {
	if len(clips) == 0 {
		return nil, nil, 0, services.Wrap(services.ErrValidation, "mix", "compose", "no clips to mix", nil)
	}

	if gaps := OrderGaps(clips); len(gaps) > 0 {
		if c.opts.StrictOrder {
			kept := ContiguousPrefix(clips)
			c.logger.Warn("clip numbering has gaps, truncating at first gap",
				logging.Int("clips", len(clips)),
				logging.Int("kept", len(kept)),
				logging.Int("first_missing", gaps[0]))
			clips = kept
		} else {
			c.logger.Warn("clip numbering has gaps, mixing clips that are present",
				logging.Int("clips", len(clips)),
				logging.Int("first_missing", gaps[0]))
		}
	}

	first, err := c.decode(ctx, clips[0])
	if err != nil {
		return nil, nil, 0, err
	}

	trimmedMS := 0
	if c.opts.TrimLeadingSilence {
		trimmedMS = first.TrimLeadingSilence(c.opts.SilenceThresholdDBFS, c.opts.MaxTrimMS, trimChunkMS)
		if trimmedMS > 0 {
			c.logger.Info("trimmed leading silence",
				logging.String("title", clips[0].Title),
				logging.Int("trimmed_ms", trimmedMS))
		}
	}

	tracks := make([]Track, 0, len(clips))
	tracks = append(tracks, Track{Clip: clips[0], StartMS: 0})

	mixed := first
	for _, clip := range clips[1:] {
		next, err := c.decode(ctx, clip)
		if err != nil {
			return nil, nil, 0, err
		}

		fadeMS := c.opts.CrossfadeMS
		if d := mixed.DurationMS(); d < fadeMS {
			fadeMS = d
		}
		if d := next.DurationMS(); d < fadeMS {
			fadeMS = d
		}
		startMS := mixed.DurationMS() - fadeMS

		mixed, err = mixed.AppendCrossfade(next, fadeMS)
		if err != nil {
			return nil, nil, 0, services.Wrap(services.ErrValidation, "mix", "compose",
				fmt.Sprintf("append %q", clip.Title), err)
		}
		tracks = append(tracks, Track{Clip: clip, StartMS: startMS})
	}

	if c.opts.Normalize {
		peak := mixed.PeakDBFS()
		if math.IsInf(peak, -1) {
			c.logger.Warn("mix is silent, skipping normalization")
		} else {
			gain := c.opts.TargetPeakDBFS - peak
			c.logger.Info("normalizing mix",
				logging.Float64("peak_dbfs", peak),
				logging.Float64("gain_db", gain))
			mixed.ApplyGain(gain)
		}
	}

	return mixed, tracks, trimmedMS, nil
}

func (c *Composer) decode(ctx context.Context, clip Clip) (*pcm.Buffer, error) {
	c.logger.Info("loading clip",
		logging.Int("order", clip.Order),
		logging.String("title", clip.Title))
	buf, err := c.codec.DecodePCM(ctx, clip.AudioPath)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "mix", "decode",
			fmt.Sprintf("clip %q (%s)", clip.Title, clip.AudioPath), err)
	}
	return buf, nil
}

// Request describes one MixSession invocation.
type Request struct {
	SessionDir    string
	OutputDir     string
	OutputName    string
	TracklistName string
	FFprobeBinary string
	Album         string
	Artist        string
	CoverPath     string
}

// MixSession is the end-to-end entry point: discover clips in a session
// directory, compose them, export the MP3 and tracklist into the output
// directory, and tag the exported file.
func (c *Composer) MixSession(ctx context.Context, req Request) (*Result, error) {
	if req.OutputDir == "" {
		req.OutputDir = req.SessionDir
	}
	if req.OutputName == "" {
		req.OutputName = "final_mix.mp3"
	}
	if req.TracklistName == "" {
		req.TracklistName = "tracklist.txt"
	}

	clips, err := DiscoverClips(ctx, req.SessionDir, req.FFprobeBinary)
	if err != nil {
		return nil, err
	}
	c.logger.Info("mixing session",
		logging.String("session_dir", req.SessionDir),
		logging.Int("clips", len(clips)),
		logging.Int("crossfade_ms", c.opts.CrossfadeMS))

	mixed, tracks, trimmedMS, err := c.Compose(ctx, clips)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrTransient, "mix", "export", "create output directory", err)
	}

	outputPath := filepath.Join(req.OutputDir, req.OutputName)
	if err := c.codec.EncodeMP3(ctx, mixed, outputPath, c.opts.BitrateKbps); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "mix", "export",
			fmt.Sprintf("encode %s", outputPath), err)
	}

	tracklistPath := filepath.Join(req.OutputDir, req.TracklistName)
	if err := WriteTracklist(tracklistPath, tracks); err != nil {
		return nil, err
	}

	if err := WriteTags(outputPath, TagMeta{
		Title:     req.Album,
		Artist:    req.Artist,
		Album:     req.Album,
		CoverPath: req.CoverPath,
	}); err != nil {
		c.logger.Warn("tagging failed", logging.Error(err))
	}

	result := &Result{
		OutputPath:      outputPath,
		TracklistPath:   tracklistPath,
		TotalDurationMS: mixed.DurationMS(),
		TrimmedMS:       trimmedMS,
		Tracks:          tracks,
	}
	c.logger.Info("mix complete",
		logging.String("output", outputPath),
		logging.Int("tracks", len(tracks)),
		logging.Float64("duration_minutes", float64(result.TotalDurationMS)/60000))
	return result, nil
}
