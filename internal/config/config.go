package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// StagingDir holds per-session working directories (downloaded clips,
	// intermediate renders).
	StagingDir string `toml:"staging_dir"`
	// LibraryDir is where reusable generated tracks and their metadata index live.
	LibraryDir string `toml:"library_dir"`
	LogDir     string `toml:"log_dir"`
	// ScratchDir hosts per-invocation frame extraction directories. Each
	// invocation gets its own flock-guarded subdirectory.
	ScratchDir string `toml:"scratch_dir"`
}

// Tools contains the external binary names the pipeline shells out to.
type Tools struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
}

// Mix contains defaults for the audio mix compositor.
type Mix struct {
	CrossfadeMS          int     `toml:"crossfade_ms"`
	Normalize            bool    `toml:"normalize"`
	TargetPeakDBFS       float64 `toml:"target_peak_dbfs"`
	TrimLeadingSilence   bool    `toml:"trim_leading_silence"`
	SilenceThresholdDBFS float64 `toml:"silence_threshold_dbfs"`
	MaxTrimMS            int     `toml:"max_trim_ms"`
	BitrateKbps          int     `toml:"bitrate_kbps"`
	// StrictOrder keeps only the contiguous run of clip orders starting at
	// the lowest order and stops at the first gap. When false, gaps are
	// logged and mixing proceeds with whatever clips are present.
	StrictOrder bool `toml:"strict_order"`
}

// Loop contains defaults for the video loop-point selector.
type Loop struct {
	FPS                    int     `toml:"fps"`
	MinSeconds             float64 `toml:"min_seconds"`
	MaxSeconds             float64 `toml:"max_seconds"`
	ContinuityWindowFrames int     `toml:"continuity_window_frames"`
	SeamSeconds            float64 `toml:"seam_seconds"`
	MaxDimension           int     `toml:"max_dimension"`
	CRF                    int     `toml:"crf"`
	Preset                 string  `toml:"preset"`
}

// Artwork contains defaults for procedural disc cover generation.
type Artwork struct {
	CanvasSize int    `toml:"canvas_size"`
	DiscRadius int    `toml:"disc_radius"`
	HoleRadius int    `toml:"hole_radius"`
	BrandText  string `toml:"brand_text"`
}

// Provider contains connection settings for one music generation backend.
type Provider struct {
	Enabled bool   `toml:"enabled"`
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
	VoiceID string `toml:"voice_id"`
}

// Retry contains the retry policy applied to provider requests.
type Retry struct {
	MaxAttempts int `toml:"max_attempts"`
	BaseDelayMS int `toml:"base_delay_ms"`
	MaxDelayMS  int `toml:"max_delay_ms"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the pipeline. It is
// constructed once at process start and passed by value or pointer into each
// component constructor; nothing reads it through package-level state.
//
// Configuration sections by subsystem:
//   - Paths: staging, library, log, and scratch directories
//   - Tools: ffmpeg/ffprobe binary names
//   - Mix: crossfade, normalization, and silence-trim defaults
//   - Loop: loop-point search and seam-render defaults
//   - Artwork: disc cover canvas geometry
//   - StableAudio / ElevenLabs: music generation backends
//   - Retry: provider retry policy
//   - Logging: log format and level
type Config struct {
	Paths       Paths    `toml:"paths"`
	Tools       Tools    `toml:"tools"`
	Mix         Mix      `toml:"mix"`
	Loop        Loop     `toml:"loop"`
	Artwork     Artwork  `toml:"artwork"`
	StableAudio Provider `toml:"stable_audio"`
	ElevenLabs  Provider `toml:"elevenlabs"`
	Retry       Retry    `toml:"retry"`
	Logging     Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/coolio/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The bool reports
// whether a config file was actually found; when absent, defaults apply.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("coolio.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the pipeline writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.LogDir, c.Paths.ScratchDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.LibraryDir) != "" {
		// Best-effort so tools that never touch the library still start when
		// its storage is offline.
		_ = os.MkdirAll(c.Paths.LibraryDir, 0o755)
	}
	return nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) (string, error) {
	expanded, err := expandPath(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	if _, err := os.Stat(expanded); err == nil {
		return "", fmt.Errorf("config file already exists at %s", expanded)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return "", fmt.Errorf("write sample config: %w", err)
	}
	return expanded, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
