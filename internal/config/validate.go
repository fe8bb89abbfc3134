package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMix(); err != nil {
		return err
	}
	if err := c.validateLoop(); err != nil {
		return err
	}
	if err := c.validateArtwork(); err != nil {
		return err
	}
	if err := c.validateRetry(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMix() error {
	if c.Mix.CrossfadeMS < 0 {
		return errors.New("mix.crossfade_ms must not be negative")
	}
	if c.Mix.MaxTrimMS < 0 {
		return errors.New("mix.max_trim_ms must not be negative")
	}
	if c.Mix.TargetPeakDBFS > 0 {
		return fmt.Errorf("mix.target_peak_dbfs must not exceed 0 dBFS, got %v", c.Mix.TargetPeakDBFS)
	}
	if c.Mix.BitrateKbps <= 0 {
		return errors.New("mix.bitrate_kbps must be positive")
	}
	return nil
}

func (c *Config) validateLoop() error {
	if c.Loop.FPS <= 0 {
		return errors.New("loop.fps must be positive")
	}
	if c.Loop.MinSeconds <= 0 {
		return errors.New("loop.min_seconds must be positive")
	}
	if c.Loop.MaxSeconds < c.Loop.MinSeconds {
		return fmt.Errorf("loop.max_seconds (%v) must not be below loop.min_seconds (%v)", c.Loop.MaxSeconds, c.Loop.MinSeconds)
	}
	if c.Loop.ContinuityWindowFrames < 0 {
		return errors.New("loop.continuity_window_frames must not be negative")
	}
	if c.Loop.SeamSeconds < 0 {
		return errors.New("loop.seam_seconds must not be negative")
	}
	if c.Loop.MaxDimension <= 0 {
		return errors.New("loop.max_dimension must be positive")
	}
	return nil
}

func (c *Config) validateArtwork() error {
	if c.Artwork.CanvasSize <= 0 {
		return errors.New("artwork.canvas_size must be positive")
	}
	if c.Artwork.DiscRadius <= 0 || 2*c.Artwork.DiscRadius >= c.Artwork.CanvasSize {
		return errors.New("artwork.disc_radius must be positive and fit inside the canvas")
	}
	if c.Artwork.HoleRadius < 0 || c.Artwork.HoleRadius >= c.Artwork.DiscRadius {
		return errors.New("artwork.hole_radius must be smaller than the disc radius")
	}
	return nil
}

func (c *Config) validateRetry() error {
	if c.Retry.MaxAttempts <= 0 {
		return errors.New("retry.max_attempts must be positive")
	}
	if c.Retry.BaseDelayMS < 0 || c.Retry.MaxDelayMS < 0 {
		return errors.New("retry delays must not be negative")
	}
	if c.Retry.MaxDelayMS > 0 && c.Retry.MaxDelayMS < c.Retry.BaseDelayMS {
		return errors.New("retry.max_delay_ms must not be below retry.base_delay_ms")
	}
	return nil
}
