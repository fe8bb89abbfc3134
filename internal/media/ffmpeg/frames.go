package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gofrs/flock"
)

// ExtractFrames decodes the video at the requested fps into sequentially
// numbered JPEG files under framesDir, downscaling to maxDimension on the
// longest side to keep hashing cheap. framesDir must be exclusive to the
// invocation; a flock guards against concurrent reuse of the same scratch
// path. Returns the sorted frame paths.
func (c *Client) ExtractFrames(ctx context.Context, videoPath, framesDir string, fps, maxDimension int) ([]string, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("extract frames: invalid fps %d", fps)
	}
	if maxDimension <= 0 {
		maxDimension = 320
	}
	if err := os.MkdirAll(framesDir, 0o755); err != nil {
		return nil, fmt.Errorf("extract frames: create scratch dir: %w", err)
	}

	lock := flock.New(filepath.Join(framesDir, ".frames.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("extract frames: lock scratch dir: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("extract frames: scratch dir %s is in use by another invocation", framesDir)
	}
	defer func() { _ = lock.Unlock() }()

	pattern := filepath.Join(framesDir, "frame_%05d.jpg")
	vf := fmt.Sprintf(
		"fps=%d,scale='min(%d,iw)':'min(%d,ih)':force_original_aspect_ratio=decrease",
		fps, maxDimension, maxDimension,
	)
	args := []string{
		"-y", "-v", "error",
		"-i", videoPath,
		"-vf", vf,
		"-q:v", "3",
		pattern,
	}
	if err := c.exec.Run(ctx, c.binary, args, nil, nil); err != nil {
		return nil, fmt.Errorf("extract frames from %s: %w", videoPath, err)
	}

	frames, err := filepath.Glob(filepath.Join(framesDir, "frame_*.jpg"))
	if err != nil {
		return nil, fmt.Errorf("extract frames: glob: %w", err)
	}
	sort.Strings(frames)
	if len(frames) == 0 {
		return nil, fmt.Errorf("extract frames: no frames produced from %s; is the video readable?", videoPath)
	}
	return frames, nil
}
