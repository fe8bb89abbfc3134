package videoloop

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/QuincyMillerDev/cooliomusic/internal/logging"
	"github.com/QuincyMillerDev/cooliomusic/internal/services"
)

// RenderOptions tune the loop render. Zero values fall back to the standard
// settings.
type RenderOptions struct {
	SeamSeconds float64
	CRF         int
	Preset      string
}

// Render cuts the selected segment out of the source video and smooths the
// loop boundary with a short self-crossfade: the tail of the segment is
// blended with its own head, then the result is trimmed back to the segment
// duration so playback length is unchanged. The seam never exceeds 40% of
// the segment so the fade cannot swallow a very short loop.
func (s *Selector) Render(ctx context.Context, inputPath, outputPath string, selection Selection, opts RenderOptions) error {
	if selection.EndFrame <= selection.StartFrame {
		return services.Wrap(services.ErrValidation, "videoloop", "render",
			fmt.Sprintf("invalid selection: end frame %d not after start frame %d", selection.EndFrame, selection.StartFrame), nil)
	}
	seamSeconds := opts.SeamSeconds
	if seamSeconds <= 0 {
		seamSeconds = 0.2
	}
	crf := opts.CRF
	if crf <= 0 {
		crf = 18
	}
	preset := opts.Preset
	if preset == "" {
		preset = "veryfast"
	}

	startSeconds := selection.StartSeconds
	if startSeconds < 0 {
		startSeconds = 0
	}
	endSeconds := selection.EndSeconds
	if endSeconds < startSeconds+0.05 {
		endSeconds = startSeconds + 0.05
	}
	segmentSeconds := endSeconds - startSeconds
	if segmentSeconds < 0.1 {
		segmentSeconds = 0.1
	}
	seam := clampSeam(seamSeconds, segmentSeconds)

	scratch, err := os.MkdirTemp("", "coolio-loop-")
	if err != nil {
		return services.Wrap(services.ErrTransient, "videoloop", "render", "create scratch dir", err)
	}
	defer os.RemoveAll(scratch)

	segment := filepath.Join(scratch, "segment.mp4")
	if err := s.client.CutSegment(ctx, inputPath, segment, startSeconds, endSeconds, crf, preset); err != nil {
		return services.Wrap(services.ErrExternalTool, "videoloop", "render", "cut segment", err)
	}
	if err := s.client.SelfCrossfade(ctx, segment, outputPath, segmentSeconds, seam, crf, preset); err != nil {
		return services.Wrap(services.ErrExternalTool, "videoloop", "render", "seam crossfade", err)
	}

	s.logger.Info("rendered loop",
		logging.String("output", outputPath),
		logging.Float64("duration_seconds", segmentSeconds),
		logging.Float64("seam_seconds", seam))
	return nil
}

func clampSeam(seam, segmentSeconds float64) float64 {
	if seam < 0.05 {
		seam = 0.05
	}
	limit := segmentSeconds / 2.5
	if limit < 0.05 {
		limit = 0.05
	}
	if seam > limit {
		seam = limit
	}
	return seam
}
