package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/QuincyMillerDev/cooliomusic/internal/config"
	"github.com/QuincyMillerDev/cooliomusic/internal/logging"
	"github.com/QuincyMillerDev/cooliomusic/internal/media/ffmpeg"
	"github.com/QuincyMillerDev/cooliomusic/internal/services"
	"github.com/QuincyMillerDev/cooliomusic/internal/videoloop"
)

func newClipCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var minSeconds float64
	var maxSeconds float64
	var fps int
	var seamSeconds float64
	var selectOnly bool
	var keepFrames bool

	cmd := &cobra.Command{
		Use:   "clip <video>",
		Short: "Find the best loop seam in a video and render a seamless clip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			videoPath, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve video path: %w", err)
			}

			runCtx := services.WithSource(cmd.Context(), videoPath)
			logger := logging.WithContext(runCtx, ctx.ensureLogger())
			client := ffmpeg.New(cfg, logger)
			selector := videoloop.NewSelector(client, logger)

			params := videoloop.ParamsFromConfig(cfg)
			if fps > 0 {
				params.FPS = fps
			}
			if minSeconds > 0 {
				params.MinSeconds = minSeconds
			}
			if maxSeconds > 0 {
				params.MaxSeconds = maxSeconds
			}

			scratch := filepath.Join(cfg.Paths.ScratchDir, "loop-"+uuid.NewString()[:8])
			if err := os.MkdirAll(scratch, 0o755); err != nil {
				return fmt.Errorf("create scratch dir: %w", err)
			}
			if !keepFrames {
				defer os.RemoveAll(scratch)
			}

			selection, err := selector.SelectBestLoop(runCtx, videoPath, scratch, params)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Loop: %.2fs - %.2fs (%.2fs, score %.3f)\n",
				selection.StartSeconds, selection.EndSeconds, selection.DurationSeconds, selection.Score)
			if selectOnly {
				return nil
			}

			target := strings.TrimSpace(outputPath)
			if target == "" {
				base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
				target = filepath.Join(filepath.Dir(videoPath), base+"_loop.mp4")
			}

			opts := videoloop.RenderOptions{
				SeamSeconds: cfg.Loop.SeamSeconds,
				CRF:         cfg.Loop.CRF,
				Preset:      cfg.Loop.Preset,
			}
			if seamSeconds > 0 {
				opts.SeamSeconds = seamSeconds
			}
			if err := selector.Render(runCtx, videoPath, target, selection, opts); err != nil {
				return err
			}
			fmt.Fprintf(out, "Clip: %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output clip path (default <video>_loop.mp4)")
	cmd.Flags().Float64Var(&minSeconds, "min", 0, "Minimum loop duration in seconds")
	cmd.Flags().Float64Var(&maxSeconds, "max", 0, "Maximum loop duration in seconds")
	cmd.Flags().IntVar(&fps, "fps", 0, "Frame sampling rate for seam analysis")
	cmd.Flags().Float64Var(&seamSeconds, "seam", 0, "Seam crossfade duration in seconds")
	cmd.Flags().BoolVar(&selectOnly, "select-only", false, "Report the loop seam without rendering")
	cmd.Flags().BoolVar(&keepFrames, "keep-frames", false, "Keep the extracted analysis frames")
	return cmd
}
