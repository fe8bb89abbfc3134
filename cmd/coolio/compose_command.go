package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/QuincyMillerDev/cooliomusic/internal/config"
	"github.com/QuincyMillerDev/cooliomusic/internal/media/ffmpeg"
	"github.com/QuincyMillerDev/cooliomusic/internal/media/ffprobe"
)

func newComposeCommand(ctx *commandContext) *cobra.Command {
	var width int
	var height int
	var fadeIn float64
	var waveform bool

	cmd := &cobra.Command{
		Use:   "compose <cover> <audio> <output>",
		Short: "Compose a still-image video from cover art and a mixed audio track",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			coverPath, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve cover path: %w", err)
			}
			audioPath, err := config.ExpandPath(args[1])
			if err != nil {
				return fmt.Errorf("resolve audio path: %w", err)
			}
			outputPath, err := config.ExpandPath(args[2])
			if err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}

			probe, err := ffprobe.Inspect(cmd.Context(), cfg.Tools.FFprobeBinary, audioPath)
			if err != nil {
				return err
			}

			logger := ctx.ensureLogger()
			client := ffmpeg.New(cfg, logger)
			req := ffmpeg.ComposeRequest{
				CoverPath:       coverPath,
				AudioPath:       audioPath,
				OutputPath:      outputPath,
				DurationSeconds: probe.DurationSeconds(),
				Width:           width,
				Height:          height,
				FadeInSeconds:   fadeIn,
				Waveform:        waveform,
			}
			if err := client.ComposeStill(cmd.Context(), req); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Video: %s (%.1fs)\n", outputPath, probe.DurationSeconds())
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 1920, "Output frame width")
	cmd.Flags().IntVar(&height, "height", 1080, "Output frame height")
	cmd.Flags().Float64Var(&fadeIn, "fade-in", 2.0, "Fade-in from black in seconds")
	cmd.Flags().BoolVar(&waveform, "waveform", false, "Overlay an audio-reactive waveform bar")
	return cmd
}
