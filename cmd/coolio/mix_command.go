package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/QuincyMillerDev/cooliomusic/internal/config"
	"github.com/QuincyMillerDev/cooliomusic/internal/fileutil"
	"github.com/QuincyMillerDev/cooliomusic/internal/logging"
	"github.com/QuincyMillerDev/cooliomusic/internal/media/ffmpeg"
	"github.com/QuincyMillerDev/cooliomusic/internal/mix"
	"github.com/QuincyMillerDev/cooliomusic/internal/services"
)

func newMixCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var outputName string
	var tracklistName string
	var album string
	var artist string
	var coverPath string
	var crossfadeMS int

	cmd := &cobra.Command{
		Use:   "mix <session-dir>",
		Short: "Crossfade session clips into a single mix with a tracklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			sessionDir, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve session dir: %w", err)
			}

			runCtx := services.WithSessionID(cmd.Context(), filepath.Base(sessionDir))
			logger := logging.WithContext(runCtx, ctx.ensureLogger())
			client := ffmpeg.New(cfg, logger)

			opts := mix.OptionsFromConfig(cfg)
			if crossfadeMS > 0 {
				opts.CrossfadeMS = crossfadeMS
			}
			composer := mix.NewComposer(client, opts, logger)

			req := mix.Request{
				SessionDir:    sessionDir,
				OutputDir:     strings.TrimSpace(outputDir),
				OutputName:    strings.TrimSpace(outputName),
				TracklistName: strings.TrimSpace(tracklistName),
				FFprobeBinary: cfg.Tools.FFprobeBinary,
				Album:         strings.TrimSpace(album),
				Artist:        strings.TrimSpace(artist),
				CoverPath:     strings.TrimSpace(coverPath),
			}

			result, err := composer.MixSession(runCtx, req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Mixed %d tracks (%s)\n", len(result.Tracks), mix.FormatTimestamp(result.TotalDurationMS))
			if result.TrimmedMS > 0 {
				fmt.Fprintf(out, "Trimmed %d ms of leading silence\n", result.TrimmedMS)
			}
			fmt.Fprintf(out, "Mix:       %s\n", result.OutputPath)
			fmt.Fprintf(out, "Tracklist: %s\n", result.TracklistPath)

			if cover := strings.TrimSpace(coverPath); cover != "" {
				dest := filepath.Join(filepath.Dir(result.OutputPath), "cover"+filepath.Ext(cover))
				if err := fileutil.CopyFile(cover, dest); err != nil {
					logger.Warn("copying cover into output dir failed", logging.Error(err))
				} else {
					fmt.Fprintf(out, "Cover:     %s\n", dest)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for the mix and tracklist (defaults to the session dir)")
	cmd.Flags().StringVar(&outputName, "name", "", "Mix filename (default final_mix.mp3)")
	cmd.Flags().StringVar(&tracklistName, "tracklist", "", "Tracklist filename (default tracklist.txt)")
	cmd.Flags().StringVar(&album, "album", "", "Album name written to the ID3 tag")
	cmd.Flags().StringVar(&artist, "artist", "", "Artist name written to the ID3 tag")
	cmd.Flags().StringVar(&coverPath, "cover", "", "Cover image embedded in the ID3 tag")
	cmd.Flags().IntVar(&crossfadeMS, "crossfade-ms", 0, "Crossfade duration override in milliseconds")
	return cmd
}
