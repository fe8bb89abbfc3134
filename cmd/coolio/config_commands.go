package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/QuincyMillerDev/cooliomusic/internal/config"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigShowCommand())
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			}

			written, err := config.CreateSample(target)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", written)
			fmt.Fprintln(out, "Set stable_audio.api_key or elevenlabs.api_key (or export STABILITY_API_KEY / ELEVENLABS_API_KEY) before generating tracks.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "show",
		Short:       "Show the resolved configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load("")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults shown")
			}
			fmt.Fprintln(out)

			rows := [][]string{
				{"staging_dir", cfg.Paths.StagingDir},
				{"library_dir", cfg.Paths.LibraryDir},
				{"log_dir", cfg.Paths.LogDir},
				{"scratch_dir", cfg.Paths.ScratchDir},
				{"ffmpeg", cfg.Tools.FFmpegBinary},
				{"ffprobe", cfg.Tools.FFprobeBinary},
				{"crossfade_ms", fmt.Sprint(cfg.Mix.CrossfadeMS)},
				{"normalize", yesNo(cfg.Mix.Normalize)},
				{"loop window", fmt.Sprintf("%.1fs - %.1fs @ %d fps", cfg.Loop.MinSeconds, cfg.Loop.MaxSeconds, cfg.Loop.FPS)},
				{"stable_audio", yesNo(cfg.StableAudio.Enabled)},
				{"elevenlabs", yesNo(cfg.ElevenLabs.Enabled)},
				{"log format", cfg.Logging.Format},
				{"log level", cfg.Logging.Level},
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Setting", "Value"},
				rows,
			))
			return nil
		},
	}
}
