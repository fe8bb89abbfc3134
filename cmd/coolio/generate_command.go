package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/QuincyMillerDev/cooliomusic/internal/config"
	"github.com/QuincyMillerDev/cooliomusic/internal/library"
	"github.com/QuincyMillerDev/cooliomusic/internal/providers"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var providerName string
	var prompt string
	var title string
	var role string
	var genre string
	var order int
	var bpm int
	var energy int
	var durationSeconds int
	var sessionDir string
	var importToLibrary bool
	var estimateOnly bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one track through a music backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()

			registry := providers.FromConfig(cfg, logger)
			provider, err := registry.Get(providerName)
			if err != nil {
				return err
			}

			durationMS := durationSeconds * 1000
			out := cmd.OutOrStdout()
			if estimateOnly {
				cost := providers.EstimateCost(provider.Capabilities(), durationMS)
				fmt.Fprintf(out, "Estimated cost: $%.3f (%s, %ds)\n", cost, providerName, durationSeconds)
				return nil
			}

			target := strings.TrimSpace(sessionDir)
			if target == "" {
				target = filepath.Join(cfg.Paths.StagingDir, time.Now().Format("20060102_150405"))
			} else if target, err = config.ExpandPath(target); err != nil {
				return fmt.Errorf("resolve session dir: %w", err)
			}

			req := providers.Request{
				Order:        order,
				Title:        strings.TrimSpace(title),
				Role:         strings.TrimSpace(role),
				Prompt:       strings.TrimSpace(prompt),
				DurationMS:   durationMS,
				BPM:          bpm,
				Energy:       energy,
				OutputDir:    target,
				FilenameBase: clipFilenameBase(order, title),
			}

			clip, err := provider.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Track: %s (%s)\n", clip.AudioPath, clip.Provider)

			if importToLibrary {
				store, err := library.Open(cfg)
				if err != nil {
					return err
				}
				defer store.Close()

				meta := library.NewTrackMetadata(clip.Title, genre)
				meta.Role = clip.Role
				meta.BPM = clip.BPM
				meta.Energy = clip.Energy
				meta.DurationMS = clip.DurationMS
				meta.Provider = clip.Provider
				meta.PromptHash = library.HashPrompt(clip.Prompt)
				if err := store.ImportAudio(cmd.Context(), meta, clip.AudioPath); err != nil {
					return err
				}
				fmt.Fprintf(out, "Library: %s\n", meta.TrackID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&providerName, "provider", "stable_audio", "Generation backend name")
	cmd.Flags().StringVar(&prompt, "prompt", "", "Generation prompt")
	cmd.Flags().StringVar(&title, "title", "", "Track title")
	cmd.Flags().StringVar(&role, "role", "", "Track role in the session (opener, peak, closer)")
	cmd.Flags().StringVar(&genre, "genre", "", "Genre used when importing into the library")
	cmd.Flags().IntVar(&order, "order", 1, "Track position in the session")
	cmd.Flags().IntVar(&bpm, "bpm", 0, "Target tempo recorded in the sidecar")
	cmd.Flags().IntVar(&energy, "energy", 0, "Energy level recorded in the sidecar")
	cmd.Flags().IntVar(&durationSeconds, "duration", 90, "Track duration in seconds")
	cmd.Flags().StringVar(&sessionDir, "session-dir", "", "Session directory (default a fresh staging subdirectory)")
	cmd.Flags().BoolVar(&importToLibrary, "import", false, "Index the generated track in the library")
	cmd.Flags().BoolVar(&estimateOnly, "estimate", false, "Print the cost estimate without generating")
	cmd.MarkFlagRequired("prompt")
	return cmd
}
