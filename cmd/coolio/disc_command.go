package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/QuincyMillerDev/cooliomusic/internal/config"
	"github.com/QuincyMillerDev/cooliomusic/internal/discart"
)

func newDiscCommand(ctx *commandContext) *cobra.Command {
	var seed int64
	var dateStr string
	var jpegQuality int

	cmd := &cobra.Command{
		Use:   "disc <output>",
		Short: "Generate procedural disc cover art",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			target, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}

			if seed == 0 {
				seed = time.Now().UnixNano()
			}

			img, err := discart.Generate(discart.ConfigFrom(cfg), seed, strings.TrimSpace(dateStr))
			if err != nil {
				return err
			}

			switch strings.ToLower(filepath.Ext(target)) {
			case ".jpg", ".jpeg":
				err = discart.SaveJPEG(img, target, jpegQuality)
			default:
				err = discart.SavePNG(img, target)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Cover: %s (seed %d)\n", target, seed)
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 picks one from the clock)")
	cmd.Flags().StringVar(&dateStr, "date", "", "Date stamp drawn on the disc (default today)")
	cmd.Flags().IntVar(&jpegQuality, "jpeg-quality", 0, "JPEG quality when the output ends in .jpg")
	return cmd
}
