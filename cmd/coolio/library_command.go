package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/QuincyMillerDev/cooliomusic/internal/library"
	"github.com/QuincyMillerDev/cooliomusic/internal/mix"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	libraryCmd := &cobra.Command{
		Use:   "library",
		Short: "Track library utilities",
	}

	libraryCmd.AddCommand(newLibraryListCommand(ctx))
	libraryCmd.AddCommand(newLibraryUseCommand(ctx))

	return libraryCmd
}

func newLibraryListCommand(ctx *commandContext) *cobra.Command {
	var genre string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed tracks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := library.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			tracks, err := store.ListByGenre(cmd.Context(), genre)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(tracks) == 0 {
				fmt.Fprintln(out, "No tracks indexed")
				return nil
			}

			rows := make([][]string, 0, len(tracks))
			for _, track := range tracks {
				rows = append(rows, []string{
					shortID(track.TrackID),
					track.Title,
					track.Genre,
					track.Provider,
					mix.FormatTimestamp(track.DurationMS),
					strconv.Itoa(track.UsageCount),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Title", "Genre", "Provider", "Length", "Used"},
				rows, 4, 5,
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&genre, "genre", "", "Only list tracks in this genre")
	return cmd
}

func newLibraryUseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "use <track-id>",
		Short: "Record that a track was placed in a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := library.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.MarkUsed(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %s used\n", args[0])
			return nil
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
