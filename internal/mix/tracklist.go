package mix

import (
	"fmt"
	"os"
	"strings"

	"github.com/QuincyMillerDev/cooliomusic/internal/services"
)

// FormatTimestamp renders a millisecond offset as MM:SS. Minutes are
// unbounded rather than wrapping into hours, so multi-hour mixes read as
// e.g. 123:45.
func FormatTimestamp(ms int) string {
	totalSeconds := ms / 1000
	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}

// FormatTracklist renders the plain-text tracklist for a finished mix.
func FormatTracklist(tracks []Track) string {
	var b strings.Builder
	b.WriteString("TRACKLIST\n")
	b.WriteString(strings.Repeat("=", 40))
	b.WriteString("\n\n")
	for _, track := range tracks {
		b.WriteString(FormatTimestamp(track.StartMS))
		b.WriteString(" - ")
		b.WriteString(track.Title)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", 40))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total tracks: %d", len(tracks)))
	return b.String()
}

// WriteTracklist writes the tracklist to path as UTF-8 plain text.
func WriteTracklist(path string, tracks []Track) error {
	if err := os.WriteFile(path, []byte(FormatTracklist(tracks)), 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "mix", "tracklist", fmt.Sprintf("write %s", path), err)
	}
	return nil
}
