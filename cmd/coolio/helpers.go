package main

import (
	"fmt"

	"github.com/QuincyMillerDev/cooliomusic/internal/textutil"
)

// clipFilenameBase builds the session clip naming convention the mix
// discovery scan expects.
func clipFilenameBase(order int, title string) string {
	slug := textutil.SanitizeToken(title)
	if slug == "unknown" {
		slug = "track"
	}
	return fmt.Sprintf("track_%03d_%s", order, slug)
}
