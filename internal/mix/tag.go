package mix

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
)

// TagMeta is the ID3 metadata stamped onto an exported mix.
type TagMeta struct {
	Title     string
	Artist    string
	Album     string
	CoverPath string
}

// WriteTags writes ID3v2 metadata onto the MP3 at path, embedding the cover
// image as the front-cover picture frame when one is supplied. Empty fields
// are left untouched.
func WriteTags(path string, meta TagMeta) error {
	if meta.Title == "" && meta.Artist == "" && meta.Album == "" && meta.CoverPath == "" {
		return nil
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("tag %s: %w", path, err)
	}
	defer tag.Close()

	if meta.Title != "" {
		tag.SetTitle(meta.Title)
	}
	if meta.Artist != "" {
		tag.SetArtist(meta.Artist)
	}
	if meta.Album != "" {
		tag.SetAlbum(meta.Album)
	}
	if meta.CoverPath != "" {
		artwork, err := os.ReadFile(meta.CoverPath)
		if err != nil {
			return fmt.Errorf("tag %s: read cover: %w", path, err)
		}
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    coverMimeType(meta.CoverPath),
			PictureType: id3v2.PTFrontCover,
			Description: "Front cover",
			Picture:     artwork,
		})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("tag %s: save: %w", path, err)
	}
	return nil
}

func coverMimeType(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		return "image/png"
	}
	return "image/jpeg"
}
