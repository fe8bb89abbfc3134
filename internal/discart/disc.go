package discart

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	appconfig "github.com/QuincyMillerDev/cooliomusic/internal/config"
	"github.com/QuincyMillerDev/cooliomusic/internal/services"
)

// Config controls the disc composition. Zero values fall back to the
// standard 1080px canvas.
type Config struct {
	CanvasSize int
	DiscRadius int
	HoleRadius int
	BrandText  string
}

// DefaultConfig returns the standard disc layout.
func DefaultConfig() Config {
	return Config{
		CanvasSize: 1080,
		DiscRadius: 420,
		HoleRadius: 30,
		BrandText:  "coolio",
	}
}

// ConfigFrom builds the disc layout from the runtime configuration.
func ConfigFrom(cfg *appconfig.Config) Config {
	out := DefaultConfig()
	if cfg == nil {
		return out
	}
	if cfg.Artwork.CanvasSize > 0 {
		out.CanvasSize = cfg.Artwork.CanvasSize
	}
	if cfg.Artwork.DiscRadius > 0 {
		out.DiscRadius = cfg.Artwork.DiscRadius
	}
	if cfg.Artwork.HoleRadius > 0 {
		out.HoleRadius = cfg.Artwork.HoleRadius
	}
	if cfg.Artwork.BrandText != "" {
		out.BrandText = cfg.Artwork.BrandText
	}
	return out
}

const (
	brandFontSize = 72
	dateFontSize  = 28
)

// Generate renders one disc artwork: black canvas, white disc, a single
// seeded graphic element, brand and date text placed asymmetrically, and a
// punched center hole. The output is deterministic for a given seed, date,
// and config. An empty dateStr uses today's date as DD.MM.YY.
func Generate(cfg Config, seed int64, dateStr string) (*image.RGBA, error) {
	if cfg.CanvasSize <= 0 {
		cfg = DefaultConfig()
	}
	if dateStr == "" {
		dateStr = time.Now().Format("02.01.06")
	}

	size := cfg.CanvasSize
	cx := float64(size) / 2
	cy := float64(size) / 2
	discRadius := float64(cfg.DiscRadius)

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	fill(img, color.RGBA{A: 255})
	fillCircle(img, cx, cy, discRadius, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	element := RandomElement(seed, discRadius, cx, cy)
	drawElement(img, element, cx, cy, discRadius)

	brandFace, err := newFace(gobold.TTF, brandFontSize)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "discart", "generate", "load brand font", err)
	}
	defer brandFace.Close()
	dateFace, err := newFace(goregular.TTF, dateFontSize)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "discart", "generate", "load date font", err)
	}
	defer dateFace.Close()

	// Brand text sits in the lower-left area of the disc; clamp so it never
	// runs off the right edge.
	brandWidth := measure(brandFace, cfg.BrandText)
	brandX := cx - discRadius + 80
	if maxX := cx + discRadius - brandWidth - 40; brandX > maxX {
		brandX = maxX
	}
	brandY := cy + discRadius/3
	drawText(img, brandFace, cfg.BrandText, brandX, brandY)

	// Date in the bottom-right corner of the disc area.
	dateWidth := measure(dateFace, dateStr)
	dateX := cx + discRadius - dateWidth - 60
	dateY := cy + discRadius - 80
	drawText(img, dateFace, dateStr, dateX, dateY)

	fillCircle(img, cx, cy, float64(cfg.HoleRadius), color.RGBA{A: 255})
	return img, nil
}

// drawElement rasterizes the element in black, clipped to the disc so the
// shape reads as cut into the vinyl rather than floating on the canvas.
func drawElement(img *image.RGBA, element Element, cx, cy, discRadius float64) {
	bounds := img.Bounds()
	black := color.RGBA{A: 255}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			fx := float64(x) + 0.5
			fy := float64(y) + 0.5
			dx := fx - cx
			dy := fy - cy
			if dx*dx+dy*dy > discRadius*discRadius {
				continue
			}
			if element.Contains(fx, fy) {
				img.SetRGBA(x, y, black)
			}
		}
	}
}

func fill(img *image.RGBA, c color.RGBA) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func fillCircle(img *image.RGBA, cx, cy, radius float64, c color.RGBA) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= radius*radius {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

func newFace(ttf []byte, size float64) (font.Face, error) {
	parsed, err := opentype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func measure(face font.Face, text string) float64 {
	return float64(font.MeasureString(face, text)) / 64
}

// drawText draws text with (x, y) as the top-left corner, matching how the
// layout offsets were originally tuned.
func drawText(img *image.RGBA, face font.Face, text string, x, y float64) {
	ascent := float64(face.Metrics().Ascent) / 64
	drawer := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{A: 255}),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6((y + ascent) * 64)},
	}
	drawer.DrawString(text)
}

// SavePNG writes the artwork to path as PNG, creating the file.
func SavePNG(img image.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return services.Wrap(services.ErrTransient, "discart", "save", fmt.Sprintf("create %s", path), err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		return services.Wrap(services.ErrTransient, "discart", "save", fmt.Sprintf("encode %s", path), err)
	}
	return file.Close()
}

// SaveJPEG writes the artwork to path as JPEG, suitable for embedding as an
// ID3 cover picture.
func SaveJPEG(img image.Image, path string, quality int) error {
	if quality <= 0 {
		quality = 90
	}
	file, err := os.Create(path)
	if err != nil {
		return services.Wrap(services.ErrTransient, "discart", "save", fmt.Sprintf("create %s", path), err)
	}
	defer file.Close()
	if err := jpeg.Encode(file, img, &jpeg.Options{Quality: quality}); err != nil {
		return services.Wrap(services.ErrTransient, "discart", "save", fmt.Sprintf("encode %s", path), err)
	}
	return file.Close()
}
