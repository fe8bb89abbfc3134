package discart

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CanvasSize = 200
	cfg.DiscRadius = 80
	cfg.HoleRadius = 6

	first, err := Generate(cfg, 12345, "28.11.24")
	if err != nil {
		t.Fatal(err)
	}
	second, err := Generate(cfg, 12345, "28.11.24")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first.Pix, second.Pix) {
		t.Fatal("same seed and date must render identical artwork")
	}

	other, err := Generate(cfg, 54321, "28.11.24")
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(first.Pix, other.Pix) {
		t.Fatal("different seeds should render different artwork")
	}
}

func TestGenerateLayout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CanvasSize = 200
	cfg.DiscRadius = 80
	cfg.HoleRadius = 6

	img, err := Generate(cfg, 7, "01.01.25")
	if err != nil {
		t.Fatal(err)
	}

	// Canvas outside the disc stays black.
	if r, g, b, _ := img.At(2, 2).RGBA(); r != 0 || g != 0 || b != 0 {
		t.Fatal("canvas corner should be black")
	}
	// Center hole is punched black.
	if r, g, b, _ := img.At(100, 100).RGBA(); r != 0 || g != 0 || b != 0 {
		t.Fatal("center hole should be black")
	}
	// The disc itself contains white somewhere.
	white := 0
	for y := 20; y < 180; y++ {
		for x := 20; x < 180; x++ {
			if r, _, _, _ := img.At(x, y).RGBA(); r == 0xffff {
				white++
			}
		}
	}
	if white == 0 {
		t.Fatal("disc should contain white pixels")
	}
}

func TestRandomElementDeterministic(t *testing.T) {
	first := RandomElement(99, 420, 540, 540)
	second := RandomElement(99, 420, 540, 540)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same seed produced different elements: %+v vs %+v", first, second)
	}
}

func TestLineContains(t *testing.T) {
	line := LineElement{StartX: 0, StartY: 0, EndX: 100, EndY: 100, Thickness: 10}
	if !line.Contains(50, 50) {
		t.Fatal("midpoint should be on the line")
	}
	if !line.Contains(50, 53) {
		t.Fatal("point within half thickness should be on the line")
	}
	if line.Contains(50, 70) {
		t.Fatal("point far from the line should be outside")
	}
}

func TestCircleContains(t *testing.T) {
	ring := CircleElement{CenterX: 0, CenterY: 0, Radius: 50, Thickness: 8}
	if !ring.Contains(50, 0) {
		t.Fatal("point on the radius should be in the ring")
	}
	if ring.Contains(0, 0) {
		t.Fatal("ring center should be outside the stroke")
	}
	if ring.Contains(60, 0) {
		t.Fatal("point past the ring should be outside")
	}
}

func TestWedgeContains(t *testing.T) {
	wedge := WedgeElement{CenterX: 0, CenterY: 0, Radius: 100, StartAngle: 0, EndAngle: 45}
	if !wedge.Contains(50, 20) { // ~22 degrees
		t.Fatal("point inside the slice should be contained")
	}
	if wedge.Contains(50, -20) { // ~-22 degrees
		t.Fatal("point outside the angle range should not be contained")
	}
	if wedge.Contains(200, 50) {
		t.Fatal("point past the radius should not be contained")
	}
}

func TestArcContainsWrapsAroundZero(t *testing.T) {
	arc := ArcElement{CenterX: 0, CenterY: 0, Radius: 50, StartAngle: 350, EndAngle: 380, Thickness: 8}
	if !arc.Contains(50, 0) { // 0 degrees, inside the wrapped sweep
		t.Fatal("sweep crossing 0 degrees should contain angle 0")
	}
	if arc.Contains(0, 50) { // 90 degrees
		t.Fatal("angle outside the sweep should not be contained")
	}
}

func TestSavePNGRoundtrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CanvasSize = 64
	cfg.DiscRadius = 24
	cfg.HoleRadius = 3

	img, err := Generate(cfg, 1, "01.01.25")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "disc.png")
	if err := SavePNG(img, path); err != nil {
		t.Fatal(err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	decoded, err := png.Decode(file)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Fatalf("decoded bounds %v differ from %v", decoded.Bounds(), img.Bounds())
	}
}
