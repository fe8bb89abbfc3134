package videoloop

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math/bits"
	"os"

	"golang.org/x/image/draw"
)

// The hash grid is one column wider than the bit grid so every bit has a
// right-hand neighbor to compare against.
const (
	hashCols = 9
	hashRows = 8
)

// DifferenceHash computes a 64-bit difference hash of a frame. The frame is
// converted to grayscale and resized to a 9x8 grid; each bit records whether
// a pixel is brighter than its right neighbor. Visually similar frames hash
// to values with low Hamming distance, which makes the hash a cheap and
// noise-tolerant fingerprint for seam matching.
func DifferenceHash(img image.Image) uint64 {
	small := image.NewGray(image.Rect(0, 0, hashCols, hashRows))
	draw.CatmullRom.Scale(small, small.Bounds(), img, img.Bounds(), draw.Src, nil)

	var hash uint64
	bit := 0
	for y := 0; y < hashRows; y++ {
		row := small.Pix[y*small.Stride : y*small.Stride+hashCols]
		for x := 0; x < hashRows; x++ {
			if row[x] > row[x+1] {
				hash |= 1 << bit
			}
			bit++
		}
	}
	return hash
}

// HashFile decodes the image at path and returns its difference hash.
func HashFile(path string) (uint64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("hash frame: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return 0, fmt.Errorf("hash frame %s: decode: %w", path, err)
	}
	return DifferenceHash(img), nil
}

// Hamming returns the number of differing bits between two hashes.
func Hamming(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}
