// Package visual implements the screenshot-driven branch: full-page
// captures, dominant color palettes, and the palette band images used
// by the PDF report.
package visual

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"math/rand"
	"os"
	"sort"

	// Decoders for screenshot and probe formats.
	_ "image/gif"
	_ "image/jpeg"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"
)

// Clustering constants. The seed and iteration count are fixed so the
// same image always yields the same palette.
const (
	sampleSize      = 150
	kmeansSeed      = 42
	kmeansIterCount = 10
)

// PaletteEntry is one representative color with its pixel share.
type PaletteEntry struct {
	// Color is an RGB hex token like "#a1b2c3".
	Color string
	// Proportion is a percentage in [0,100].
	Proportion float64
}

// SiteColors groups the visual-mode artifacts for one URL.
type SiteColors struct {
	URL            string
	Tag            string
	ScreenshotPath string
	PalettePath    string
	Entries        []PaletteEntry
}

// Palette clusters the image's pixel colors into n representative
// colors with proportions. The image is downsampled to a fixed small
// resolution first to bound clustering cost. Entries are sorted by
// descending proportion for stable output; proportions sum to ~100.
func Palette(img image.Image, n int) ([]PaletteEntry, error) {
	if n <= 0 {
		return nil, fmt.Errorf("palette size must be > 0, got %d", n)
	}
	small := resize.Resize(sampleSize, sampleSize, img, resize.Bilinear)

	bounds := small.Bounds()
	pixels := make([][3]float64, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := small.At(x, y).RGBA()
			pixels = append(pixels, [3]float64{
				float64(r >> 8), float64(g >> 8), float64(b >> 8),
			})
		}
	}

	centroids, counts := kmeans(pixels, n)

	total := float64(len(pixels))
	entries := make([]PaletteEntry, n)
	for i := range centroids {
		entries[i] = PaletteEntry{
			Color: fmt.Sprintf("#%02x%02x%02x",
				clampByte(centroids[i][0]), clampByte(centroids[i][1]), clampByte(centroids[i][2])),
			Proportion: round2(float64(counts[i]) / total * 100),
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Proportion > entries[j].Proportion
	})
	return entries, nil
}

// kmeans partitions pixels into k clusters over RGB space with a fixed
// iteration count and deterministic seeding. Empty clusters keep their
// initial centroid and report a zero count.
func kmeans(pixels [][3]float64, k int) ([][3]float64, []int) {
	rng := rand.New(rand.NewSource(kmeansSeed))

	centroids := make([][3]float64, k)
	perm := rng.Perm(len(pixels))
	for i := 0; i < k; i++ {
		centroids[i] = pixels[perm[i%len(perm)]]
	}

	assignments := make([]int, len(pixels))
	counts := make([]int, k)

	for iter := 0; iter < kmeansIterCount; iter++ {
		for i := range counts {
			counts[i] = 0
		}
		sums := make([][3]float64, k)

		for pi, p := range pixels {
			best, bestDist := 0, math.MaxFloat64
			for ci, c := range centroids {
				d := dist2(p, c)
				if d < bestDist {
					best, bestDist = ci, d
				}
			}
			assignments[pi] = best
			counts[best]++
			for axis := 0; axis < 3; axis++ {
				sums[best][axis] += p[axis]
			}
		}

		for ci := range centroids {
			if counts[ci] == 0 {
				continue
			}
			for axis := 0; axis < 3; axis++ {
				centroids[ci][axis] = sums[ci][axis] / float64(counts[ci])
			}
		}
	}
	return centroids, counts
}

// LoadImage decodes a raster image from disk.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return img, nil
}

// WriteBand renders the palette as a 600x100 PNG of proportional color
// bands.
func WriteBand(entries []PaletteEntry, path string) error {
	const width, height = 600, 100
	band := image.NewRGBA(image.Rect(0, 0, width, height))

	startX := 0
	for i, entry := range entries {
		bandWidth := int(float64(width) * entry.Proportion / 100)
		endX := startX + bandWidth
		if i == len(entries)-1 || endX > width {
			endX = width
		}
		fill, err := parseHex(entry.Color)
		if err != nil {
			return err
		}
		draw.Draw(band, image.Rect(startX, 0, endX, height),
			&image.Uniform{C: fill}, image.Point{}, draw.Src)
		startX = endX
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create palette image %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, band); err != nil {
		return fmt.Errorf("encode palette image: %w", err)
	}
	return nil
}

func parseHex(token string) (color.RGBA, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(token, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("parse color token %q: %w", token, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

func dist2(a, b [3]float64) float64 {
	var sum float64
	for i := 0; i < 3; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
