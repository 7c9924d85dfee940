// Package visualtest compares rendered scenes pixel by pixel. A reftest
// renders two documents that must look the same, such as a shorthand and
// its longhands, and compares the images.
package visualtest

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// CompareResult is the outcome of a comparison.
type CompareResult struct {
	Match           bool
	DifferentPixels int
	TotalPixels     int
	// MaxDifference is the largest channel difference seen, 0-255.
	MaxDifference int
	// Diff marks differing pixels in red over a gray copy of the actual
	// image. Set only when requested and the images differ.
	Diff *image.RGBA
}

// DifferentPercent is the share of pixels that did not match.
func (r *CompareResult) DifferentPercent() float64 {
	if r.TotalPixels == 0 {
		return 0
	}
	return float64(r.DifferentPixels) / float64(r.TotalPixels) * 100
}

// CompareOptions configures the comparison.
type CompareOptions struct {
	// Tolerance is the largest channel difference, 0-255, still counted
	// as equal.
	Tolerance int
	// FuzzyRadius lets a pixel match any expected pixel within the radius.
	FuzzyRadius int
	// MaxDifferentPercent passes images with at most this share of
	// differing pixels.
	MaxDifferentPercent float64
	// WantDiff builds CompareResult.Diff.
	WantDiff bool
}

// DefaultOptions tolerates antialiasing noise only.
func DefaultOptions() CompareOptions {
	return CompareOptions{Tolerance: 2}
}

// Compare compares two images of the same bounds.
func Compare(actual, expected image.Image, opts CompareOptions) (*CompareResult, error) {
	bounds := actual.Bounds()
	if bounds != expected.Bounds() {
		return &CompareResult{}, fmt.Errorf("image dimensions differ: actual=%v, expected=%v", bounds, expected.Bounds())
	}

	result := &CompareResult{Match: true, TotalPixels: bounds.Dx() * bounds.Dy()}
	var diff *image.RGBA
	if opts.WantDiff {
		diff = image.NewRGBA(bounds)
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			a := actual.At(x, y)
			d := channelDiff(a, expected.At(x, y))
			result.MaxDifference = max(result.MaxDifference, d)

			same := d <= opts.Tolerance ||
				(opts.FuzzyRadius > 0 && fuzzyMatch(a, expected, x, y, opts))
			if !same {
				result.Match = false
				result.DifferentPixels++
			}
			if diff != nil {
				if same {
					g := gray(a)
					diff.Set(x, y, color.RGBA{g, g, g, 255})
				} else {
					diff.Set(x, y, color.RGBA{255, 0, 0, 255})
				}
			}
		}
	}

	if !result.Match && opts.MaxDifferentPercent > 0 && result.DifferentPercent() <= opts.MaxDifferentPercent {
		result.Match = true
	}
	if !result.Match {
		result.Diff = diff
	}
	return result, nil
}

// CompareFiles compares two PNG files.
func CompareFiles(actualPath, expectedPath string, opts CompareOptions) (*CompareResult, error) {
	actual, err := loadPNG(actualPath)
	if err != nil {
		return nil, fmt.Errorf("actual image: %w", err)
	}
	expected, err := loadPNG(expectedPath)
	if err != nil {
		return nil, fmt.Errorf("expected image: %w", err)
	}
	return Compare(actual, expected, opts)
}

// fuzzyMatch reports whether a matches any expected pixel within the
// radius around (x, y).
func fuzzyMatch(a color.Color, expected image.Image, x, y int, opts CompareOptions) bool {
	b := expected.Bounds()
	r := opts.FuzzyRadius
	for ny := max(y-r, b.Min.Y); ny <= min(y+r, b.Max.Y-1); ny++ {
		for nx := max(x-r, b.Min.X); nx <= min(x+r, b.Max.X-1); nx++ {
			if channelDiff(a, expected.At(nx, ny)) <= opts.Tolerance {
				return true
			}
		}
	}
	return false
}

// channelDiff is the largest difference between the 8-bit channels.
func channelDiff(a, b color.Color) int {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	d := 0
	for _, p := range [...][2]uint32{{ar, br}, {ag, bg}, {ab, bb}, {aa, ba}} {
		d = max(d, absInt(int(p[0]>>8)-int(p[1]>>8)))
	}
	return d
}

func gray(c color.Color) uint8 {
	return color.GrayModel.Convert(c).(color.Gray).Y
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

// SavePNG writes img to path.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
