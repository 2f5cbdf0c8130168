package vision

import (
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat"
)

// WhiteRange bounds the HSV cone treated as "near white". Saturation and
// value are on a 0-255 scale; hue is unrestricted.
type WhiteRange struct {
	MaxSaturation float64
	MinValue      float64
}

// DefaultWhiteRange matches blank photo borders: saturation at most 30 and
// value at least 200 (≈12% and ≈78%).
var DefaultWhiteRange = WhiteRange{MaxSaturation: 30, MinValue: 200}

// Contains reports whether a color with the given 8-bit components falls
// inside the range.
func (w WhiteRange) Contains(r, g, b uint8) bool {
	c := colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
	_, s, v := c.Hsv()
	return math.Round(s*255) <= w.MaxSaturation && math.Round(v*255) >= w.MinValue
}

// WhiteMask returns a binary map with 255 wherever the pixel is near white.
// The mask bounds start at the origin regardless of img bounds.
func WhiteMask(img image.Image, w WhiteRange) *image.Gray {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	mask := image.NewGray(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			if w.Contains(uint8(r>>8), uint8(g>>8), uint8(b>>8)) {
				mask.Pix[y*mask.Stride+x] = 255
			}
		}
	}
	return mask
}

// MeanBrightness returns the mean gray level inside r. The second result is
// false when r does not lie entirely inside gray or is empty.
func MeanBrightness(gray *image.Gray, r image.Rectangle) (float64, bool) {
	if r.Empty() || !r.In(gray.Bounds()) {
		return 0, false
	}

	values := make([]float64, 0, r.Dx()*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := gray.Pix[gray.PixOffset(r.Min.X, y):gray.PixOffset(r.Max.X, y)]
		for _, p := range row {
			values = append(values, float64(p))
		}
	}
	return stat.Mean(values, nil), true
}
