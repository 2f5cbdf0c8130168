package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/photo-extract/internal/detection"
)

// outlineWidth is the stroke width of region outlines.
const outlineWidth = 2

var tagHues = map[detection.Tag]float64{
	detection.PolaroidBorder:    120, // green
	detection.EdgeBased:         240, // blue
	detection.AdaptiveThreshold: 0,   // red
	detection.ContourApprox:     60,  // yellow
}

// TagColor returns the outline color of a strategy.
func TagColor(tag detection.Tag) color.RGBA {
	hue, ok := tagHues[tag]
	if !ok {
		hue = 300
	}
	r, g, b := colorful.Hsv(hue, 1, 1).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Annotate returns a copy of img with every region outlined in its strategy
// color and labelled "N: tag" in slice order, plus a total count in the
// top-left corner.
func Annotate(img image.Image, regions []detection.Candidate) *image.NRGBA {
	out := imaging.Clone(img)

	for i, r := range regions {
		c := TagColor(r.Tag)
		drawRect(out, r.Rect(), outlineWidth, c)
		drawLabel(out, r.X, r.Y-5, fmt.Sprintf("%d: %s", i+1, shortTag(r.Tag)), c, labelBackground)
	}

	drawLabel(out, 10, 40, fmt.Sprintf("Total: %d photos", len(regions)), color.RGBA{255, 255, 255, 255}, labelBackground)
	return out
}

var labelBackground = color.RGBA{0, 0, 0, 180}

func shortTag(tag detection.Tag) string {
	s := tag.String()
	if len(s) > 3 {
		return s[:3]
	}
	return s
}

// drawRect strokes r with the given width, growing inwards. Pixels outside
// img are skipped.
func drawRect(img draw.Image, r image.Rectangle, width int, c color.Color) {
	for k := 0; k < width; k++ {
		inner := r.Inset(k)
		if inner.Empty() {
			return
		}
		for x := inner.Min.X; x < inner.Max.X; x++ {
			img.Set(x, inner.Min.Y, c)
			img.Set(x, inner.Max.Y-1, c)
		}
		for y := inner.Min.Y; y < inner.Max.Y; y++ {
			img.Set(inner.Min.X, y, c)
			img.Set(inner.Max.X-1, y, c)
		}
	}
}

// drawLabel renders text with its baseline at (x, y) on a translucent
// background. The baseline is pushed down so the glyphs stay inside the
// image when y is near the top edge.
func drawLabel(img draw.Image, x, y int, text string, fg, bg color.RGBA) {
	face := basicfont.Face7x13
	bounds := img.Bounds()

	ascent := face.Metrics().Ascent.Ceil()
	descent := face.Metrics().Descent.Ceil()
	y = max(y, bounds.Min.Y+ascent+1)
	x = max(x, bounds.Min.X)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(x, y),
	}

	width := d.MeasureString(text).Ceil()
	box := image.Rect(x-1, y-ascent-1, x+width+1, y+descent).Intersect(bounds)
	draw.Draw(img, box, image.NewUniform(bg), image.Point{}, draw.Over)

	d.DrawString(text)
}
