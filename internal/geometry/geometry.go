package geometry

import (
	"fmt"
	"image"
)

// Pixels is a length or a pixel count in image space.
type Pixels int

// AreaFraction is an area expressed as a fraction of the full image area.
type AreaFraction float64

// Of converts the fraction into a pixel-area bound for an image of the
// given total area.
func (f AreaFraction) Of(total Pixels) float64 {
	return float64(f) * float64(total)
}

// Box is an axis-aligned bounding box in image pixel coordinates.
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// BoxFromRect converts an image.Rectangle into a Box.
func BoxFromRect(r image.Rectangle) Box {
	r = r.Canon()
	return Box{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Rect returns the box as an image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// Area returns Width*Height.
func (b Box) Area() Pixels {
	return Area(b.Width, b.Height)
}

// AspectRatio returns Width/Height, see AspectRatio.
func (b Box) AspectRatio() float64 {
	return AspectRatio(b.Width, b.Height)
}

// Bottom returns the exclusive bottom edge.
func (b Box) Bottom() int {
	return b.Y + b.Height
}

func (b Box) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", b.X, b.Y, b.Width, b.Height)
}

// Area returns w*h.
func Area(w, h int) Pixels {
	return Pixels(w * h)
}

// AspectRatio returns w/h. A non-positive height yields 0, which lies
// below every minimum aspect ratio, so the box is rejected by any aspect
// filter instead of dividing by zero.
func AspectRatio(w, h int) float64 {
	if h <= 0 {
		return 0
	}
	return float64(w) / float64(h)
}

// IoU returns the intersection-over-union of two boxes.
//
// The intersection rectangle spans
//
//	x1 = max(a.X, b.X)           y1 = max(a.Y, b.Y)
//	x2 = min(a.X+a.W, b.X+b.W)   y2 = min(a.Y+a.H, b.Y+b.H)
//
// If x2 < x1 or y2 < y1 the boxes are disjoint and IoU is 0. Boxes that only
// touch along an edge have a zero intersection and also score 0. The result
// is symmetric and equals 1 for identical boxes.
func IoU(a, b Box) float64 {
	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.X+a.Width, b.X+b.Width)
	y2 := min(a.Y+a.Height, b.Y+b.Height)

	if x2 < x1 || y2 < y1 {
		return 0
	}

	intersection := (x2 - x1) * (y2 - y1)
	union := int(a.Area()) + int(b.Area()) - intersection
	if union <= 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
