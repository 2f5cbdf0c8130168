package vision

import "image"

// Contour is a closed outline returned by FindContours, in image
// coordinates.
type Contour []image.Point

// Component is one connected foreground region of a binary map.
type Component struct {
	// Bounds is the tight bounding rectangle of the component.
	Bounds image.Rectangle

	// Area is the number of foreground pixels in the component.
	Area int
}

// MorphOp selects a morphological operation.
type MorphOp int

const (
	// MorphOpen erodes then dilates, removing small specks.
	MorphOpen MorphOp = iota
	// MorphClose dilates then erodes, closing small gaps.
	MorphClose
)

func (op MorphOp) String() string {
	switch op {
	case MorphOpen:
		return "open"
	case MorphClose:
		return "close"
	default:
		return "unknown"
	}
}

// AdaptiveMethod selects how the local threshold is computed.
type AdaptiveMethod int

const (
	// AdaptiveMean uses the mean of the block neighbourhood.
	AdaptiveMean AdaptiveMethod = iota
	// AdaptiveGaussian uses a Gaussian-weighted neighbourhood sum.
	AdaptiveGaussian
)

// Kit is the set of image primitives the detection strategies rely on.
//
// Implementations must be safe for concurrent use by independent callers:
// the pipeline may run several strategies at the same time, each with its
// own inputs.
type Kit interface {
	// Grayscale converts a color image into 8-bit luma.
	Grayscale(img image.Image) (*image.Gray, error)

	// Bilateral applies an edge-preserving bilateral filter.
	Bilateral(src *image.Gray, diameter int, sigmaColor, sigmaSpace float64) (*image.Gray, error)

	// Canny produces a binary edge map using hysteresis thresholds.
	Canny(src *image.Gray, low, high float32) (*image.Gray, error)

	// Dilate grows foreground regions with a square kernel of the given size.
	Dilate(src *image.Gray, kernel int) (*image.Gray, error)

	// AdaptiveThreshold binarizes using a local threshold of blockSize
	// pixels minus c.
	AdaptiveThreshold(src *image.Gray, method AdaptiveMethod, blockSize int, c float32) (*image.Gray, error)

	// Morphology applies op with a square kernel of the given size.
	Morphology(src *image.Gray, op MorphOp, kernel int) (*image.Gray, error)

	// FindContours returns the external contours of a binary map, with
	// straight runs compressed to their end points.
	FindContours(src *image.Gray) ([]Contour, error)

	// ApproxPolygon simplifies a closed contour to a polygon within
	// epsilon pixels.
	ApproxPolygon(c Contour, epsilon float64) []image.Point

	// ArcLength returns the perimeter of a closed contour.
	ArcLength(c Contour) float64

	// ContourArea returns the area enclosed by a contour.
	ContourArea(c Contour) float64

	// BoundingRect returns the upright bounding rectangle of a contour.
	BoundingRect(c Contour) image.Rectangle

	// MinAreaAngle returns the rotation in degrees of the minimum-area
	// rectangle enclosing the contour.
	MinAreaAngle(c Contour) float64

	// ConnectedComponents labels the foreground of a binary map with
	// 8-connectivity. The background label is not included.
	ConnectedComponents(src *image.Gray) ([]Component, error)
}
