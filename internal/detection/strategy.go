package detection

import (
	"fmt"
	"image"

	"github.com/ironsheep/photo-extract/internal/geometry"
	"github.com/ironsheep/photo-extract/internal/vision"
)

const (
	// approxTolerance is the polygon approximation epsilon as a fraction
	// of the contour perimeter.
	approxTolerance = 0.02

	minVertices = 4
	maxVertices = 8
)

// Strategy proposes candidate regions for an image.
type Strategy interface {
	// Tag identifies the strategy.
	Tag() Tag

	// Detect returns the candidates found in img in detection order. An
	// empty result is valid; an error means the vision backend failed.
	Detect(img image.Image) ([]Candidate, error)
}

// NewStrategy builds the strategy identified by tag on top of kit.
func NewStrategy(tag Tag, kit vision.Kit, bounds Bounds) (Strategy, error) {
	if kit == nil {
		return nil, fmt.Errorf("strategy %s requires a vision kit", tag)
	}

	switch tag {
	case EdgeBased:
		return &EdgeDetector{Kit: kit, Bounds: bounds}, nil
	case PolaroidBorder:
		return &PolaroidDetector{
			Kit:              kit,
			Bounds:           bounds,
			White:            vision.DefaultWhiteRange,
			MarginBrightness: DefaultMarginBrightness,
		}, nil
	case AdaptiveThreshold:
		return &AdaptiveDetector{Kit: kit, Bounds: bounds}, nil
	case ContourApprox:
		return &ContourDetector{Kit: kit, Bounds: bounds}, nil
	}
	return nil, fmt.Errorf("unknown strategy tag %d", int(tag))
}

func imageArea(img image.Image) geometry.Pixels {
	b := img.Bounds()
	return geometry.Area(b.Dx(), b.Dy())
}

func vertexCountOK(n int) bool {
	return n >= minVertices && n <= maxVertices
}

// approxVertices returns the vertex count of c simplified within 2% of its
// perimeter.
func approxVertices(kit vision.Kit, c vision.Contour) int {
	epsilon := approxTolerance * kit.ArcLength(c)
	return len(kit.ApproxPolygon(c, epsilon))
}
