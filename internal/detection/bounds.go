package detection

import (
	"fmt"

	"github.com/ironsheep/photo-extract/internal/geometry"
)

// DefaultMinDim is the smallest accepted width and height.
const DefaultMinDim geometry.Pixels = 100

// Bounds holds the geometric acceptance limits of a strategy. Every limit
// is inclusive.
type Bounds struct {
	// MinDim is the minimum width and height in pixels. It is configured
	// once for all strategies, so it has no per-strategy YAML key.
	MinDim geometry.Pixels `yaml:"-" json:"min_dim"`

	// MinAreaFrac and MaxAreaFrac bound the measured region area as a
	// fraction of the image area.
	MinAreaFrac geometry.AreaFraction `yaml:"min_area_frac" json:"min_area_frac"`
	MaxAreaFrac geometry.AreaFraction `yaml:"max_area_frac" json:"max_area_frac"`

	// MinAspect and MaxAspect bound width/height.
	MinAspect float64 `yaml:"min_aspect" json:"min_aspect"`
	MaxAspect float64 `yaml:"max_aspect" json:"max_aspect"`
}

// DefaultBounds returns the acceptance limits a strategy uses unless
// configured otherwise.
func DefaultBounds(tag Tag) Bounds {
	b := Bounds{
		MinDim:      DefaultMinDim,
		MinAreaFrac: 0.005,
		MaxAreaFrac: 0.5,
		MinAspect:   0.5,
		MaxAspect:   2.0,
	}

	switch tag {
	case PolaroidBorder:
		b.MinAreaFrac = 0.01
		b.MaxAreaFrac = 0.3
		b.MinAspect = 0.7
		b.MaxAspect = 1.1
	case AdaptiveThreshold:
		b.MaxAreaFrac = geometry.AreaFraction(1.0 / 3.0)
	}
	return b
}

// AcceptArea reports whether a measured area lies within the area range for
// an image of imageArea pixels.
func (b Bounds) AcceptArea(area float64, imageArea geometry.Pixels) bool {
	return area >= b.MinAreaFrac.Of(imageArea) && area <= b.MaxAreaFrac.Of(imageArea)
}

// AcceptBox reports whether box satisfies the minimum dimension and aspect
// ratio limits. A zero-height box has aspect ratio 0 and is rejected.
func (b Bounds) AcceptBox(box geometry.Box) bool {
	if geometry.Pixels(box.Width) < b.MinDim || geometry.Pixels(box.Height) < b.MinDim {
		return false
	}
	ar := box.AspectRatio()
	return ar >= b.MinAspect && ar <= b.MaxAspect && ar > 0
}

// Accept combines AcceptBox and AcceptArea.
func (b Bounds) Accept(box geometry.Box, area float64, imageArea geometry.Pixels) bool {
	return b.AcceptBox(box) && b.AcceptArea(area, imageArea)
}

// Validate checks that the limits describe a non-empty range.
func (b Bounds) Validate() error {
	if b.MinDim < 0 {
		return fmt.Errorf("min_dim must be non-negative, got %d", b.MinDim)
	}
	if b.MinAreaFrac < 0 || b.MaxAreaFrac > 1 || b.MinAreaFrac > b.MaxAreaFrac {
		return fmt.Errorf("area fraction range [%g, %g] must lie within [0, 1]", b.MinAreaFrac, b.MaxAreaFrac)
	}
	if b.MinAspect <= 0 || b.MinAspect > b.MaxAspect {
		return fmt.Errorf("aspect range [%g, %g] must be positive and ordered", b.MinAspect, b.MaxAspect)
	}
	return nil
}
