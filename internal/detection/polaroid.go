package detection

import (
	"fmt"
	"image"

	"github.com/ironsheep/photo-extract/internal/geometry"
	"github.com/ironsheep/photo-extract/internal/vision"
)

const (
	// DefaultMarginBrightness is the mean gray level the bottom margin of a
	// polaroid must exceed.
	DefaultMarginBrightness = 200.0

	// marginDivisor sets the margin band to the bottom 1/5 of the region.
	marginDivisor = 5

	polaroidConfidence = 0.9
)

// PolaroidDetector finds white-bordered instant photos.
type PolaroidDetector struct {
	Kit    vision.Kit
	Bounds Bounds

	// White selects the border color.
	White vision.WhiteRange

	// MarginBrightness is the exclusive lower limit on the mean gray level
	// of the margin band.
	MarginBrightness float64
}

// Tag returns PolaroidBorder.
func (d *PolaroidDetector) Tag() Tag { return PolaroidBorder }

// Detect traces regions of near-white pixels and keeps the near-square
// ones with a bright bottom margin.
//
// The white mask is closed then opened with a 5x5 kernel before tracing
// external contours. Area limits apply to the contour area.
func (d *PolaroidDetector) Detect(img image.Image) ([]Candidate, error) {
	mask := vision.WhiteMask(img, d.White)

	closed, err := d.Kit.Morphology(mask, vision.MorphClose, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to close white mask: %w", err)
	}
	opened, err := d.Kit.Morphology(closed, vision.MorphOpen, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to open white mask: %w", err)
	}
	contours, err := d.Kit.FindContours(opened)
	if err != nil {
		return nil, fmt.Errorf("failed to find contours: %w", err)
	}

	gray, err := d.Kit.Grayscale(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert to grayscale: %w", err)
	}

	total := imageArea(img)
	candidates := make([]Candidate, 0)

	for _, contour := range contours {
		area := d.Kit.ContourArea(contour)
		if !d.Bounds.AcceptArea(area, total) {
			continue
		}

		box := geometry.BoxFromRect(d.Kit.BoundingRect(contour))
		if !d.Bounds.AcceptBox(box) {
			continue
		}
		if !d.hasMargin(gray, box) {
			continue
		}

		c, err := NewCandidate(box, PolaroidBorder, polaroidConfidence)
		if err != nil {
			continue
		}
		c.Angle = d.Kit.MinAreaAngle(contour)
		candidates = append(candidates, c)
	}

	return candidates, nil
}

func (d *PolaroidDetector) hasMargin(gray *image.Gray, box geometry.Box) bool {
	band := MarginBand(box)
	if band.Empty() || band.Max.Y > gray.Bounds().Max.Y {
		return false
	}
	mean, ok := vision.MeanBrightness(gray, band)
	return ok && mean > d.MarginBrightness
}

// MarginBand returns the bottom fifth of box, where a polaroid carries its
// blank caption strip. The band is empty when box is shorter than 5 px.
func MarginBand(box geometry.Box) image.Rectangle {
	h := box.Height / marginDivisor
	top := box.Bottom() - h
	return image.Rect(box.X, top, box.X+box.Width, top+h)
}
