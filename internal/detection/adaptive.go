package detection

import (
	"fmt"
	"image"

	"github.com/ironsheep/photo-extract/internal/geometry"
	"github.com/ironsheep/photo-extract/internal/vision"
)

const adaptiveConfidence = 0.7

// AdaptiveDetector turns connected components of a locally thresholded
// image into candidates.
type AdaptiveDetector struct {
	Kit    vision.Kit
	Bounds Bounds
}

// Tag returns AdaptiveThreshold.
func (d *AdaptiveDetector) Tag() Tag { return AdaptiveThreshold }

// Detect thresholds the grayscale image against the mean of each 11x11
// neighbourhood minus 2 and labels the foreground with 8-connectivity.
// Each component's pixel count is checked against the area range and its
// bounding box against the size and aspect limits. There is no shape check,
// so the confidence is a fixed 0.7.
func (d *AdaptiveDetector) Detect(img image.Image) ([]Candidate, error) {
	gray, err := d.Kit.Grayscale(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert to grayscale: %w", err)
	}
	binary, err := d.Kit.AdaptiveThreshold(gray, vision.AdaptiveMean, 11, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to threshold image: %w", err)
	}
	components, err := d.Kit.ConnectedComponents(binary)
	if err != nil {
		return nil, fmt.Errorf("failed to label components: %w", err)
	}

	total := imageArea(img)
	candidates := make([]Candidate, 0)

	for _, comp := range components {
		box := geometry.BoxFromRect(comp.Bounds)
		if !d.Bounds.Accept(box, float64(comp.Area), total) {
			continue
		}

		c, err := NewCandidate(box, AdaptiveThreshold, adaptiveConfidence)
		if err != nil {
			continue
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}
