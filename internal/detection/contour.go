package detection

import (
	"fmt"
	"image"

	"github.com/ironsheep/photo-extract/internal/geometry"
	"github.com/ironsheep/photo-extract/internal/vision"
)

// ContourDetector is the generic, color-agnostic detector: quadrilateral
// contours of a cleaned adaptive threshold.
type ContourDetector struct {
	Kit    vision.Kit
	Bounds Bounds
}

// Tag returns ContourApprox.
func (d *ContourDetector) Tag() Tag { return ContourApprox }

// Detect finds roughly rectangular contours.
//
// # Algorithm
//
//  1. Grayscale and bilateral filter (9, 75, 75)
//  2. Gaussian adaptive threshold (block 11, C 2)
//  3. Close then open with a 5x5 kernel: close gaps, then drop specks
//  4. Trace external contours
//  5. Keep bounding boxes within the size, area and aspect limits whose
//     contour approximates to 4-8 vertices
//
// The area filter uses the bounding-box area.
//
// # Confidence
//
// 1.0 when the approximation is exactly a quadrilateral, 0.0 otherwise.
func (d *ContourDetector) Detect(img image.Image) ([]Candidate, error) {
	gray, err := d.Kit.Grayscale(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert to grayscale: %w", err)
	}
	filtered, err := d.Kit.Bilateral(gray, 9, 75, 75)
	if err != nil {
		return nil, fmt.Errorf("failed to filter image: %w", err)
	}
	binary, err := d.Kit.AdaptiveThreshold(filtered, vision.AdaptiveGaussian, 11, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to threshold image: %w", err)
	}
	closed, err := d.Kit.Morphology(binary, vision.MorphClose, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to close threshold map: %w", err)
	}
	opened, err := d.Kit.Morphology(closed, vision.MorphOpen, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to open threshold map: %w", err)
	}
	contours, err := d.Kit.FindContours(opened)
	if err != nil {
		return nil, fmt.Errorf("failed to find contours: %w", err)
	}

	total := imageArea(img)
	candidates := make([]Candidate, 0)

	for _, contour := range contours {
		box := geometry.BoxFromRect(d.Kit.BoundingRect(contour))
		if !d.Bounds.Accept(box, float64(box.Area()), total) {
			continue
		}

		vertices := approxVertices(d.Kit, contour)
		if !vertexCountOK(vertices) {
			continue
		}

		confidence := 0.0
		if vertices == 4 {
			confidence = 1.0
		}

		c, err := NewCandidate(box, ContourApprox, confidence)
		if err != nil {
			continue
		}
		c.VertexCount = vertices
		c.Angle = d.Kit.MinAreaAngle(contour)
		candidates = append(candidates, c)
	}

	return candidates, nil
}
