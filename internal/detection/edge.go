package detection

import (
	"fmt"
	"image"

	"github.com/ironsheep/photo-extract/internal/geometry"
	"github.com/ironsheep/photo-extract/internal/vision"
)

// EdgeDetector finds photos whose outline shows up in a Canny edge map.
type EdgeDetector struct {
	Kit    vision.Kit
	Bounds Bounds
}

// Tag returns EdgeBased.
func (d *EdgeDetector) Tag() Tag { return EdgeBased }

// Detect finds rectangular outlines in the edge map of img.
//
// # Algorithm
//
//  1. Grayscale, then bilateral filter (diameter 9, sigma 75/75) to smooth
//     texture inside the photos while keeping their borders sharp
//  2. Canny with hysteresis thresholds 50/150
//  3. Dilate once with a 3x3 kernel to join broken border segments
//  4. Trace external contours
//  5. Keep contours whose enclosed area is within the area range, whose
//     polygon approximation has 4-8 vertices, and whose bounding box
//     passes the size and aspect limits
//
// The area filter uses contour area rather than bounding-box area, so a
// ragged outline needs more enclosed pixels to qualify.
//
// # Confidence
//
// contour area / bounding-box area: 1.0 for a clean rectangle, lower for
// irregular blobs.
func (d *EdgeDetector) Detect(img image.Image) ([]Candidate, error) {
	gray, err := d.Kit.Grayscale(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert to grayscale: %w", err)
	}
	filtered, err := d.Kit.Bilateral(gray, 9, 75, 75)
	if err != nil {
		return nil, fmt.Errorf("failed to filter image: %w", err)
	}
	edges, err := d.Kit.Canny(filtered, 50, 150)
	if err != nil {
		return nil, fmt.Errorf("failed to detect edges: %w", err)
	}
	dilated, err := d.Kit.Dilate(edges, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to dilate edges: %w", err)
	}
	contours, err := d.Kit.FindContours(dilated)
	if err != nil {
		return nil, fmt.Errorf("failed to find contours: %w", err)
	}

	total := imageArea(img)
	candidates := make([]Candidate, 0)

	for _, contour := range contours {
		area := d.Kit.ContourArea(contour)
		if !d.Bounds.AcceptArea(area, total) {
			continue
		}

		vertices := approxVertices(d.Kit, contour)
		if !vertexCountOK(vertices) {
			continue
		}

		box := geometry.BoxFromRect(d.Kit.BoundingRect(contour))
		if !d.Bounds.AcceptBox(box) {
			continue
		}

		c, err := NewCandidate(box, EdgeBased, area/float64(box.Area()))
		if err != nil {
			continue
		}
		c.VertexCount = vertices
		c.Angle = d.Kit.MinAreaAngle(contour)
		candidates = append(candidates, c)
	}

	return candidates, nil
}
