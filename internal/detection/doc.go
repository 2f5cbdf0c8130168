// Package detection proposes candidate photo regions within a collage image.
//
// Four independent strategies look for rectangular sub-images in different
// ways. Each one derives its own maps from the image through a vision.Kit
// and emits the regions that pass its acceptance rules:
//
//   - EdgeBased: Canny edges of a bilateral-filtered image, dilated and
//     traced as external contours. Confidence is the fill ratio of the
//     contour inside its bounding box.
//   - PolaroidBorder: a near-white HSV mask closed and opened, traced as
//     contours, with a near-square aspect and a bright bottom margin.
//     Confidence is a fixed 0.9.
//   - AdaptiveThreshold: connected components of a mean adaptive threshold.
//     Confidence is a fixed 0.7.
//   - ContourApprox: contours of a cleaned Gaussian adaptive threshold that
//     approximate to 4-8 vertices. Confidence is 1 for a quadrilateral and
//     0 otherwise.
//
// # Acceptance
//
// Every strategy checks its candidates against a Bounds value before
// emitting them: minimum width and height, an area range expressed as a
// fraction of the image area and an aspect-ratio range. All limits are
// inclusive. A region that fails any rule is simply absent from the output,
// never returned with a lowered confidence.
//
// # Coordinate System
//
// Candidates are reported relative to the top-left corner of the image
// bounds. Width and height follow the bounding-rectangle convention of the
// vision backend.
//
// Strategies hold no state between calls and may run concurrently on the
// same image.
package detection
