// Package geometry provides the pure rectangle arithmetic shared by the
// detection strategies and the overlap resolver.
//
// # Coordinate System
//
// All boxes use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward, Y increases downward
//   - A Box covers [X, X+Width) horizontally and [Y, Y+Height) vertically
//
// # Units
//
// Pixel lengths and pixel counts are carried as Pixels. Area limits that are
// expressed relative to the whole image are carried as AreaFraction and are
// only turned into a pixel bound through AreaFraction.Of, so a fraction can
// never be compared against a pixel count by accident.
package geometry
