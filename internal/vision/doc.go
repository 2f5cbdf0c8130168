// Package vision describes the computer-vision primitives the detection
// strategies consume.
//
// The heavy lifting (grayscale conversion, bilateral filtering, Canny edges,
// adaptive thresholding, morphology, contour extraction, polygon
// approximation and connected-component labelling) is done by an external
// library. The Kit interface names exactly those capabilities, and the
// opencv sub-package implements it on top of gocv. Strategies only see the
// structured results: binary maps as *image.Gray, contours as point lists,
// components as bounding boxes with pixel areas.
//
// A small number of per-pixel helpers that have no OpenCV counterpart in
// the detection flow live here directly:
//
//   - WhiteMask classifies near-white pixels in HSV space using go-colorful
//   - MeanBrightness averages BT.601 luma over a band using gonum/stat
//
// # Binary Maps
//
// Every map produced by a Kit is an 8-bit single channel image whose bounds
// start at the origin. Foreground pixels are 255, background pixels are 0.
package vision
