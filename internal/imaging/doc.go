// Package imaging handles raster I/O and the diagnostic renderings of the
// extractor.
//
// Decoding goes through github.com/disintegration/imaging with EXIF
// auto-orientation, so a photo taken sideways is analysed the way it is
// displayed. Decoded images are cloned into an *image.NRGBA whose bounds
// start at the origin; every coordinate reported by the pipeline is
// relative to that origin.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, the top-left corner is inclusive and the bottom-right
//     corner exclusive
//
// # Diagnostics
//
// The diagnostic tool needs three renderings, all built here:
//   - Annotate: the input with each region outlined in its strategy color
//     and numbered in reading order
//   - Panel: a 2x2 montage of the input, a thresholded edge map, the
//     Sobel edge magnitude and the annotated image
//   - SaveCrops: one JPEG per region named photo_NN_tag.jpg
//
// Edge maps for the panel are computed with github.com/anthonynsimon/bild.
// They are independent of the maps the detection strategies use.
package imaging
