package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

const (
	// EdgeThreshold is the Sobel magnitude at which a pixel counts as an
	// edge in the panel's edge map.
	EdgeThreshold = 30

	// blurRadius approximates a 5x5 Gaussian kernel.
	blurRadius = 2.0

	// maxPanelSide bounds the longer side of the saved panel.
	maxPanelSide = 4000
)

// EdgeMaps holds the two edge renderings shown in the diagnostic panel.
type EdgeMaps struct {
	// Magnitude is the Sobel gradient magnitude of the blurred grayscale
	// image.
	Magnitude *image.Gray

	// Edges is Magnitude thresholded at EdgeThreshold.
	Edges *image.Gray
}

// EdgeAnalysis computes the panel edge maps of img.
//
// # Algorithm
//
//  1. Grayscale conversion
//  2. Gaussian blur, radius 2
//  3. Sobel magnitude
//  4. Binary threshold at EdgeThreshold
func EdgeAnalysis(img image.Image) EdgeMaps {
	gray := effect.Grayscale(img)
	blurred := blur.Gaussian(gray, blurRadius)
	magnitude := toGray(effect.Grayscale(effect.Sobel(blurred)))

	return EdgeMaps{
		Magnitude: magnitude,
		Edges:     segment.Threshold(magnitude, EdgeThreshold),
	}
}

// toGray copies img into an origin-based 8-bit gray image.
func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}

// Panel builds the 2x2 diagnostic montage:
//
//	original        | edge map
//	edge magnitude  | annotated
//
// Each quadrant has the size of img. Panels larger than maxPanelSide on
// either side are scaled down to fit.
func Panel(img, annotated image.Image, regionCount int) *image.NRGBA {
	maps := EdgeAnalysis(img)

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	out := imaging.New(2*w, 2*h, color.Black)

	out = imaging.Paste(out, img, image.Pt(0, 0))
	out = imaging.Paste(out, maps.Edges, image.Pt(w, 0))
	out = imaging.Paste(out, maps.Magnitude, image.Pt(0, h))
	out = imaging.Paste(out, annotated, image.Pt(w, h))

	white := color.RGBA{255, 255, 255, 255}
	drawLabel(out, 10, 20, "Original", white, labelBackground)
	drawLabel(out, w+10, 20, "Edges Detected", white, labelBackground)
	drawLabel(out, 10, h+20, "Edge Magnitude", white, labelBackground)
	drawLabel(out, w+10, h+20, fmt.Sprintf("Detected Regions: %d", regionCount), white, labelBackground)

	if 2*w > maxPanelSide || 2*h > maxPanelSide {
		out = imaging.Fit(out, maxPanelSide, maxPanelSide, imaging.Lanczos)
	}
	return out
}
