// Package opencv implements vision.Kit on top of OpenCV through gocv.
//
// Each call converts its *image.Gray inputs into gocv.Mat values, runs the
// OpenCV routine and converts the result back. Mats never escape a call, so
// a single Kit can be shared by strategies running on different goroutines.
package opencv

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ironsheep/photo-extract/internal/vision"
)

// Kit is the gocv-backed vision.Kit.
type Kit struct{}

// New returns a gocv-backed Kit.
func New() *Kit {
	return &Kit{}
}

var _ vision.Kit = (*Kit)(nil)

// Grayscale converts img to 8-bit luma with OpenCV's BGR→GRAY weights.
func (k *Kit) Grayscale(img image.Image) (*image.Gray, error) {
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	return matToGray(gray)
}

// Bilateral runs cv::bilateralFilter.
func (k *Kit) Bilateral(src *image.Gray, diameter int, sigmaColor, sigmaSpace float64) (*image.Gray, error) {
	return apply(src, func(in gocv.Mat, out *gocv.Mat) {
		gocv.BilateralFilter(in, out, diameter, sigmaColor, sigmaSpace)
	})
}

// Canny runs cv::Canny with the default 3x3 aperture.
func (k *Kit) Canny(src *image.Gray, low, high float32) (*image.Gray, error) {
	return apply(src, func(in gocv.Mat, out *gocv.Mat) {
		gocv.Canny(in, out, low, high)
	})
}

// Dilate runs one iteration of cv::dilate with a rectangular kernel.
func (k *Kit) Dilate(src *image.Gray, kernel int) (*image.Gray, error) {
	element := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(kernel, kernel))
	defer element.Close()

	return apply(src, func(in gocv.Mat, out *gocv.Mat) {
		gocv.Dilate(in, out, element)
	})
}

// AdaptiveThreshold runs cv::adaptiveThreshold producing a 0/255 map.
func (k *Kit) AdaptiveThreshold(src *image.Gray, method vision.AdaptiveMethod, blockSize int, c float32) (*image.Gray, error) {
	typ := gocv.AdaptiveThresholdMean
	if method == vision.AdaptiveGaussian {
		typ = gocv.AdaptiveThresholdGaussian
	}

	return apply(src, func(in gocv.Mat, out *gocv.Mat) {
		gocv.AdaptiveThreshold(in, out, 255, typ, gocv.ThresholdBinary, blockSize, c)
	})
}

// Morphology runs cv::morphologyEx with a rectangular kernel.
func (k *Kit) Morphology(src *image.Gray, op vision.MorphOp, kernel int) (*image.Gray, error) {
	var typ gocv.MorphType
	switch op {
	case vision.MorphOpen:
		typ = gocv.MorphOpen
	case vision.MorphClose:
		typ = gocv.MorphClose
	default:
		return nil, fmt.Errorf("unsupported morphology operation: %v", op)
	}

	element := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(kernel, kernel))
	defer element.Close()

	return apply(src, func(in gocv.Mat, out *gocv.Mat) {
		gocv.MorphologyEx(in, out, typ, element)
	})
}

// FindContours returns external contours with simple chain approximation.
func (k *Kit) FindContours(src *image.Gray) ([]vision.Contour, error) {
	in, err := grayToMat(src)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	found := gocv.FindContours(in, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer found.Close()

	contours := make([]vision.Contour, 0, found.Size())
	for i := 0; i < found.Size(); i++ {
		contours = append(contours, vision.Contour(found.At(i).ToPoints()))
	}
	return contours, nil
}

// ApproxPolygon runs cv::approxPolyDP on a closed curve.
func (k *Kit) ApproxPolygon(c vision.Contour, epsilon float64) []image.Point {
	pv := gocv.NewPointVectorFromPoints(c)
	defer pv.Close()

	approx := gocv.ApproxPolyDP(pv, epsilon, true)
	defer approx.Close()

	return approx.ToPoints()
}

// ArcLength runs cv::arcLength on a closed curve.
func (k *Kit) ArcLength(c vision.Contour) float64 {
	pv := gocv.NewPointVectorFromPoints(c)
	defer pv.Close()
	return gocv.ArcLength(pv, true)
}

// ContourArea runs cv::contourArea.
func (k *Kit) ContourArea(c vision.Contour) float64 {
	pv := gocv.NewPointVectorFromPoints(c)
	defer pv.Close()
	return gocv.ContourArea(pv)
}

// BoundingRect runs cv::boundingRect.
func (k *Kit) BoundingRect(c vision.Contour) image.Rectangle {
	pv := gocv.NewPointVectorFromPoints(c)
	defer pv.Close()
	return gocv.BoundingRect(pv)
}

// MinAreaAngle returns the angle of cv::minAreaRect.
func (k *Kit) MinAreaAngle(c vision.Contour) float64 {
	pv := gocv.NewPointVectorFromPoints(c)
	defer pv.Close()
	return gocv.MinAreaRect(pv).Angle
}

// ConnectedComponents runs cv::connectedComponentsWithStats (8-connectivity,
// 32-bit labels) and returns every label except the background.
func (k *Kit) ConnectedComponents(src *image.Gray) ([]vision.Component, error) {
	in, err := grayToMat(src)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	labels := gocv.NewMat()
	defer labels.Close()
	stats := gocv.NewMat()
	defer stats.Close()
	centroids := gocv.NewMat()
	defer centroids.Close()

	n := gocv.ConnectedComponentsWithStats(in, &labels, &stats, &centroids)

	components := make([]vision.Component, 0, max(n-1, 0))
	for i := 1; i < n; i++ {
		x := int(stats.GetIntAt(i, int(gocv.CC_STAT_LEFT)))
		y := int(stats.GetIntAt(i, int(gocv.CC_STAT_TOP)))
		w := int(stats.GetIntAt(i, int(gocv.CC_STAT_WIDTH)))
		h := int(stats.GetIntAt(i, int(gocv.CC_STAT_HEIGHT)))
		area := int(stats.GetIntAt(i, int(gocv.CC_STAT_AREA)))

		components = append(components, vision.Component{
			Bounds: image.Rect(x, y, x+w, y+h),
			Area:   area,
		})
	}
	return components, nil
}
