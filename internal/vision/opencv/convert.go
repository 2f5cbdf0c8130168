package opencv

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// apply runs op on a Mat copy of src and converts the result back.
func apply(src *image.Gray, op func(in gocv.Mat, out *gocv.Mat)) (*image.Gray, error) {
	in, err := grayToMat(src)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	out := gocv.NewMat()
	defer out.Close()

	op(in, &out)
	return matToGray(out)
}

// grayToMat converts a gray image into a CV_8UC1 Mat. Images that do not
// start at the origin or carry row padding are compacted first.
func grayToMat(src *image.Gray) (gocv.Mat, error) {
	src = compact(src)
	m, err := gocv.ImageGrayToMatGray(src)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to convert gray image: %w", err)
	}
	return m, nil
}

func matToGray(m gocv.Mat) (*image.Gray, error) {
	if m.Empty() {
		return nil, fmt.Errorf("empty result matrix")
	}
	if m.Type() != gocv.MatTypeCV8UC1 {
		return nil, fmt.Errorf("unexpected matrix type %v, want CV_8UC1", m.Type())
	}

	img, err := m.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert matrix: %w", err)
	}
	gray, ok := img.(*image.Gray)
	if !ok {
		return nil, fmt.Errorf("unexpected image type %T", img)
	}
	return gray, nil
}

func compact(src *image.Gray) *image.Gray {
	b := src.Bounds()
	if b.Min == (image.Point{}) && src.Stride == b.Dx() {
		return src
	}

	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):])
	}
	return dst
}
