// Package visiontest provides a scripted vision.Kit for tests that do not
// need OpenCV.
package visiontest

import (
	"image"
	"image/draw"
	"math"
	"sync"

	"github.com/ironsheep/photo-extract/internal/vision"
)

// Kit is a vision.Kit whose contour and component outputs are fixed in
// advance. Map-producing calls return their input unchanged, except
// Grayscale which performs a real luma conversion so brightness checks see
// the test image.
//
// Geometry follows OpenCV conventions: BoundingRect is inclusive of the
// extreme points and ContourArea is the shoelace area of the polygon.
type Kit struct {
	Contours   []vision.Contour
	Components []vision.Component

	// Approx simplifies a contour. Nil returns the contour points unchanged.
	Approx func(c vision.Contour, epsilon float64) []image.Point

	// Angle is reported by MinAreaAngle for every contour.
	Angle float64

	// FailOn names a method ("Canny", "FindContours", ...) that returns Err.
	FailOn string
	Err    error

	mu    sync.Mutex
	calls []string
}

var _ vision.Kit = (*Kit)(nil)

// Calls returns the names of the methods invoked so far, in order.
func (k *Kit) Calls() []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]string(nil), k.calls...)
}

func (k *Kit) record(name string) error {
	k.mu.Lock()
	k.calls = append(k.calls, name)
	k.mu.Unlock()

	if k.FailOn == name {
		return k.Err
	}
	return nil
}

func (k *Kit) Grayscale(img image.Image) (*image.Gray, error) {
	if err := k.record("Grayscale"); err != nil {
		return nil, err
	}
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray, nil
}

func (k *Kit) Bilateral(src *image.Gray, _ int, _, _ float64) (*image.Gray, error) {
	return src, k.record("Bilateral")
}

func (k *Kit) Canny(src *image.Gray, _, _ float32) (*image.Gray, error) {
	return src, k.record("Canny")
}

func (k *Kit) Dilate(src *image.Gray, _ int) (*image.Gray, error) {
	return src, k.record("Dilate")
}

func (k *Kit) AdaptiveThreshold(src *image.Gray, _ vision.AdaptiveMethod, _ int, _ float32) (*image.Gray, error) {
	return src, k.record("AdaptiveThreshold")
}

func (k *Kit) Morphology(src *image.Gray, op vision.MorphOp, _ int) (*image.Gray, error) {
	return src, k.record("Morphology:" + op.String())
}

func (k *Kit) FindContours(_ *image.Gray) ([]vision.Contour, error) {
	if err := k.record("FindContours"); err != nil {
		return nil, err
	}
	return append([]vision.Contour(nil), k.Contours...), nil
}

func (k *Kit) ApproxPolygon(c vision.Contour, epsilon float64) []image.Point {
	if k.Approx != nil {
		return k.Approx(c, epsilon)
	}
	return append([]image.Point(nil), c...)
}

func (k *Kit) ArcLength(c vision.Contour) float64 {
	var total float64
	for i := range c {
		p, q := c[i], c[(i+1)%len(c)]
		total += math.Hypot(float64(q.X-p.X), float64(q.Y-p.Y))
	}
	return total
}

func (k *Kit) ContourArea(c vision.Contour) float64 {
	var sum int
	for i := range c {
		p, q := c[i], c[(i+1)%len(c)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return math.Abs(float64(sum)) / 2
}

func (k *Kit) BoundingRect(c vision.Contour) image.Rectangle {
	if len(c) == 0 {
		return image.Rectangle{}
	}
	r := image.Rect(c[0].X, c[0].Y, c[0].X+1, c[0].Y+1)
	for _, p := range c[1:] {
		r = r.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))
	}
	return r
}

func (k *Kit) MinAreaAngle(_ vision.Contour) float64 {
	return k.Angle
}

func (k *Kit) ConnectedComponents(_ *image.Gray) ([]vision.Component, error) {
	if err := k.record("ConnectedComponents"); err != nil {
		return nil, err
	}
	return append([]vision.Component(nil), k.Components...), nil
}

// Rect returns the four corners of the w x h rectangle at (x, y) as a
// contour whose BoundingRect is exactly that rectangle.
func Rect(x, y, w, h int) vision.Contour {
	return vision.Contour{
		{X: x, Y: y},
		{X: x + w - 1, Y: y},
		{X: x + w - 1, Y: y + h - 1},
		{X: x, Y: y + h - 1},
	}
}
