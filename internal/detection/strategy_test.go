package detection

import (
	"errors"
	"image"
	"image/color"
	"math"
	"reflect"
	"testing"

	"github.com/ironsheep/photo-extract/internal/geometry"
	"github.com/ironsheep/photo-extract/internal/vision"
	"github.com/ironsheep/photo-extract/internal/vision/visiontest"
)

// createTestImage creates a solid color test image
func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// fillRect paints a filled rectangle
func fillRect(img *image.RGBA, x, y, w, h int, c color.Color) {
	for py := y; py < y+h; py++ {
		for px := x; px < x+w; px++ {
			img.Set(px, py, c)
		}
	}
}

// hexagon returns a six-vertex contour whose bounding box is w x h at (x, y)
func hexagon(x, y, w, h int) vision.Contour {
	return vision.Contour{
		{X: x + w/4, Y: y},
		{X: x + 3*w/4, Y: y},
		{X: x + w - 1, Y: y + h/2},
		{X: x + 3*w/4, Y: y + h - 1},
		{X: x + w/4, Y: y + h - 1},
		{X: x, Y: y + h/2},
	}
}

// triangle returns a three-vertex contour
func triangle(x, y, w, h int) vision.Contour {
	return vision.Contour{
		{X: x, Y: y + h - 1},
		{X: x + w/2, Y: y},
		{X: x + w - 1, Y: y + h - 1},
	}
}

// nonagon returns a nine-vertex contour
func nonagon(cx, cy, r int) vision.Contour {
	c := make(vision.Contour, 9)
	for i := range c {
		a := 2 * math.Pi * float64(i) / 9
		c[i] = image.Pt(cx+int(float64(r)*math.Cos(a)), cy+int(float64(r)*math.Sin(a)))
	}
	return c
}

func boxes(cands []Candidate) []geometry.Box {
	out := make([]geometry.Box, len(cands))
	for i, c := range cands {
		out[i] = c.Box
	}
	return out
}

func TestNewStrategy(t *testing.T) {
	kit := &visiontest.Kit{}

	for _, tag := range AllTags {
		t.Run(tag.String(), func(t *testing.T) {
			s, err := NewStrategy(tag, kit, DefaultBounds(tag))
			if err != nil {
				t.Fatalf("NewStrategy failed: %v", err)
			}
			if s.Tag() != tag {
				t.Errorf("Tag() = %v, want %v", s.Tag(), tag)
			}
		})
	}

	if _, err := NewStrategy(Tag(7), kit, Bounds{}); err == nil {
		t.Error("expected error for unknown tag")
	}
	if _, err := NewStrategy(EdgeBased, nil, Bounds{}); err == nil {
		t.Error("expected error for nil kit")
	}
}

func TestEdgeDetector_Detect(t *testing.T) {
	img := createTestImage(1000, 800, color.White)
	kit := &visiontest.Kit{
		Angle: -3,
		Contours: []vision.Contour{
			visiontest.Rect(100, 100, 300, 250), // kept
			visiontest.Rect(10, 10, 50, 50),     // area too small
			triangle(500, 100, 300, 300),        // 3 vertices
			visiontest.Rect(100, 500, 600, 150), // aspect 4
			nonagon(700, 400, 150),              // 9 vertices
			hexagon(500, 450, 300, 300),         // kept, 6 vertices
		},
	}

	d := &EdgeDetector{Kit: kit, Bounds: DefaultBounds(EdgeBased)}
	got, err := d.Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	want := []geometry.Box{
		{X: 100, Y: 100, Width: 300, Height: 250},
		{X: 500, Y: 450, Width: 300, Height: 300},
	}
	if !reflect.DeepEqual(boxes(got), want) {
		t.Fatalf("boxes = %v, want %v", boxes(got), want)
	}

	rect := got[0]
	if rect.Tag != EdgeBased {
		t.Errorf("Tag = %v, want EdgeBased", rect.Tag)
	}
	wantConf := float64(299*249) / float64(300*250)
	if math.Abs(rect.Confidence-wantConf) > 1e-9 {
		t.Errorf("Confidence = %v, want fill ratio %v", rect.Confidence, wantConf)
	}
	if rect.VertexCount != 4 {
		t.Errorf("VertexCount = %d, want 4", rect.VertexCount)
	}
	if rect.Angle != -3 {
		t.Errorf("Angle = %v, want -3", rect.Angle)
	}
	if got[1].VertexCount != 6 {
		t.Errorf("hexagon VertexCount = %d, want 6", got[1].VertexCount)
	}
	if got[1].Confidence >= rect.Confidence {
		t.Errorf("hexagon fill ratio %v should be below rectangle %v", got[1].Confidence, rect.Confidence)
	}

	wantCalls := []string{"Grayscale", "Bilateral", "Canny", "Dilate", "FindContours"}
	if !reflect.DeepEqual(kit.Calls(), wantCalls) {
		t.Errorf("calls = %v, want %v", kit.Calls(), wantCalls)
	}
}

func TestEdgeDetector_UsesContourArea(t *testing.T) {
	// A 100x100 image with a 0.8 minimum fraction needs 8000 px² of area.
	// The hexagon's bbox covers the whole image but it encloses ~7400 px².
	img := createTestImage(100, 100, color.White)
	kit := &visiontest.Kit{Contours: []vision.Contour{hexagon(0, 0, 100, 100)}}

	b := DefaultBounds(EdgeBased)
	b.MinAreaFrac = 0.8
	b.MaxAreaFrac = 1

	d := &EdgeDetector{Kit: kit, Bounds: b}
	got, err := d.Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected contour area to fail the area filter, got %v", boxes(got))
	}
}

func TestEdgeDetector_Error(t *testing.T) {
	errBoom := errors.New("boom")
	kit := &visiontest.Kit{FailOn: "Canny", Err: errBoom}

	d := &EdgeDetector{Kit: kit, Bounds: DefaultBounds(EdgeBased)}
	got, err := d.Detect(createTestImage(200, 200, color.White))
	if !errors.Is(err, errBoom) {
		t.Fatalf("Detect error = %v, want wrapped boom", err)
	}
	if got != nil {
		t.Errorf("expected no candidates on error, got %v", got)
	}
}

func TestPolaroidDetector_Detect(t *testing.T) {
	img := createTestImage(1000, 800, color.RGBA{50, 50, 50, 255})
	fillRect(img, 100, 100, 200, 240, color.White)

	kit := &visiontest.Kit{
		Contours: []vision.Contour{
			visiontest.Rect(100, 100, 200, 240), // white polaroid, kept
			visiontest.Rect(500, 100, 200, 240), // dark margin
			visiontest.Rect(700, 600, 200, 240), // margin past bottom edge
			visiontest.Rect(100, 400, 400, 200), // aspect 2
		},
	}

	s, err := NewStrategy(PolaroidBorder, kit, DefaultBounds(PolaroidBorder))
	if err != nil {
		t.Fatalf("NewStrategy failed: %v", err)
	}
	got, err := s.Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	want := []geometry.Box{{X: 100, Y: 100, Width: 200, Height: 240}}
	if !reflect.DeepEqual(boxes(got), want) {
		t.Fatalf("boxes = %v, want %v", boxes(got), want)
	}
	if got[0].Confidence != 0.9 {
		t.Errorf("Confidence = %v, want 0.9", got[0].Confidence)
	}
	if got[0].Kind != KindPolaroid {
		t.Errorf("Kind = %v, want polaroid", got[0].Kind)
	}

	wantCalls := []string{"Morphology:close", "Morphology:open", "FindContours", "Grayscale"}
	if !reflect.DeepEqual(kit.Calls(), wantCalls) {
		t.Errorf("calls = %v, want %v", kit.Calls(), wantCalls)
	}
}

func TestPolaroidDetector_MarginThreshold(t *testing.T) {
	// Margin band mean of exactly the threshold is not enough.
	img := createTestImage(1000, 800, color.RGBA{200, 200, 200, 255})
	kit := &visiontest.Kit{Contours: []vision.Contour{visiontest.Rect(100, 100, 200, 240)}}

	d := &PolaroidDetector{
		Kit:              kit,
		Bounds:           DefaultBounds(PolaroidBorder),
		White:            vision.DefaultWhiteRange,
		MarginBrightness: DefaultMarginBrightness,
	}
	got, err := d.Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("margin at threshold should be rejected, got %v", boxes(got))
	}

	d.MarginBrightness = 199
	got, err = d.Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("margin above lowered threshold should be kept, got %v", boxes(got))
	}
}

func TestMarginBand(t *testing.T) {
	tests := []struct {
		name string
		box  geometry.Box
		want image.Rectangle
	}{
		{"bottom fifth", geometry.Box{X: 10, Y: 20, Width: 100, Height: 50}, image.Rect(10, 60, 110, 70)},
		{"rounds down", geometry.Box{X: 0, Y: 0, Width: 100, Height: 249}, image.Rect(0, 200, 100, 249)},
		{"too short", geometry.Box{X: 0, Y: 0, Width: 100, Height: 4}, image.Rect(0, 4, 100, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarginBand(tt.box)
			if got != tt.want {
				t.Errorf("MarginBand(%v) = %v, want %v", tt.box, got, tt.want)
			}
		})
	}

	if !MarginBand(geometry.Box{Width: 100, Height: 4}).Empty() {
		t.Error("band of a 4 px box should be empty")
	}
}

func TestAdaptiveDetector_Detect(t *testing.T) {
	img := createTestImage(1000, 800, color.White)
	kit := &visiontest.Kit{
		Components: []vision.Component{
			{Bounds: image.Rect(10, 10, 310, 260), Area: 40000},  // kept
			{Bounds: image.Rect(10, 300, 310, 550), Area: 2000},  // too few pixels
			{Bounds: image.Rect(0, 0, 900, 700), Area: 300000},   // above 1/3
			{Bounds: image.Rect(400, 10, 480, 300), Area: 20000}, // narrower than min dim
			{Bounds: image.Rect(500, 300, 800, 500), Area: 50000},
		},
	}

	d := &AdaptiveDetector{Kit: kit, Bounds: DefaultBounds(AdaptiveThreshold)}
	got, err := d.Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	want := []geometry.Box{
		{X: 10, Y: 10, Width: 300, Height: 250},
		{X: 500, Y: 300, Width: 300, Height: 200},
	}
	if !reflect.DeepEqual(boxes(got), want) {
		t.Fatalf("boxes = %v, want %v", boxes(got), want)
	}
	for _, c := range got {
		if c.Confidence != 0.7 || c.Tag != AdaptiveThreshold || c.Kind != KindRegular || c.Angle != 0 {
			t.Errorf("unexpected candidate fields: %+v", c)
		}
	}

	wantCalls := []string{"Grayscale", "AdaptiveThreshold", "ConnectedComponents"}
	if !reflect.DeepEqual(kit.Calls(), wantCalls) {
		t.Errorf("calls = %v, want %v", kit.Calls(), wantCalls)
	}
}

func TestContourDetector_Detect(t *testing.T) {
	img := createTestImage(1000, 800, color.White)
	kit := &visiontest.Kit{
		Contours: []vision.Contour{
			visiontest.Rect(50, 50, 300, 250), // quadrilateral
			hexagon(500, 50, 300, 250),        // six vertices
			triangle(50, 400, 300, 300),       // three vertices
			visiontest.Rect(500, 400, 90, 90), // too small
		},
	}

	d := &ContourDetector{Kit: kit, Bounds: DefaultBounds(ContourApprox)}
	got, err := d.Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	want := []geometry.Box{
		{X: 50, Y: 50, Width: 300, Height: 250},
		{X: 500, Y: 50, Width: 300, Height: 250},
	}
	if !reflect.DeepEqual(boxes(got), want) {
		t.Fatalf("boxes = %v, want %v", boxes(got), want)
	}
	if got[0].Confidence != 1.0 || got[0].VertexCount != 4 {
		t.Errorf("quadrilateral: confidence %v, vertices %d", got[0].Confidence, got[0].VertexCount)
	}
	if got[1].Confidence != 0.0 || got[1].VertexCount != 6 {
		t.Errorf("hexagon: confidence %v, vertices %d", got[1].Confidence, got[1].VertexCount)
	}

	wantCalls := []string{
		"Grayscale", "Bilateral", "AdaptiveThreshold",
		"Morphology:close", "Morphology:open", "FindContours",
	}
	if !reflect.DeepEqual(kit.Calls(), wantCalls) {
		t.Errorf("calls = %v, want %v", kit.Calls(), wantCalls)
	}
}

func TestContourDetector_UsesBoxArea(t *testing.T) {
	// The hexagon encloses ~75% of its box. With a minimum of 0.8 of the
	// image the box area (100%) still passes.
	img := createTestImage(100, 100, color.White)
	kit := &visiontest.Kit{Contours: []vision.Contour{hexagon(0, 0, 100, 100)}}

	b := DefaultBounds(ContourApprox)
	b.MinAreaFrac = 0.8
	b.MaxAreaFrac = 1

	d := &ContourDetector{Kit: kit, Bounds: b}
	got, err := d.Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected bbox area to pass the area filter, got %v", boxes(got))
	}
}

func TestStrategies_EmptyResultIsNotNil(t *testing.T) {
	img := createTestImage(300, 300, color.White)
	kit := &visiontest.Kit{}

	for _, tag := range AllTags {
		t.Run(tag.String(), func(t *testing.T) {
			s, err := NewStrategy(tag, kit, DefaultBounds(tag))
			if err != nil {
				t.Fatalf("NewStrategy failed: %v", err)
			}
			got, err := s.Detect(img)
			if err != nil {
				t.Fatalf("Detect failed: %v", err)
			}
			if got == nil || len(got) != 0 {
				t.Errorf("expected empty non-nil result, got %#v", got)
			}
		})
	}
}
