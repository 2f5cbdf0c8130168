package detection

import (
	"testing"

	"github.com/ironsheep/photo-extract/internal/geometry"
)

func TestBounds_Accept(t *testing.T) {
	const imageArea geometry.Pixels = 1000 * 1000
	b := DefaultBounds(EdgeBased)

	valid := geometry.Box{X: 0, Y: 0, Width: 300, Height: 250}

	tests := []struct {
		name string
		box  geometry.Box
		area float64
		want bool
	}{
		{"meets every bound", valid, 75000, true},
		{"width below min dim", geometry.Box{Width: 99, Height: 150}, 14850, false},
		{"height below min dim", geometry.Box{Width: 150, Height: 99}, 14850, false},
		{"area below range", valid, 4999, false},
		{"area above range", valid, 500001, false},
		{"aspect below range", geometry.Box{Width: 100, Height: 201}, 20100, false},
		{"aspect above range", geometry.Box{Width: 402, Height: 200}, 80400, false},
		{"min dim is inclusive", geometry.Box{Width: 100, Height: 100}, 10000, true},
		{"min area is inclusive", valid, 5000, true},
		{"max area is inclusive", valid, 500000, true},
		{"min aspect is inclusive", geometry.Box{Width: 100, Height: 200}, 20000, true},
		{"max aspect is inclusive", geometry.Box{Width: 400, Height: 200}, 80000, true},
		{"zero height rejected", geometry.Box{Width: 300, Height: 0}, 75000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Accept(tt.box, tt.area, imageArea); got != tt.want {
				t.Errorf("Accept(%v, %v) = %v, want %v", tt.box, tt.area, got, tt.want)
			}
		})
	}
}

func TestBounds_ZeroMinDimStillRejectsZeroHeight(t *testing.T) {
	b := Bounds{MinAreaFrac: 0, MaxAreaFrac: 1, MinAspect: 0, MaxAspect: 10}
	if b.AcceptBox(geometry.Box{Width: 10, Height: 0}) {
		t.Error("zero-height box should never be accepted")
	}
}

func TestDefaultBounds(t *testing.T) {
	tests := []struct {
		tag                  Tag
		minArea, maxArea     geometry.AreaFraction
		minAspect, maxAspect float64
	}{
		{EdgeBased, 0.005, 0.5, 0.5, 2.0},
		{PolaroidBorder, 0.01, 0.3, 0.7, 1.1},
		{AdaptiveThreshold, 0.005, geometry.AreaFraction(1.0 / 3.0), 0.5, 2.0},
		{ContourApprox, 0.005, 0.5, 0.5, 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			b := DefaultBounds(tt.tag)
			if b.MinDim != 100 {
				t.Errorf("MinDim = %d, want 100", b.MinDim)
			}
			if b.MinAreaFrac != tt.minArea || b.MaxAreaFrac != tt.maxArea {
				t.Errorf("area range = [%v, %v], want [%v, %v]", b.MinAreaFrac, b.MaxAreaFrac, tt.minArea, tt.maxArea)
			}
			if b.MinAspect != tt.minAspect || b.MaxAspect != tt.maxAspect {
				t.Errorf("aspect range = [%v, %v], want [%v, %v]", b.MinAspect, b.MaxAspect, tt.minAspect, tt.maxAspect)
			}
			if err := b.Validate(); err != nil {
				t.Errorf("default bounds invalid: %v", err)
			}
		})
	}
}

func TestBounds_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Bounds)
	}{
		{"negative min dim", func(b *Bounds) { b.MinDim = -1 }},
		{"inverted area range", func(b *Bounds) { b.MinAreaFrac, b.MaxAreaFrac = 0.5, 0.1 }},
		{"area above one", func(b *Bounds) { b.MaxAreaFrac = 1.5 }},
		{"zero min aspect", func(b *Bounds) { b.MinAspect = 0 }},
		{"inverted aspect range", func(b *Bounds) { b.MinAspect, b.MaxAspect = 2, 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := DefaultBounds(EdgeBased)
			tt.mutate(&b)
			if err := b.Validate(); err == nil {
				t.Error("Validate should fail")
			}
		})
	}
}
