package detection

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/ironsheep/photo-extract/internal/geometry"
)

func TestNewCandidate(t *testing.T) {
	box := geometry.Box{X: 10, Y: 20, Width: 400, Height: 300}

	c, err := NewCandidate(box, ContourApprox, 1.0)
	if err != nil {
		t.Fatalf("NewCandidate failed: %v", err)
	}
	if c.Box != box {
		t.Errorf("Box = %v, want %v", c.Box, box)
	}
	if c.Tag != ContourApprox {
		t.Errorf("Tag = %v, want %v", c.Tag, ContourApprox)
	}
	if c.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", c.Confidence)
	}
	if c.Kind != KindRegular {
		t.Errorf("Kind = %v, want %v", c.Kind, KindRegular)
	}
}

func TestNewCandidate_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		box        geometry.Box
		tag        Tag
		confidence float64
	}{
		{"unknown tag", geometry.Box{Width: 10, Height: 10}, Tag(42), 0.5},
		{"negative x", geometry.Box{X: -1, Width: 10, Height: 10}, EdgeBased, 0.5},
		{"negative y", geometry.Box{Y: -1, Width: 10, Height: 10}, EdgeBased, 0.5},
		{"zero width", geometry.Box{Width: 0, Height: 10}, EdgeBased, 0.5},
		{"zero height", geometry.Box{Width: 10, Height: 0}, EdgeBased, 0.5},
		{"NaN confidence", geometry.Box{Width: 10, Height: 10}, EdgeBased, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCandidate(tt.box, tt.tag, tt.confidence)
			if !errors.Is(err, ErrInvalidCandidate) {
				t.Errorf("NewCandidate error = %v, want ErrInvalidCandidate", err)
			}
		})
	}
}

func TestNewCandidate_KindByTag(t *testing.T) {
	// 2:1 box classifies as unknown by shape alone.
	box := geometry.Box{Width: 400, Height: 200}

	tests := []struct {
		tag  Tag
		want Kind
	}{
		{EdgeBased, KindUnknown},
		{PolaroidBorder, KindPolaroid},
		{AdaptiveThreshold, KindRegular},
		{ContourApprox, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			c, err := NewCandidate(box, tt.tag, 0.5)
			if err != nil {
				t.Fatalf("NewCandidate failed: %v", err)
			}
			if c.Kind != tt.want {
				t.Errorf("Kind = %v, want %v", c.Kind, tt.want)
			}
		})
	}
}

func TestClassifyKind(t *testing.T) {
	tests := []struct {
		name string
		box  geometry.Box
		want Kind
	}{
		{"small square", geometry.Box{Width: 300, Height: 330}, KindPolaroid},
		{"large square", geometry.Box{Width: 600, Height: 650}, KindUnknown},
		{"4:3 landscape", geometry.Box{Width: 400, Height: 300}, KindRegular},
		{"3:2 landscape is outside the open range", geometry.Box{Width: 300, Height: 200}, KindUnknown},
		{"portrait", geometry.Box{Width: 200, Height: 400}, KindUnknown},
		{"zero height", geometry.Box{Width: 200, Height: 0}, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyKind(tt.box); got != tt.want {
				t.Errorf("ClassifyKind(%v) = %v, want %v", tt.box, got, tt.want)
			}
		})
	}
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		input   string
		want    Tag
		wantErr bool
	}{
		{"edge_detected", EdgeBased, false},
		{"EdgeBased", EdgeBased, false},
		{"edge", EdgeBased, false},
		{"polaroid", PolaroidBorder, false},
		{"PolaroidBorder", PolaroidBorder, false},
		{"adaptive_threshold", AdaptiveThreshold, false},
		{" Adaptive ", AdaptiveThreshold, false},
		{"contour_approx", ContourApprox, false},
		{"CONTOURAPPROX", ContourApprox, false},
		{"grid", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTag(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTag(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseTag(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTag_String(t *testing.T) {
	want := []string{"edge_detected", "polaroid", "adaptive_threshold", "contour_approx"}
	for i, tag := range AllTags {
		if tag.String() != want[i] {
			t.Errorf("AllTags[%d].String() = %q, want %q", i, tag.String(), want[i])
		}
	}
	if Tag(9).Valid() {
		t.Error("Tag(9) should not be valid")
	}
}

func TestCandidate_JSON(t *testing.T) {
	c, err := NewCandidate(geometry.Box{X: 1, Y: 2, Width: 300, Height: 310}, PolaroidBorder, 0.9)
	if err != nil {
		t.Fatalf("NewCandidate failed: %v", err)
	}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if fields["tag"] != "polaroid" {
		t.Errorf("tag = %v, want polaroid", fields["tag"])
	}
	if fields["x"] != 1.0 || fields["width"] != 300.0 {
		t.Errorf("box fields not flattened: %s", data)
	}
	if _, ok := fields["vertex_count"]; ok {
		t.Errorf("vertex_count should be omitted when zero: %s", data)
	}
}
