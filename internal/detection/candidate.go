package detection

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ironsheep/photo-extract/internal/geometry"
)

// ErrInvalidCandidate is returned by NewCandidate for malformed regions.
var ErrInvalidCandidate = errors.New("invalid candidate")

// Tag identifies the strategy that proposed a candidate.
type Tag int

const (
	EdgeBased Tag = iota
	PolaroidBorder
	AdaptiveThreshold
	ContourApprox
)

// AllTags lists every strategy in canonical invocation order.
var AllTags = []Tag{EdgeBased, PolaroidBorder, AdaptiveThreshold, ContourApprox}

var tagNames = map[Tag]string{
	EdgeBased:         "edge_detected",
	PolaroidBorder:    "polaroid",
	AdaptiveThreshold: "adaptive_threshold",
	ContourApprox:     "contour_approx",
}

// String returns the tag name used in crop file names and reports.
func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tag(%d)", int(t))
}

// Valid reports whether t is one of the known strategies.
func (t Tag) Valid() bool {
	_, ok := tagNames[t]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (t Tag) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown tag %d", ErrInvalidCandidate, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tag) UnmarshalText(text []byte) error {
	parsed, err := ParseTag(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTag maps a strategy name to its Tag. Both the report names
// ("edge_detected") and the strategy names ("EdgeBased", "edge") are
// accepted, case-insensitively.
func ParseTag(s string) (Tag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "edge_detected", "edgebased", "edge":
		return EdgeBased, nil
	case "polaroid", "polaroidborder":
		return PolaroidBorder, nil
	case "adaptive_threshold", "adaptivethreshold", "adaptive":
		return AdaptiveThreshold, nil
	case "contour_approx", "contourapprox", "contour":
		return ContourApprox, nil
	}
	return 0, fmt.Errorf("unknown strategy %q", s)
}

// Kind is a coarse photo form factor derived from the region shape.
type Kind string

const (
	KindPolaroid Kind = "polaroid"
	KindRegular  Kind = "regular"
	KindUnknown  Kind = "unknown"
)

// ClassifyKind guesses the form factor of a region: near-square regions
// narrower than 500 px look like polaroids, 4:3 to 3:2 landscapes look like
// regular prints.
func ClassifyKind(box geometry.Box) Kind {
	ar := box.AspectRatio()
	switch {
	case ar > 0.7 && ar < 1.1 && box.Width < 500:
		return KindPolaroid
	case ar > 1.3 && ar < 1.5:
		return KindRegular
	default:
		return KindUnknown
	}
}

// Candidate is a region proposed by one strategy.
//
// Candidates are plain values; copying one never shares state with the
// strategy that produced it.
type Candidate struct {
	geometry.Box

	// Tag records which strategy proposed the region. It is used for
	// provenance and diagnostics, never for filtering.
	Tag Tag `json:"tag"`

	// Confidence ranks candidates within and across strategies. It is not a
	// calibrated probability.
	Confidence float64 `json:"confidence"`

	// VertexCount is the number of polygon vertices after contour
	// approximation. Zero when the strategy does not approximate.
	VertexCount int `json:"vertex_count,omitempty"`

	// Angle is the rotation in degrees of the minimum-area rectangle around
	// the contour. Zero for component-based candidates.
	Angle float64 `json:"angle"`

	// Kind is the guessed photo form factor.
	Kind Kind `json:"kind"`
}

// NewCandidate validates and builds a candidate. It rejects unknown tags,
// negative origins, non-positive sizes and NaN confidences.
func NewCandidate(box geometry.Box, tag Tag, confidence float64) (Candidate, error) {
	if !tag.Valid() {
		return Candidate{}, fmt.Errorf("%w: unknown tag %d", ErrInvalidCandidate, int(tag))
	}
	if box.X < 0 || box.Y < 0 {
		return Candidate{}, fmt.Errorf("%w: negative origin %v", ErrInvalidCandidate, box)
	}
	if box.Width <= 0 || box.Height <= 0 {
		return Candidate{}, fmt.Errorf("%w: empty box %v", ErrInvalidCandidate, box)
	}
	if math.IsNaN(confidence) {
		return Candidate{}, fmt.Errorf("%w: confidence is NaN", ErrInvalidCandidate)
	}

	kind := ClassifyKind(box)
	switch tag {
	case PolaroidBorder:
		kind = KindPolaroid
	case AdaptiveThreshold:
		kind = KindRegular
	}

	return Candidate{
		Box:        box,
		Tag:        tag,
		Confidence: confidence,
		Kind:       kind,
	}, nil
}
