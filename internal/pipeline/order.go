package pipeline

import (
	"fmt"
	"sort"

	"github.com/ironsheep/photo-extract/internal/config"
	"github.com/ironsheep/photo-extract/internal/detection"
	"github.com/ironsheep/photo-extract/internal/geometry"
)

// Ordering decides the reading order of the final regions.
type Ordering interface {
	// Name is the configuration name of the ordering.
	Name() string

	// Less reports whether a is read before b.
	Less(a, b geometry.Box) bool
}

// RowBucketed groups regions into horizontal bands of RowHeight pixels by
// their top edge, then reads each band left to right. Regions whose tops
// differ by a few pixels still land in the same row.
type RowBucketed struct {
	RowHeight geometry.Pixels
}

// Name returns "row-bucketed".
func (o RowBucketed) Name() string { return config.OrderingRowBucketed }

// Less compares (y / RowHeight, x).
func (o RowBucketed) Less(a, b geometry.Box) bool {
	h := max(int(o.RowHeight), 1)
	ra, rb := a.Y/h, b.Y/h
	if ra != rb {
		return ra < rb
	}
	return a.X < b.X
}

// Strict orders by top edge, then left edge.
type Strict struct{}

// Name returns "strict".
func (Strict) Name() string { return config.OrderingStrict }

// Less compares (y, x).
func (Strict) Less(a, b geometry.Box) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

// ParseOrdering maps a configuration name to an Ordering.
func ParseOrdering(name string, rowHeight geometry.Pixels) (Ordering, error) {
	switch name {
	case config.OrderingRowBucketed:
		if rowHeight <= 0 {
			return nil, fmt.Errorf("row height must be positive, got %d", rowHeight)
		}
		return RowBucketed{RowHeight: rowHeight}, nil
	case config.OrderingStrict:
		return Strict{}, nil
	}
	return nil, fmt.Errorf("unknown ordering %q", name)
}

// SortRegions returns a copy of regions stably sorted by ordering.
func SortRegions(regions []detection.Candidate, ordering Ordering) []detection.Candidate {
	sorted := make([]detection.Candidate, len(regions))
	copy(sorted, regions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return ordering.Less(sorted[i].Box, sorted[j].Box)
	})
	return sorted
}
