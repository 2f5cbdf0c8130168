package pipeline

import (
	"sort"

	"github.com/ironsheep/photo-extract/internal/detection"
	"github.com/ironsheep/photo-extract/internal/geometry"
)

// DefaultIoUThreshold is the overlap above which two regions are treated
// as the same photo.
const DefaultIoUThreshold = 0.3

// ResolveOverlaps removes duplicate regions with greedy non-max
// suppression.
//
// Candidates are stable-sorted by confidence, highest first, so ties keep
// their input order. Walking that order, a candidate is kept only if its
// IoU with every region already kept is at most iouThreshold. The input
// slice is not modified.
func ResolveOverlaps(cands []detection.Candidate, iouThreshold float64) []detection.Candidate {
	ranked := make([]detection.Candidate, len(cands))
	copy(ranked, cands)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Confidence > ranked[j].Confidence
	})

	kept := make([]detection.Candidate, 0, len(ranked))
	for _, c := range ranked {
		if overlapsAny(c.Box, kept, iouThreshold) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

func overlapsAny(box geometry.Box, kept []detection.Candidate, threshold float64) bool {
	for _, k := range kept {
		if geometry.IoU(box, k.Box) > threshold {
			return true
		}
	}
	return false
}
