package pipeline

import (
	"fmt"
	"image"
	"io"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/photo-extract/internal/config"
	"github.com/ironsheep/photo-extract/internal/detection"
	"github.com/ironsheep/photo-extract/internal/imaging"
	"github.com/ironsheep/photo-extract/internal/vision"
)

// Extractor runs a fixed set of strategies and reconciles their output.
type Extractor struct {
	// Strategies run in this order; the order is part of the tie-break.
	Strategies []detection.Strategy

	IoUThreshold float64
	Ordering     Ordering

	// Parallel runs the strategies on separate goroutines.
	Parallel bool

	// Logger receives debug output. Nil discards it.
	Logger *log.Logger
}

// New builds an Extractor from a validated configuration, creating each
// strategy on top of kit.
func New(cfg config.Config, kit vision.Kit) (*Extractor, error) {
	tags, err := cfg.Tags()
	if err != nil {
		return nil, err
	}
	ordering, err := ParseOrdering(cfg.Ordering, cfg.RowHeight)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	strategies := make([]detection.Strategy, 0, len(tags))
	for _, tag := range tags {
		s, err := detection.NewStrategy(tag, kit, cfg.BoundsFor(tag))
		if err != nil {
			return nil, fmt.Errorf("failed to create strategy %s: %w", tag, err)
		}
		if p, ok := s.(*detection.PolaroidDetector); ok {
			p.MarginBrightness = cfg.MarginBrightness
		}
		strategies = append(strategies, s)
	}

	return &Extractor{
		Strategies:   strategies,
		IoUThreshold: cfg.IoUThreshold,
		Ordering:     ordering,
		Parallel:     cfg.Parallel,
	}, nil
}

// Detection is the raw output of one strategy.
type Detection struct {
	Tag        detection.Tag
	Candidates []detection.Candidate
}

// Detect runs every strategy on img and returns their outputs in strategy
// order. If any strategy fails the error is returned and no output is.
func (e *Extractor) Detect(img image.Image) ([]Detection, error) {
	results := make([]Detection, len(e.Strategies))

	run := func(i int, s detection.Strategy) error {
		cands, err := s.Detect(img)
		if err != nil {
			return fmt.Errorf("strategy %s failed: %w", s.Tag(), err)
		}
		results[i] = Detection{Tag: s.Tag(), Candidates: cands}
		return nil
	}

	if e.Parallel {
		var g errgroup.Group
		for i, s := range e.Strategies {
			g.Go(func() error { return run(i, s) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, s := range e.Strategies {
			if err := run(i, s); err != nil {
				return nil, err
			}
		}
	}

	for _, r := range results {
		e.logger().Printf("%s: %d candidates", r.Tag, len(r.Candidates))
	}
	return results, nil
}

// Run detects, deduplicates and orders the regions of img.
func (e *Extractor) Run(img image.Image) ([]detection.Candidate, error) {
	detections, err := e.Detect(img)
	if err != nil {
		return nil, err
	}
	return e.Reconcile(detections), nil
}

// Reconcile concatenates per-strategy output in order, resolves overlaps
// and sorts the survivors.
func (e *Extractor) Reconcile(detections []Detection) []detection.Candidate {
	all := make([]detection.Candidate, 0)
	for _, d := range detections {
		all = append(all, d.Candidates...)
	}

	kept := ResolveOverlaps(all, e.IoUThreshold)
	e.logger().Printf("%d candidates, %d after overlap resolution", len(all), len(kept))

	ordering := e.Ordering
	if ordering == nil {
		ordering = Strict{}
	}
	return SortRegions(kept, ordering)
}

// RunFile loads the image at path and runs it. Any failure yields an empty,
// non-nil slice; the cause is logged.
func (e *Extractor) RunFile(path string) []detection.Candidate {
	img, err := imaging.Load(path)
	if err != nil {
		e.logger().Printf("failed to load %s: %v", path, err)
		return []detection.Candidate{}
	}

	regions, err := e.Run(img)
	if err != nil {
		e.logger().Printf("extraction failed for %s: %v", path, err)
		return []detection.Candidate{}
	}
	return regions
}

var discard = log.New(io.Discard, "", 0)

func (e *Extractor) logger() *log.Logger {
	if e.Logger == nil {
		return discard
	}
	return e.Logger
}
