// Package config collects every tunable threshold of the extraction
// pipeline into one structure.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// PHOTO_EXTRACT_* environment variables. Only keys present in a layer
// override the layer below.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/photo-extract/internal/detection"
	"github.com/ironsheep/photo-extract/internal/geometry"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Ordering names accepted in the ordering field.
const (
	OrderingRowBucketed = "row-bucketed"
	OrderingStrict      = "strict"
)

// Environment variables read by ApplyEnv.
const (
	EnvConfigFile   = "PHOTO_EXTRACT_CONFIG"
	EnvMinDim       = "PHOTO_EXTRACT_MIN_DIM"
	EnvIoUThreshold = "PHOTO_EXTRACT_IOU_THRESHOLD"
	EnvRowHeight    = "PHOTO_EXTRACT_ROW_HEIGHT"
	EnvOrdering     = "PHOTO_EXTRACT_ORDERING"
	EnvStrategies   = "PHOTO_EXTRACT_STRATEGIES"
	EnvParallel     = "PHOTO_EXTRACT_PARALLEL"
)

// StrategyBounds holds the acceptance limits of each strategy. MinDim is
// taken from Config.MinDim, not from these entries.
type StrategyBounds struct {
	Edge     detection.Bounds `yaml:"edge_detected"`
	Polaroid detection.Bounds `yaml:"polaroid"`
	Adaptive detection.Bounds `yaml:"adaptive_threshold"`
	Contour  detection.Bounds `yaml:"contour_approx"`
}

// Config is the complete pipeline configuration.
type Config struct {
	// MinDim is the minimum width and height of every candidate.
	MinDim geometry.Pixels `yaml:"min_dim"`

	// IoUThreshold is the overlap above which a lower-ranked candidate is
	// discarded as a duplicate.
	IoUThreshold float64 `yaml:"iou_threshold"`

	// RowHeight is the bucket height of the row-bucketed ordering.
	RowHeight geometry.Pixels `yaml:"row_height"`

	// Ordering is OrderingRowBucketed or OrderingStrict.
	Ordering string `yaml:"ordering"`

	// Strategies lists the active strategies in invocation order.
	Strategies []string `yaml:"strategies"`

	// Parallel runs the strategies concurrently.
	Parallel bool `yaml:"parallel"`

	// MarginBrightness is the mean gray level a polaroid margin must exceed.
	MarginBrightness float64 `yaml:"margin_brightness"`

	Bounds StrategyBounds `yaml:"bounds"`
}

// Default returns the configuration of the primary extractor: the contour
// strategy alone, row-bucketed output in 100 px rows.
func Default() Config {
	return Config{
		MinDim:           detection.DefaultMinDim,
		IoUThreshold:     0.3,
		RowHeight:        100,
		Ordering:         OrderingRowBucketed,
		Strategies:       []string{detection.ContourApprox.String()},
		MarginBrightness: detection.DefaultMarginBrightness,
		Bounds: StrategyBounds{
			Edge:     detection.DefaultBounds(detection.EdgeBased),
			Polaroid: detection.DefaultBounds(detection.PolaroidBorder),
			Adaptive: detection.DefaultBounds(detection.AdaptiveThreshold),
			Contour:  detection.DefaultBounds(detection.ContourApprox),
		},
	}
}

// Diagnostic returns the configuration of the diagnostic tool: the edge,
// polaroid and adaptive strategies with strict (y, x) ordering.
func Diagnostic() Config {
	c := Default()
	c.Strategies = []string{
		detection.EdgeBased.String(),
		detection.PolaroidBorder.String(),
		detection.AdaptiveThreshold.String(),
	}
	c.Ordering = OrderingStrict
	return c
}

// Resolve layers the YAML file at path (skipped when empty) and the
// environment over base and validates the result.
func Resolve(base Config, path string) (Config, error) {
	c := base
	c.Strategies = append([]string(nil), base.Strategies...)

	if path != "" {
		if err := c.LoadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := c.ApplyEnv(); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads a YAML file layered over Default and validates it.
func Load(path string) (Config, error) {
	c := Default()
	if err := c.LoadFile(path); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadFile merges the YAML file at path into c. Keys absent from the file
// keep their current values; unknown keys are an error.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from PHOTO_EXTRACT_* variables that are set.
func (c *Config) ApplyEnv() error {
	if v, ok := lookup(EnvMinDim); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvMinDim, err)
		}
		c.MinDim = geometry.Pixels(n)
	}
	if v, ok := lookup(EnvIoUThreshold); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvIoUThreshold, err)
		}
		c.IoUThreshold = f
	}
	if v, ok := lookup(EnvRowHeight); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvRowHeight, err)
		}
		c.RowHeight = geometry.Pixels(n)
	}
	if v, ok := lookup(EnvOrdering); ok {
		c.Ordering = v
	}
	if v, ok := lookup(EnvStrategies); ok {
		c.Strategies = splitList(v)
	}
	if v, ok := lookup(EnvParallel); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvParallel, err)
		}
		c.Parallel = b
	}
	return nil
}

// Validate checks every field and returns an error wrapping
// ErrInvalidConfig for the first problem found.
func (c Config) Validate() error {
	if c.MinDim < 0 {
		return fmt.Errorf("%w: min_dim must be non-negative, got %d", ErrInvalidConfig, c.MinDim)
	}
	if c.IoUThreshold < 0 || c.IoUThreshold > 1 {
		return fmt.Errorf("%w: iou_threshold must be within [0, 1], got %g", ErrInvalidConfig, c.IoUThreshold)
	}
	if c.RowHeight <= 0 {
		return fmt.Errorf("%w: row_height must be positive, got %d", ErrInvalidConfig, c.RowHeight)
	}
	if c.Ordering != OrderingRowBucketed && c.Ordering != OrderingStrict {
		return fmt.Errorf("%w: ordering must be %q or %q, got %q", ErrInvalidConfig, OrderingRowBucketed, OrderingStrict, c.Ordering)
	}
	if c.MarginBrightness < 0 || c.MarginBrightness > 255 {
		return fmt.Errorf("%w: margin_brightness must be within [0, 255], got %g", ErrInvalidConfig, c.MarginBrightness)
	}
	if _, err := c.Tags(); err != nil {
		return err
	}
	for _, tag := range detection.AllTags {
		if err := c.BoundsFor(tag).Validate(); err != nil {
			return fmt.Errorf("%w: bounds.%s: %v", ErrInvalidConfig, tag, err)
		}
	}
	return nil
}

// Tags parses Strategies. The list must be non-empty and free of
// duplicates.
func (c Config) Tags() ([]detection.Tag, error) {
	if len(c.Strategies) == 0 {
		return nil, fmt.Errorf("%w: at least one strategy is required", ErrInvalidConfig)
	}

	tags := make([]detection.Tag, 0, len(c.Strategies))
	seen := make(map[detection.Tag]bool, len(c.Strategies))
	for _, name := range c.Strategies {
		tag, err := detection.ParseTag(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		if seen[tag] {
			return nil, fmt.Errorf("%w: strategy %s listed twice", ErrInvalidConfig, tag)
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags, nil
}

// BoundsFor returns the acceptance limits of tag with MinDim applied.
func (c Config) BoundsFor(tag detection.Tag) detection.Bounds {
	var b detection.Bounds
	switch tag {
	case detection.EdgeBased:
		b = c.Bounds.Edge
	case detection.PolaroidBorder:
		b = c.Bounds.Polaroid
	case detection.AdaptiveThreshold:
		b = c.Bounds.Adaptive
	case detection.ContourApprox:
		b = c.Bounds.Contour
	default:
		b = detection.DefaultBounds(tag)
	}
	b.MinDim = c.MinDim
	return b
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
