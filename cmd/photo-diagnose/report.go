package main

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/photo-extract/internal/detection"
	"github.com/ironsheep/photo-extract/internal/imaging"
	"github.com/ironsheep/photo-extract/internal/ocr"
	"github.com/ironsheep/photo-extract/internal/pipeline"
)

// ReportName is the file name of the JSON report in the output directory.
const ReportName = "report.json"

// Report is the machine-readable summary of one diagnostic run.
type Report struct {
	Image        *imaging.ImageInfo `json:"image"`
	Ordering     string             `json:"ordering"`
	IoUThreshold float64            `json:"iou_threshold"`

	// Strategies lists the raw candidate count of each strategy, in
	// invocation order.
	Strategies []StrategyCount `json:"strategies"`

	// Candidates is the total before overlap resolution.
	Candidates int `json:"candidates"`

	Regions    []RegionReport    `json:"regions"`
	Confidence ConfidenceSummary `json:"confidence"`

	Annotated    string `json:"annotated"`
	EdgeAnalysis string `json:"edge_analysis"`
}

// StrategyCount is the number of candidates one strategy proposed.
type StrategyCount struct {
	Tag   detection.Tag `json:"tag"`
	Count int           `json:"count"`
}

// RegionReport is one final region with its crop file and, when caption
// reading was requested, the text found in its margin.
type RegionReport struct {
	Index int    `json:"index"`
	File  string `json:"file"`
	detection.Candidate

	Caption      *ocr.Caption `json:"caption,omitempty"`
	CaptionError string       `json:"caption_error,omitempty"`
}

// ConfidenceSummary describes the confidence distribution of the final
// regions. All fields are zero when there are none.
type ConfidenceSummary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

func strategyCounts(detections []pipeline.Detection) ([]StrategyCount, int) {
	counts := make([]StrategyCount, 0, len(detections))
	total := 0
	for _, d := range detections {
		counts = append(counts, StrategyCount{Tag: d.Tag, Count: len(d.Candidates)})
		total += len(d.Candidates)
	}
	return counts, total
}

func summarize(regions []detection.Candidate) ConfidenceSummary {
	if len(regions) == 0 {
		return ConfidenceSummary{}
	}

	xs := make([]float64, len(regions))
	for i, r := range regions {
		xs[i] = r.Confidence
	}

	mean, std := stat.MeanStdDev(xs, nil)
	if len(xs) < 2 {
		std = 0
	}
	return ConfidenceSummary{
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(xs),
		Max:    floats.Max(xs),
	}
}

func writeReport(path string, report *Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
