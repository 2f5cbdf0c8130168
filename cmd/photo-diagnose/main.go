package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/photo-extract/internal/config"
	"github.com/ironsheep/photo-extract/internal/detection"
	"github.com/ironsheep/photo-extract/internal/imaging"
	"github.com/ironsheep/photo-extract/internal/ocr"
	"github.com/ironsheep/photo-extract/internal/pipeline"
	"github.com/ironsheep/photo-extract/internal/vision"
	"github.com/ironsheep/photo-extract/internal/vision/opencv"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const envLogLevel = "PHOTO_EXTRACT_LOG_LEVEL"

// errUsage marks command-line errors already reported by the flag set.
var errUsage = errors.New("usage error")

type options struct {
	image      string
	outDir     string
	configPath string
	ordering   string
	parallel   bool
	captions   bool
	language   string
}

func main() {
	// A lone --version is reserved; any other argument is an image path
	if len(os.Args) == 2 && os.Args[1] == "--version" {
		fmt.Printf("photo-diagnose %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, opencv.New()))
}

// run executes one diagnostic pass and returns the process exit code:
// 0 on success, 1 when the image is missing or processing fails, 2 on a
// command-line error.
func run(args []string, stdout, stderr io.Writer, kit vision.Kit) int {
	opts, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}

	if _, err := os.Stat(opts.image); err != nil {
		fmt.Fprintf(stderr, "Error: %s not found\n", opts.image)
		return 1
	}

	var logger *log.Logger
	if os.Getenv(envLogLevel) == "debug" {
		logger = log.Default()
	}

	if _, err := diagnose(opts, kit, stdout, logger); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("photo-diagnose", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.outDir, "o", "detected_photos", "Output directory for crops, overlays and report")
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&opts.ordering, "ordering", "", "Region ordering: strict or row-bucketed (default from config)")
	fs.BoolVar(&opts.parallel, "parallel", false, "Run the strategies concurrently")
	fs.BoolVar(&opts.captions, "captions", false, "Read captions from polaroid margins with Tesseract")
	fs.StringVar(&opts.language, "lang", ocr.DefaultLanguage, "Tesseract language for -captions")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "photo-diagnose - run every collage strategy and save annotated results")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Usage: photo-diagnose [options] <image>")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Environment variables:")
		fmt.Fprintln(stderr, "  PHOTO_EXTRACT_LOG_LEVEL=debug    Enable debug logging")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return opts, errUsage
	}
	opts.image = fs.Arg(0)
	return opts, nil
}

func loadConfig(opts options) (config.Config, error) {
	cfg, err := config.Resolve(config.Diagnostic(), opts.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if opts.ordering != "" {
		cfg.Ordering = opts.ordering
	}
	if opts.parallel {
		cfg.Parallel = true
	}
	return cfg, cfg.Validate()
}

// diagnose runs the configured strategies on opts.image, prints a summary
// to w and writes the overlay, the edge panel, one crop per region and the
// JSON report into opts.outDir.
func diagnose(opts options, kit vision.Kit, w io.Writer, logger *log.Logger) (*Report, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(w, "Processing %s...\n", opts.image)
	img, err := imaging.Load(opts.image)
	if err != nil {
		return nil, err
	}
	info, err := imaging.Describe(opts.image, img)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "Image size: %dx%d\n", info.Width, info.Height)

	extractor, err := pipeline.New(cfg, kit)
	if err != nil {
		return nil, err
	}
	extractor.Logger = logger

	detections, err := extractor.Detect(img)
	if err != nil {
		return nil, err
	}
	for i, d := range detections {
		fmt.Fprintf(w, "%d. %s: found %d candidates\n", i+1, d.Tag, len(d.Candidates))
	}

	regions := extractor.Reconcile(detections)
	counts, total := strategyCounts(detections)
	fmt.Fprintf(w, "\nTotal detections (before filtering): %d\n", total)
	fmt.Fprintf(w, "After filtering overlaps: %d photos\n", len(regions))

	if err := os.MkdirAll(opts.outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	stem := strings.TrimSuffix(filepath.Base(opts.image), filepath.Ext(opts.image))

	annotated := imaging.Annotate(img, regions)
	annotatedPath := filepath.Join(opts.outDir, stem+"_detections.jpg")
	if err := imaging.SaveJPEG(annotated, annotatedPath); err != nil {
		return nil, err
	}

	panelPath := filepath.Join(opts.outDir, stem+"_edge_analysis.jpg")
	if err := imaging.SaveJPEG(imaging.Panel(img, annotated, len(regions)), panelPath); err != nil {
		return nil, err
	}

	crops, err := imaging.SaveCrops(img, regions, opts.outDir)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Image:        info,
		Ordering:     cfg.Ordering,
		IoUThreshold: cfg.IoUThreshold,
		Strategies:   counts,
		Candidates:   total,
		Regions:      make([]RegionReport, 0, len(regions)),
		Confidence:   summarize(regions),
		Annotated:    annotatedPath,
		EdgeAnalysis: panelPath,
	}

	var reader *ocr.Reader
	if opts.captions {
		reader = ocr.NewReader(opts.language)
	}

	fmt.Fprintln(w, "\nDetected photos (sorted by position):")
	for i, r := range regions {
		fmt.Fprintf(w, "  %d. Type: %-20s Pos: (%4d,%4d) Size: %3dx%3d Conf: %.2f\n",
			i+1, r.Tag, r.X, r.Y, r.Width, r.Height, r.Confidence)

		entry := RegionReport{Index: i + 1, File: crops[i], Candidate: r}
		if reader != nil && r.Kind == detection.KindPolaroid {
			readCaption(reader, img, &entry, w)
		}
		report.Regions = append(report.Regions, entry)
	}

	reportPath := filepath.Join(opts.outDir, ReportName)
	if err := writeReport(reportPath, report); err != nil {
		return nil, err
	}

	fmt.Fprintf(w, "\nResult saved to %s\n", annotatedPath)
	fmt.Fprintf(w, "Edge analysis saved to %s\n", panelPath)
	fmt.Fprintf(w, "Individual crops saved to %s/\n", opts.outDir)
	fmt.Fprintf(w, "Report saved to %s\n", reportPath)
	return report, nil
}

// readCaption fills the caption of a polaroid entry. OCR failures are
// recorded in the entry and do not stop the run.
func readCaption(reader *ocr.Reader, img image.Image, entry *RegionReport, w io.Writer) {
	band := detection.MarginBand(entry.Box)
	if band.Empty() {
		return
	}

	caption, err := reader.ReadCaption(img, band)
	if err != nil {
		log.Printf("Caption of photo %d: %v", entry.Index, err)
		entry.CaptionError = err.Error()
		return
	}

	entry.Caption = &caption
	if caption.Text != "" {
		fmt.Fprintf(w, "     Caption: %q\n", caption.Text)
	}
}
