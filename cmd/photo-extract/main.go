package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"

	"github.com/ironsheep/photo-extract/internal/config"
	"github.com/ironsheep/photo-extract/internal/detection"
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

// region is the public JSON shape of one extracted photo.
type region struct {
	X          int        `json:"x"`
	Y          int        `json:"y"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	Confidence confidence `json:"confidence"`
}

// confidence always encodes with a decimal point, so 1 is written as 1.0.
type confidence float64

func (c confidence) MarshalJSON() ([]byte, error) {
	f := float64(c)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("unsupported confidence %v", f)
	}
	b := strconv.AppendFloat(nil, f, 'f', -1, 64)
	if !bytes.ContainsRune(b, '.') {
		b = append(b, ".0"...)
	}
	return b, nil
}

func main() {
	if len(os.Args) == 2 && printInfo(os.Args[1], os.Stdout) {
		return
	}

	// Configure logging to stderr (stdout is for the JSON result)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	run(os.Args[1:], os.Stdout, opencv.New())
}

// printInfo handles --version and --help given as the only argument. Any
// other argument is an image path, even one named "help".
func printInfo(arg string, w io.Writer) bool {
	switch arg {
	case "--version":
		fmt.Fprintf(w, "photo-extract %s\n", Version)
		fmt.Fprintf(w, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
		return true
	case "--help":
		fmt.Fprintln(w, "photo-extract - find the individual photos in a collage image")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Usage: photo-extract <image>")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Prints a JSON array of {x, y, width, height, confidence} regions on")
		fmt.Fprintln(w, "stdout, in reading order. Any failure prints [] and exits 0.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		fmt.Fprintln(w, "  --version    Print version information")
		fmt.Fprintln(w, "  --help       Print this help message")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Environment variables:")
		fmt.Fprintln(w, "  PHOTO_EXTRACT_CONFIG=<file>        YAML configuration file")
		fmt.Fprintln(w, "  PHOTO_EXTRACT_STRATEGIES=<list>    Comma-separated strategies")
		fmt.Fprintln(w, "  PHOTO_EXTRACT_ORDERING=<name>      row-bucketed or strict")
		fmt.Fprintln(w, "  PHOTO_EXTRACT_LOG_LEVEL=debug      Enable debug logging")
		return true
	}
	return false
}

// run extracts the regions of the single image named in args and writes
// them to w. It never fails: every error degrades to an empty array.
func run(args []string, w io.Writer, kit vision.Kit) {
	var logger *log.Logger
	if os.Getenv(envLogLevel) == "debug" {
		logger = log.Default()
		logger.Printf("photo-extract v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	regions := []detection.Candidate{}
	if len(args) == 1 {
		regions = extract(args[0], kit, logger)
	} else {
		log.Printf("Usage: photo-extract <image>")
	}

	writeRegions(w, regions)
}

func extract(path string, kit vision.Kit, logger *log.Logger) []detection.Candidate {
	cfg, err := config.Resolve(config.Default(), os.Getenv(config.EnvConfigFile))
	if err != nil {
		log.Printf("Ignoring configuration: %v", err)
		cfg = config.Default()
	}

	extractor, err := pipeline.New(cfg, kit)
	if err != nil {
		log.Printf("Failed to create extractor: %v", err)
		return []detection.Candidate{}
	}
	extractor.Logger = logger

	return extractor.RunFile(path)
}

func writeRegions(w io.Writer, regions []detection.Candidate) {
	out := make([]region, 0, len(regions))
	for _, r := range regions {
		out = append(out, region{
			X:          r.X,
			Y:          r.Y,
			Width:      r.Width,
			Height:     r.Height,
			Confidence: confidence(r.Confidence),
		})
	}

	data, err := json.Marshal(out)
	if err != nil {
		log.Printf("Failed to encode regions: %v", err)
		data = []byte("[]")
	}
	fmt.Fprintln(w, string(data))
}
