package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/photo-extract/internal/detection"
)

// JPEGQuality is used for every JPEG written by this package.
const JPEGQuality = 95

// CropName returns the file name of the index-th crop (1-based):
// photo_01_polaroid.jpg.
func CropName(index int, tag detection.Tag) string {
	return fmt.Sprintf("photo_%02d_%s.jpg", index, tag)
}

// CropRegion extracts r from img. The region must lie inside the image
// bounds and be non-empty.
func CropRegion(img image.Image, r image.Rectangle) (*image.NRGBA, error) {
	bounds := img.Bounds()

	if !r.In(bounds) {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if r.Empty() {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	return imaging.Crop(img, r), nil
}

// SaveCrops writes one JPEG per region into dir, numbered in slice order,
// and returns the written paths. dir is created if needed.
func SaveCrops(img image.Image, regions []detection.Candidate, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, 0, len(regions))
	for i, r := range regions {
		cropped, err := CropRegion(img, r.Rect())
		if err != nil {
			return paths, fmt.Errorf("failed to crop region %d: %w", i+1, err)
		}

		path := filepath.Join(dir, CropName(i+1, r.Tag))
		if err := SaveJPEG(cropped, path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// SaveJPEG encodes img as a JPEG at path.
func SaveJPEG(img image.Image, path string) error {
	if err := imaging.Save(img, path, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
