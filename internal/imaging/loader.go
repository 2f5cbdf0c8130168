package imaging

import (
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/disintegration/imaging"
)

// Load decodes the image at path, applies its EXIF orientation and returns
// an origin-based *image.NRGBA copy.
//
// Parameters:
//   - path: Absolute or relative file path. Supported formats are those of
//     disintegration/imaging: JPEG, PNG, GIF, TIFF and BMP.
//
// Returns:
//   - image.Image: The decoded image, always an *image.NRGBA with bounds
//     starting at (0, 0).
//   - error: Non-nil if the file cannot be opened or decoded.
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return imaging.Clone(img), nil
}

// ImageInfo describes a loaded image file.
type ImageInfo struct {
	// Path is the file the image was loaded from.
	Path string `json:"path"`

	// Width and Height are the dimensions after orientation.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Format is the lower-case format name derived from the file
	// extension, or "unknown".
	Format string `json:"format"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// Describe returns metadata for an image already loaded from path.
func Describe(path string, img image.Image) (*ImageInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	if f, err := imaging.FormatFromFilename(path); err == nil {
		format = strings.ToLower(f.String())
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Path:          path,
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		FileSizeBytes: stat.Size(),
	}, nil
}
