package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

const (
	// DefaultLanguage is the Tesseract language used when none is given.
	DefaultLanguage = "eng"

	// MinBandHeight is the height caption bands are upscaled to before
	// recognition. Tesseract does poorly on glyphs under ~20px tall.
	MinBandHeight = 96

	// bandContrast is the contrast boost, in percent, applied to bands.
	bandContrast = 30
)

// Caption is the text recognized in one margin band.
type Caption struct {
	Text string `json:"text"`

	// Confidence is Tesseract's mean word confidence, 0.0 to 1.0. Zero when
	// no words were found.
	Confidence float64 `json:"confidence"`
}

// Reader recognizes captions in a fixed language.
type Reader struct {
	Language string

	// TessdataPrefix overrides the directory holding the traineddata
	// files. Empty uses the Tesseract default.
	TessdataPrefix string
}

// NewReader returns a Reader for language, or DefaultLanguage if empty.
func NewReader(language string) *Reader {
	if language == "" {
		language = DefaultLanguage
	}
	return &Reader{Language: language}
}

// ReadCaption recognizes the text inside band of img.
//
// Parameters:
//   - img: The full source image.
//   - band: The caption area in img coordinates, usually
//     detection.MarginBand of a polaroid region.
//
// Returns:
//   - Caption: The cleaned text and mean word confidence. Text is empty when
//     nothing legible was found; that is not an error.
//   - error: Non-nil if the band lies outside img or Tesseract fails.
func (r *Reader) ReadCaption(img image.Image, band image.Rectangle) (Caption, error) {
	prepared, err := PrepareBand(img, band)
	if err != nil {
		return Caption{}, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, prepared); err != nil {
		return Caption{}, fmt.Errorf("failed to encode caption band: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if r.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(r.TessdataPrefix); err != nil {
			return Caption{}, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(r.Language); err != nil {
		return Caption{}, fmt.Errorf("failed to set language: %w", err)
	}
	// A caption is a single line of text.
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return Caption{}, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return Caption{}, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return Caption{}, fmt.Errorf("OCR failed: %w", err)
	}

	caption := Caption{Text: CleanText(text)}

	// Word boxes only feed the confidence; the text stands without them.
	if boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD); err == nil {
		caption.Confidence = meanConfidence(boxes)
	}
	return caption, nil
}

// PrepareBand crops band from img and readies it for recognition:
// grayscale, upscaled to at least MinBandHeight, contrast-stretched.
func PrepareBand(img image.Image, band image.Rectangle) (*image.NRGBA, error) {
	if band.Empty() {
		return nil, fmt.Errorf("caption band %v is empty", band)
	}
	if !band.In(img.Bounds()) {
		return nil, fmt.Errorf("caption band %v outside image bounds %v", band, img.Bounds())
	}

	out := imaging.Grayscale(imaging.Crop(img, band))
	if band.Dy() < MinBandHeight {
		out = imaging.Resize(out, 0, MinBandHeight, imaging.Lanczos)
	}
	return imaging.AdjustContrast(out, bandContrast), nil
}

// CleanText collapses whitespace runs and trims the result.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Version returns the linked Tesseract version.
func Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}

func meanConfidence(boxes []gosseract.BoundingBox) float64 {
	var sum float64
	var n int
	for _, b := range boxes {
		if strings.TrimSpace(b.Word) == "" {
			continue
		}
		sum += b.Confidence
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n) / 100.0
}
