// Package ocr reads the handwritten or printed captions found in the wide
// bottom margin of polaroid prints.
//
// It wraps the Tesseract OCR engine (via gosseract/v2). Recognition is
// optional: the diagnostic CLI only calls it when asked to, and a missing
// Tesseract installation surfaces as an error from ReadCaption rather than
// a failure of region extraction.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// # Preprocessing
//
// Caption bands are thin strips, often only a few dozen pixels tall. Before
// recognition each band is converted to grayscale, upscaled so its height is
// at least MinBandHeight, and contrast-stretched. PrepareBand exposes this
// step on its own so it can be inspected without Tesseract.
//
// # Concurrency
//
// A Reader holds no Tesseract state between calls; each ReadCaption creates
// and closes its own client, so a Reader may be shared across goroutines.
package ocr
