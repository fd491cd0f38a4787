package ocr

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// DefaultLanguage is the Tesseract language code used when none is given.
const DefaultLanguage = "eng"

// Crops below this many pixels on either axis are upscaled before OCR.
// Tesseract accuracy drops sharply on text rendered under ~20px tall.
const minRecognitionSize = 300

// contrastBoost is applied after grayscale conversion to sharpen the
// separation between ink and paper on washed-out captures.
const contrastBoost = 0.25

// Transcribe performs OCR on an in-memory image and returns the recognized
// text with surrounding whitespace trimmed. An empty string with a nil error
// means the region contained no recognizable text.
func Transcribe(img image.Image) (string, error) {
	return TranscribeLanguage(img, DefaultLanguage)
}

// TranscribeLanguage is Transcribe with an explicit Tesseract language code
// (e.g. "eng", "spa", "chi_sim"). The corresponding language data must be
// installed on the system.
func TranscribeLanguage(img image.Image, language string) (string, error) {
	if img == nil {
		return "", fmt.Errorf("transcribe: nil image")
	}
	if language == "" {
		language = DefaultLanguage
	}

	prepared := Preprocess(img)

	// Tesseract wants a file path, so stage the prepared crop in a temp PNG.
	tmpFile, err := os.CreateTemp("", "ocr-region-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmpFile, prepared); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("failed to encode temp image: %w", err)
	}
	tmpFile.Close()

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImage(tmpPath); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Preprocess prepares a captured region for recognition: small crops are
// upscaled with Lanczos resampling, then the image is converted to grayscale
// and contrast-boosted. The source image is never modified.
func Preprocess(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > 0 && h > 0 && (w < minRecognitionSize || h < minRecognitionSize) {
		scale := scaleFactor(w, h)
		img = imaging.Resize(img, w*scale, h*scale, imaging.Lanczos)
	}

	gray := effect.Grayscale(img)
	return adjust.Contrast(gray, contrastBoost)
}

// scaleFactor picks the integer multiplier that brings the smaller axis up
// to at least minRecognitionSize, capped at 4x to bound memory use.
func scaleFactor(w, h int) int {
	smaller := w
	if h < smaller {
		smaller = h
	}
	scale := (minRecognitionSize + smaller - 1) / smaller
	if scale < 1 {
		scale = 1
	}
	if scale > 4 {
		scale = 4
	}
	return scale
}
