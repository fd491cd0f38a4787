// Package ocr transcribes extracted document regions locally using Tesseract.
//
// It is the offline fallback for selection transcription when the remote
// analysis service is unreachable. Images are preprocessed before recognition
// (upscaling, grayscale, contrast boost), which noticeably helps with the
// small low-contrast crops a region selection tends to produce.
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
package ocr
