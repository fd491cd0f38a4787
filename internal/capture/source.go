package capture

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"
)

// FrameSource is a live or static supplier of capture frames.
//
// Frame returns the current frame. Dimensions blocks until the source knows
// its intrinsic resolution; for static sources that is immediate, for live
// streams it may require the first frame to arrive. Close releases the
// underlying stream and must be safe to call more than once.
type FrameSource interface {
	Frame() (image.Image, error)
	Dimensions(ctx context.Context) (width, height int, err error)
	Close() error
}

// Provider acquires a capture source, typically by prompting the user for
// screen-capture consent. Acquisition has no timeout of its own; it resolves
// only when the user grants or denies, or the context is cancelled.
type Provider interface {
	Acquire(ctx context.Context) (FrameSource, error)
}

// ImageSource is a FrameSource backed by a single in-memory image.
type ImageSource struct {
	img    image.Image
	closed bool
	mu     sync.Mutex
}

// NewImageSource wraps a decoded image as a capture source.
func NewImageSource(img image.Image) *ImageSource {
	return &ImageSource{img: img}
}

// Frame returns the wrapped image.
func (s *ImageSource) Frame() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, fmt.Errorf("source is closed")
	}
	return s.img, nil
}

// Dimensions reports the image size immediately.
func (s *ImageSource) Dimensions(ctx context.Context) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, 0, fmt.Errorf("source is closed")
	}
	b := s.img.Bounds()
	return b.Dx(), b.Dy(), nil
}

// Close marks the source released. Safe to call repeatedly.
func (s *ImageSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// OpenFileSource decodes a PNG, JPEG, or GIF file into a static frame source.
func OpenFileSource(path string) (*ImageSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return NewImageSource(img), nil
}
