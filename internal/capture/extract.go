package capture

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/SawyerAlston/BureauBuddy/internal/geometry"
)

// ErrEmptyCapture means the requested region collapsed to zero area.
var ErrEmptyCapture = errors.New("capture region is empty")

// Still contains an extracted region encoded as a PNG.
type Still struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// ExtractRegion crops the current frame to rect (already mapped to source
// pixels) and returns it as an encoded still image.
func (s *Session) ExtractRegion(rect geometry.Rect) (*Still, error) {
	src := s.Source()
	if src == nil {
		return nil, fmt.Errorf("no live capture source")
	}

	frame, err := src.Frame()
	if err != nil {
		return nil, fmt.Errorf("failed to read capture frame: %w", err)
	}
	return ExtractRegion(frame, rect)
}

// ExtractRegion crops a frame to rect and encodes the result.
func ExtractRegion(frame image.Image, rect geometry.Rect) (*Still, error) {
	if rect.Empty() {
		return nil, ErrEmptyCapture
	}

	bounds := frame.Bounds()
	crop := image.Rect(rect.X, rect.Y, rect.X+rect.Width, rect.Y+rect.Height).Intersect(bounds)
	if crop.Empty() {
		return nil, ErrEmptyCapture
	}

	cropped := imaging.Crop(frame, crop)

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("failed to encode extracted region: %w", err)
	}

	return &Still{
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// Decode converts the still back into an image.
func (st *Still) Decode() (image.Image, error) {
	raw, err := base64.StdEncoding.DecodeString(st.ImageBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode still payload: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode still image: %w", err)
	}
	return img, nil
}
