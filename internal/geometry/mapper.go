package geometry

import (
	"context"
	"fmt"
)

// DimensionReporter reports the intrinsic pixel dimensions of a capture
// source. Dimensions blocks until the source's metadata is available or the
// context is cancelled; live sources may not know their resolution until the
// first frame arrives.
type DimensionReporter interface {
	Dimensions(ctx context.Context) (width, height int, err error)
}

// Mapper converts viewport-space rectangles into source-pixel rectangles.
//
// A capture source is displayed scaled to fit a viewport, so a rectangle the
// user drags on screen must be scaled by sourceWidth/viewportWidth on the X
// axis and sourceHeight/viewportHeight on the Y axis before pixels can be
// extracted. The two axes scale independently.
type Mapper struct {
	SourceWidth    int
	SourceHeight   int
	ViewportWidth  int
	ViewportHeight int
}

// NewMapper waits for the source to report its intrinsic dimensions and
// returns a mapper from the given viewport size onto them.
func NewMapper(ctx context.Context, src DimensionReporter, viewportWidth, viewportHeight int) (*Mapper, error) {
	if viewportWidth <= 0 || viewportHeight <= 0 {
		return nil, fmt.Errorf("invalid viewport size %dx%d", viewportWidth, viewportHeight)
	}
	w, h, err := src.Dimensions(ctx)
	if err != nil {
		return nil, fmt.Errorf("waiting for source dimensions: %w", err)
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("source reported invalid dimensions %dx%d", w, h)
	}
	return &Mapper{
		SourceWidth:    w,
		SourceHeight:   h,
		ViewportWidth:  viewportWidth,
		ViewportHeight: viewportHeight,
	}, nil
}

// Map scales a viewport rectangle into source pixels.
//
// Negative origins are clamped to zero, the extracted size is at least 1x1
// to avoid degenerate crops, and the far edge is clamped inside the source.
func (m *Mapper) Map(r Rect) Rect {
	scaleX := float64(m.SourceWidth) / float64(m.ViewportWidth)
	scaleY := float64(m.SourceHeight) / float64(m.ViewportHeight)

	x := int(float64(r.X) * scaleX)
	y := int(float64(r.Y) * scaleY)
	w := int(float64(r.Width) * scaleX)
	h := int(float64(r.Height) * scaleY)

	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if x+w > m.SourceWidth {
		w = m.SourceWidth - x
	}
	if y+h > m.SourceHeight {
		h = m.SourceHeight - y
	}
	// A rectangle dragged entirely past the source edge still extracts the
	// nearest 1px strip rather than a zero-area region.
	if w < 1 {
		x = m.SourceWidth - 1
		w = 1
	}
	if h < 1 {
		y = m.SourceHeight - 1
		h = 1
	}

	return Rect{X: x, Y: y, Width: w, Height: h}
}
