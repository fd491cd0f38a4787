package geometry

// Rect is an axis-aligned rectangle in pixel coordinates. (0,0) is the
// top-left corner, X increases rightward, Y increases downward.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// MinSelectionDim is the smallest usable selection edge, in viewport pixels.
// Selections below this on either axis are rejected as accidental drags.
const MinSelectionDim = 12

// Bounding returns the normalized bounding box of two corner points,
// regardless of drag direction.
func Bounding(x1, y1, x2, y2 int) Rect {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Area returns the rectangle's area in pixels.
func (r Rect) Area() int {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// ValidSelection reports whether both edges meet the minimum selection size.
func (r Rect) ValidSelection() bool {
	return r.Width >= MinSelectionDim && r.Height >= MinSelectionDim
}
