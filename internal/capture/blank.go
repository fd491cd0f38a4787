package capture

import (
	"image"

	"github.com/lucasb-eyer/go-colorful"
)

// blankSpreadThreshold is the maximum Lab-space distance from the mean color
// for a crop to count as blank. Empirically, printed text on paper produces
// spreads well above 0.1 while flat regions stay under 0.02.
const blankSpreadThreshold = 0.05

// IsBlank reports whether an extracted region is visually uniform - an empty
// margin or a solid background. Blank crops are rejected locally instead of
// being sent for transcription.
func IsBlank(img image.Image) bool {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w == 0 || h == 0 {
		return true
	}

	// Sample on a coarse grid; full-resolution scanning is unnecessary for
	// a uniformity check.
	stepX := w / 16
	if stepX < 1 {
		stepX = 1
	}
	stepY := h / 16
	if stepY < 1 {
		stepY = 1
	}

	var samples []colorful.Color
	var sumL, sumA, sumB float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stepY {
		for x := bounds.Min.X; x < bounds.Max.X; x += stepX {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				// Fully transparent pixel; treat as background.
				continue
			}
			l, a, b := c.Lab()
			sumL += l
			sumA += a
			sumB += b
			samples = append(samples, c)
		}
	}
	if len(samples) == 0 {
		return true
	}

	n := float64(len(samples))
	meanL, meanA, meanB := sumL/n, sumA/n, sumB/n

	for _, c := range samples {
		l, a, b := c.Lab()
		dl := l - meanL
		da := a - meanA
		db := b - meanB
		if dl*dl+da*da+db*db > blankSpreadThreshold*blankSpreadThreshold {
			return false
		}
	}
	return true
}
