package capture

import (
	"image"
	"image/color"
	"testing"
)

func TestIsBlank_SolidColors(t *testing.T) {
	tests := []struct {
		name string
		c    color.RGBA
	}{
		{"white", color.RGBA{255, 255, 255, 255}},
		{"black", color.RGBA{0, 0, 0, 255}},
		{"paper gray", color.RGBA{240, 240, 235, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !IsBlank(solidImage(64, 64, tt.c)) {
				t.Errorf("solid %s region should be blank", tt.name)
			}
		})
	}
}

func TestIsBlank_TextLikeContent(t *testing.T) {
	// White background with black strokes, the shape of printed text.
	img := solidImage(64, 64, color.RGBA{255, 255, 255, 255})
	for y := 10; y < 54; y += 8 {
		for x := 4; x < 60; x++ {
			img.SetRGBA(x, y, color.RGBA{0, 0, 0, 255})
			img.SetRGBA(x, y+1, color.RGBA{0, 0, 0, 255})
		}
	}

	if IsBlank(img) {
		t.Error("high-contrast content should not be blank")
	}
}

func TestIsBlank_ZeroSize(t *testing.T) {
	if !IsBlank(image.NewRGBA(image.Rect(0, 0, 0, 0))) {
		t.Error("zero-size image should be blank")
	}
}

func TestIsBlank_TinyImage(t *testing.T) {
	// Smaller than the sampling grid; must not panic.
	img := solidImage(3, 3, color.RGBA{200, 200, 200, 255})
	if !IsBlank(img) {
		t.Error("tiny uniform image should be blank")
	}
}
