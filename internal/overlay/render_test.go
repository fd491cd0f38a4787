package overlay

import (
	"testing"

	"github.com/SawyerAlston/BureauBuddy/internal/geometry"
)

func TestRenderSelection_DrawsBorder(t *testing.T) {
	frame := testFrame(100, 100)
	rect := geometry.Rect{X: 20, Y: 30, Width: 40, Height: 20}

	out := RenderSelection(frame, rect)

	// Border pixels take the selection color.
	if out.RGBAAt(20, 40) != selectionBorder {
		t.Errorf("left edge: got %v, want %v", out.RGBAAt(20, 40), selectionBorder)
	}
	if out.RGBAAt(59, 40) != selectionBorder {
		t.Errorf("right edge: got %v, want %v", out.RGBAAt(59, 40), selectionBorder)
	}

	// Pixels well outside the rectangle are untouched.
	r, g, b, _ := out.At(90, 90).RGBA()
	if uint8(r>>8) != 255 || uint8(g>>8) != 255 || uint8(b>>8) != 255 {
		t.Error("pixel outside the selection was modified")
	}
}

func TestRenderSelection_EmptyRect(t *testing.T) {
	frame := testFrame(50, 50)
	out := RenderSelection(frame, geometry.Rect{})

	for _, p := range [][2]int{{0, 0}, {25, 25}, {49, 49}} {
		r, g, b, _ := out.At(p[0], p[1]).RGBA()
		if uint8(r>>8) != 255 || uint8(g>>8) != 255 || uint8(b>>8) != 255 {
			t.Fatalf("empty rect should leave the frame untouched at (%d,%d)", p[0], p[1])
		}
	}
}

func TestRenderSelection_RectAtFrameEdge(t *testing.T) {
	frame := testFrame(50, 50)
	// Rectangle partially outside the frame; must not panic.
	out := RenderSelection(frame, geometry.Rect{X: 40, Y: 40, Width: 30, Height: 30})
	if out == nil {
		t.Fatal("RenderSelection returned nil")
	}
}
