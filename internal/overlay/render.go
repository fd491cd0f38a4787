package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/SawyerAlston/BureauBuddy/internal/geometry"
)

var (
	selectionBorder = color.RGBA{66, 133, 244, 255}
	labelForeground = color.RGBA{255, 255, 255, 255}
	labelBackground = color.RGBA{0, 0, 0, 180}
)

// RenderSelection draws the in-progress selection rectangle and a "WxH"
// dimension label onto a copy of the preview frame.
func RenderSelection(frame image.Image, rect geometry.Rect) *image.RGBA {
	bounds := frame.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, frame, bounds.Min, draw.Src)

	if rect.Empty() {
		return out
	}

	drawBorder(out, rect)
	drawDimensionLabel(out, rect)
	return out
}

// drawBorder traces a 2px rectangle outline clipped to the frame.
func drawBorder(img *image.RGBA, rect geometry.Rect) {
	x1, y1 := rect.X, rect.Y
	x2, y2 := rect.X+rect.Width-1, rect.Y+rect.Height-1

	for t := 0; t < 2; t++ {
		for x := x1; x <= x2; x++ {
			setClipped(img, x, y1+t, selectionBorder)
			setClipped(img, x, y2-t, selectionBorder)
		}
		for y := y1; y <= y2; y++ {
			setClipped(img, x1+t, y, selectionBorder)
			setClipped(img, x2-t, y, selectionBorder)
		}
	}
}

func setClipped(img *image.RGBA, x, y int, c color.RGBA) {
	if p := image.Pt(x, y); p.In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

// drawDimensionLabel renders "WxH" just inside the rectangle's top-left
// corner on a dark backing strip.
func drawDimensionLabel(img *image.RGBA, rect geometry.Rect) {
	label := fmt.Sprintf("%dx%d", rect.Width, rect.Height)

	face := basicfont.Face7x13
	labelW := len(label) * face.Advance
	labelH := face.Height

	x := rect.X + 3
	y := rect.Y + 3
	for dy := 0; dy < labelH+2; dy++ {
		for dx := 0; dx < labelW+4; dx++ {
			setClipped(img, x+dx, y+dy, labelBackground)
		}
	}

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelForeground),
		Face: face,
		Dot:  fixed.P(x+2, y+face.Ascent),
	}
	d.DrawString(label)
}
