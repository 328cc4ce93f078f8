package signature

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

const (
	DefaultPadWidth  = 400
	DefaultPadHeight = 150

	penRadius = 1
)

// Point is one sampled pen position on the pad.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Stroke is one continuous pen movement.
type Stroke []Point

/// Pad is the freehand drawing surface: white background, black ink. It only
// records strokes; rasterization happens on confirmation.
type Pad struct {
	width   int
	height  int
	strokes []Stroke
}

func NewPad(width, height int) *Pad {
	if width <= 0 {
		width = DefaultPadWidth
	}
	if height <= 0 {
		height = DefaultPadHeight
	}
	return &Pad{width: width, height: height}
}

// Draw records a stroke. Points outside the surface are clamped to its
// edges, the way a physical pad pins the pen at its border.
func (p *Pad) Draw(stroke Stroke) {
	if len(stroke) == 0 {
		return
	}

	clamped := make(Stroke, len(stroke))
	for i, pt := range stroke {
		clamped[i] = Point{
			X: clamp(pt.X, 0, p.width-1),
			Y: clamp(pt.Y, 0, p.height-1),
		}
	}
	p.strokes = append(p.strokes, clamped)
}

// Clear erases the surface without closing it.
func (p *Pad) Clear() {
	p.strokes = nil
}

// IsEmpty reports whether the surface has zero ink.
func (p *Pad) IsEmpty() bool {
	return len(p.strokes) == 0
}

// Render rasterizes the surface to a PNG trimmed to the ink's bounding box.
func (p *Pad) Render() ([]byte, error) {
	if p.IsEmpty() {
		return nil, fmt.Errorf("cannot render an empty surface")
	}

	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			img.Set(x, y, color.White)
		}
	}

	for _, stroke := range p.strokes {
		p.drawStroke(img, stroke)
	}

	trimmed := trimToInk(img)

	var buf bytes.Buffer
	if err := png.Encode(&buf, trimmed); err != nil {
		return nil, fmt.Errorf("failed to encode signature image: %w", err)
	}
	return buf.Bytes(), nil
}

func (p *Pad) drawStroke(img *image.RGBA, stroke Stroke) {
	if len(stroke) == 1 {
		drawDot(img, stroke[0])
		return
	}
	for i := 1; i < len(stroke); i++ {
		drawLine(img, stroke[i-1], stroke[i])
	}
}

func drawDot(img *image.RGBA, pt Point) {
	bounds := img.Bounds()
	for dy := -penRadius; dy <= penRadius; dy++ {
		for dx := -penRadius; dx <= penRadius; dx++ {
			x, y := pt.X+dx, pt.Y+dy
			if image.Pt(x, y).In(bounds) {
				img.Set(x, y, color.Black)
			}
		}
	}
}

// drawLine plots a thick segment between two points (Bresenham).
func drawLine(img *image.RGBA, from, to Point) {
	dx := abs(to.X - from.X)
	dy := -abs(to.Y - from.Y)
	sx, sy := 1, 1
	if from.X > to.X {
		sx = -1
	}
	if from.Y > to.Y {
		sy = -1
	}

	x, y := from.X, from.Y
	err := dx + dy
	for {
		drawDot(img, Point{X: x, Y: y})
		if x == to.X && y == to.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// trimToInk crops the image to the bounding box of its non-white pixels.
func trimToInk(img *image.RGBA) image.Image {
	bounds := img.Bounds()
	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X, bounds.Min.Y

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r != 0xffff || g != 0xffff || b != 0xffff {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}

	return img.SubImage(image.Rect(minX, minY, maxX+1, maxY+1))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
