package geometry

import (
	"fmt"
	"image"
	"math"
)

// Point represents a 2D pixel position.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String formats the point as "(x, y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Rect is an axis-aligned rectangle given by its origin and size.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Center returns the centre pixel of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Image converts the rectangle to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Intersect returns the overlap of r and o, or an empty Rect.
func (r Rect) Intersect(o Rect) Rect {
	ir := r.Image().Intersect(o.Image())
	if ir.Empty() {
		return Rect{}
	}
	return Rect{X: ir.Min.X, Y: ir.Min.Y, Width: ir.Dx(), Height: ir.Dy()}
}

// SquareAround returns a size x size square centred on p and shifted to lie
// within bounds. If bounds is smaller than size the square is cut to fit.
func SquareAround(p Point, size int, bounds Rect) Rect {
	half := size / 2
	sq := Rect{X: p.X - half, Y: p.Y - half, Width: size, Height: size}

	if sq.X < bounds.X {
		sq.X = bounds.X
	}
	if sq.Y < bounds.Y {
		sq.Y = bounds.Y
	}
	if sq.X+sq.Width > bounds.X+bounds.Width {
		sq.X = bounds.X + bounds.Width - sq.Width
	}
	if sq.Y+sq.Height > bounds.Y+bounds.Height {
		sq.Y = bounds.Y + bounds.Height - sq.Height
	}
	return sq.Intersect(bounds)
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round(v float64) int {
	return int(math.Round(v))
}
