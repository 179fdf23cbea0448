package geom

import "iter"

// Rect is an axis-aligned rectangle with inclusive corners (X, Y) and (XX, YY).
// Rooms, generation bounds and map bounds are all Rects.
type Rect struct {
	X, Y   int // Top-left corner
	XX, YY int // Bottom-right corner, inclusive
}

// NewRect creates a rectangle from its top-left corner and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, XX: x + w - 1, YY: y + h - 1}
}

// Width returns the number of columns covered by the rectangle.
func (r Rect) Width() int { return r.XX - r.X + 1 }

// Height returns the number of rows covered by the rectangle.
func (r Rect) Height() int { return r.YY - r.Y + 1 }

// Area returns Width*Height.
func (r Rect) Area() int { return r.Width() * r.Height() }

// Min returns the top-left corner.
func (r Rect) Min() Point { return Point{X: r.X, Y: r.Y} }

// Center returns the center cell, rounding toward the top-left.
func (r Rect) Center() Point {
	return Point{X: (r.X + r.XX) / 2, Y: (r.Y + r.YY) / 2}
}

// Contains returns true if p lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return r.X <= p.X && p.X <= r.XX && r.Y <= p.Y && p.Y <= r.YY
}

// Overlaps returns true if the rectangles share at least one cell.
func (r Rect) Overlaps(other Rect) bool {
	return r.X <= other.XX && r.XX >= other.X &&
		r.Y <= other.YY && r.YY >= other.Y
}

// Intersection returns the cells shared by both rectangles.
// ok is false when they do not overlap.
func (r Rect) Intersection(other Rect) (Rect, bool) {
	if !r.Overlaps(other) {
		return Rect{}, false
	}
	return Rect{
		X:  max(r.X, other.X),
		Y:  max(r.Y, other.Y),
		XX: min(r.XX, other.XX),
		YY: min(r.YY, other.YY),
	}, true
}

// Inset shrinks the rectangle by n cells on every side.
func (r Rect) Inset(n int) Rect {
	return Rect{X: r.X + n, Y: r.Y + n, XX: r.XX - n, YY: r.YY - n}
}

// Points iterates the rectangle's cells in row-major order.
func (r Rect) Points() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for y := r.Y; y <= r.YY; y++ {
			for x := r.X; x <= r.XX; x++ {
				if !yield(Point{X: x, Y: y}) {
					return
				}
			}
		}
	}
}
