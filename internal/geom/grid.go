package geom

import "fmt"

// Grid is a dense row-major width×height array.
// Accessing a cell outside the grid panics.
type Grid[T any] struct {
	data          []T
	width, height int
}

// NewGrid creates a grid with every cell set to value.
func NewGrid[T any](width, height int, value T) Grid[T] {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("geom: negative grid size %dx%d", width, height))
	}
	data := make([]T, width*height)
	for i := range data {
		data[i] = value
	}
	return Grid[T]{data: data, width: width, height: height}
}

// Width returns the number of columns.
func (g *Grid[T]) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid[T]) Height() int { return g.height }

// Size returns the grid dimensions as a point.
func (g *Grid[T]) Size() Point { return Point{X: g.width, Y: g.height} }

// Bounds returns the rectangle covering every cell.
func (g *Grid[T]) Bounds() Rect { return NewRect(0, 0, g.width, g.height) }

// InBounds returns true if p addresses a cell of the grid.
func (g *Grid[T]) InBounds(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.width && p.Y < g.height
}

// At returns the value stored at p.
func (g *Grid[T]) At(p Point) T {
	return g.data[g.index(p)]
}

// Set stores v at p.
func (g *Grid[T]) Set(p Point, v T) {
	g.data[g.index(p)] = v
}

// Ptr returns a pointer to the cell at p for in-place updates.
func (g *Grid[T]) Ptr(p Point) *T {
	return &g.data[g.index(p)]
}

// Fill sets every cell to v without reallocating.
func (g *Grid[T]) Fill(v T) {
	for i := range g.data {
		g.data[i] = v
	}
}

// Resize changes the dimensions, reusing the backing array when it is large enough.
// Existing contents are not preserved in any meaningful layout.
func (g *Grid[T]) Resize(width, height int, v T) {
	n := width * height
	if cap(g.data) >= n {
		g.data = g.data[:n]
	} else {
		g.data = make([]T, n)
	}
	g.width, g.height = width, height
	g.Fill(v)
}

// Values exposes the backing slice in row-major order.
func (g *Grid[T]) Values() []T { return g.data }

// PointOf converts a row-major index back to a coordinate.
func (g *Grid[T]) PointOf(i int) Point {
	return Point{X: i % g.width, Y: i / g.width}
}

func (g *Grid[T]) index(p Point) int {
	if !g.InBounds(p) {
		panic(fmt.Sprintf("geom: point %v outside %dx%d grid", p, g.width, g.height))
	}
	return p.Y*g.width + p.X
}
