// Package geom provides the integer grid primitives shared by the path,
// visibility and generation packages.
package geom

import "math"

// Point is a cell coordinate on the map.
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p shifted by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the offset from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	d := q.Sub(p)
	return math.Sqrt(float64(d.X*d.X + d.Y*d.Y))
}

// Manhattan returns the taxicab distance between p and q.
func (p Point) Manhattan(q Point) int {
	return abs(q.X-p.X) + abs(q.Y-p.Y)
}

// Chebyshev returns the king-move distance between p and q.
func (p Point) Chebyshev(q Point) int {
	return max(abs(q.X-p.X), abs(q.Y-p.Y))
}

// Cardinal holds the four orthogonal offsets: N, E, S, W.
var Cardinal = [4]Point{
	{0, -1}, {1, 0}, {0, 1}, {-1, 0},
}

// Neighbors8 holds the eight offsets around a cell, clockwise from north.
var Neighbors8 = [8]Point{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
