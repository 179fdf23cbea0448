// Package fov computes fields of view with symmetric recursive shadowcasting.
//
// Slopes are exact integer fractions, so results never depend on floating
// point rounding and a floor tile A sees floor tile B exactly when B sees A.
package fov

import "github.com/samdwyer/delver/internal/geom"

// Map is the opacity collaborator. Cells outside [0, Size) are treated as
// opaque and never reported.
type Map interface {
	Size() geom.Point
	IsOpaque(p geom.Point) bool
}

// Compute reports every cell visible from origin within radius to
// markVisible, each exactly once. The origin is always reported.
// Opaque cells are reported when lit, so walls bounding a room are visible.
func Compute(origin geom.Point, radius int, m Map, markVisible func(geom.Point)) {
	markVisible(origin)
	if radius <= 0 {
		return
	}

	for _, q := range quadrants {
		s := scanner{
			quadrant: q,
			origin:   origin,
			size:     m.Size(),
			m:        m,
			radius:   radius,
			mark:     markVisible,
		}
		s.scan(row{depth: 1, start: fraction{-1, 1}, end: fraction{1, 1}})
	}
}

// quadrant maps local (col, depth) to a world offset. A diagonal cell lies on
// the edge of two quadrants; skipStart/skipEnd leave it to the neighbour.
type quadrant struct {
	transform          func(col, depth int) geom.Point
	skipStart, skipEnd bool
}

var quadrants = [4]quadrant{
	{transform: func(c, d int) geom.Point { return geom.Pt(c, -d) }},                                  // north
	{transform: func(c, d int) geom.Point { return geom.Pt(d, c) }, skipStart: true},                  // east
	{transform: func(c, d int) geom.Point { return geom.Pt(c, d) }, skipEnd: true},                    // south
	{transform: func(c, d int) geom.Point { return geom.Pt(-d, c) }, skipStart: true, skipEnd: true}, // west
}

type scanner struct {
	quadrant quadrant
	origin   geom.Point
	size     geom.Point
	m        Map
	radius   int
	mark     func(geom.Point)
}

func (s *scanner) world(col, depth int) geom.Point {
	return s.origin.Add(s.quadrant.transform(col, depth))
}

func (s *scanner) inBounds(p geom.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < s.size.X && p.Y < s.size.Y
}

func (s *scanner) isOpaque(col, depth int) bool {
	p := s.world(col, depth)
	return !s.inBounds(p) || s.m.IsOpaque(p)
}

func (s *scanner) reveal(col, depth int) {
	if col == -depth && s.quadrant.skipStart || col == depth && s.quadrant.skipEnd {
		return
	}
	if p := s.world(col, depth); s.inBounds(p) {
		s.mark(p)
	}
}

func (s *scanner) scan(r row) {
	first, last, ok := r.cols(s.radius)
	if !ok {
		return
	}

	prevOpaque := false
	for col := first; col <= last; col++ {
		opaque := s.isOpaque(col, r.depth)
		if opaque || r.isSymmetric(col) {
			s.reveal(col, r.depth)
		}

		if col > first {
			if prevOpaque && !opaque {
				r.start = slope(col, r.depth)
			}
			if !prevOpaque && opaque {
				next := r.next()
				next.end = slope(col, r.depth)
				s.scan(next)
			}
		}
		prevOpaque = opaque
	}

	if !prevOpaque {
		s.scan(r.next())
	}
}

// row is one depth of a quadrant scan bounded by two slopes.
type row struct {
	depth      int
	start, end fraction
}

func (r row) next() row {
	return row{depth: r.depth + 1, start: r.start, end: r.end}
}

// cols returns the inclusive column range of the row inside both the slopes
// and the circle of the given radius.
func (r row) cols(radius int) (first, last int, ok bool) {
	if r.depth >= radius {
		return 0, 0, false
	}
	d := isqrt(radius*radius - r.depth*r.depth)
	first = max(r.start.mul(r.depth).roundTiesUp(), -d)
	last = min(r.end.mul(r.depth).roundTiesDown(), d)
	return first, last, first <= last
}

// isSymmetric reports whether col lies inside the row's slopes, which is what
// makes floor-to-floor visibility symmetric.
func (r row) isSymmetric(col int) bool {
	c := fraction{col, 1}
	return c.cmp(r.start.mul(r.depth)) >= 0 && c.cmp(r.end.mul(r.depth)) <= 0
}

// slope of the edge between col-1 and col at depth.
func slope(col, depth int) fraction {
	return fraction{2*col - 1, 2 * depth}
}

// fraction is num/den with den > 0.
type fraction struct {
	num, den int
}

func (f fraction) mul(k int) fraction {
	return fraction{f.num * k, f.den}
}

func (f fraction) cmp(o fraction) int {
	a, b := f.num*o.den, o.num*f.den
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// roundTiesUp is floor(f + 1/2).
func (f fraction) roundTiesUp() int {
	return floorDiv(2*f.num+f.den, 2*f.den)
}

// roundTiesDown is ceil(f - 1/2).
func (f fraction) roundTiesDown() int {
	return -floorDiv(-(2*f.num - f.den), 2*f.den)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// isqrt returns floor(sqrt(n)) for n >= 0.
func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}
