package fov

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zyedidia/generic/mapset"

	"github.com/samdwyer/delver/internal/geom"
)

type testMap struct {
	walls geom.Grid[bool]
}

func newTestMap(w, h int) *testMap {
	return &testMap{walls: geom.NewGrid(w, h, false)}
}

// randomMap has a solid border and scattered pillars.
func randomMap(rng *rand.Rand, w, h int, density float64) *testMap {
	m := newTestMap(w, h)
	for p := range m.walls.Bounds().Points() {
		border := p.X == 0 || p.Y == 0 || p.X == w-1 || p.Y == h-1
		m.walls.Set(p, border || rng.Float64() < density)
	}
	return m
}

func (m *testMap) Size() geom.Point            { return m.walls.Size() }
func (m *testMap) IsOpaque(p geom.Point) bool  { return m.walls.At(p) }
func (m *testMap) wall(x, y int)               { m.walls.Set(geom.Pt(x, y), true) }
func (m *testMap) floor(p geom.Point) bool     { return !m.walls.At(p) }
func (m *testMap) set(p geom.Point, wall bool) { m.walls.Set(p, wall) }

// visibleFrom collects the reported cells and how often each was reported.
func visibleFrom(m Map, origin geom.Point, radius int) (mapset.Set[geom.Point], map[geom.Point]int) {
	seen := mapset.New[geom.Point]()
	counts := map[geom.Point]int{}
	Compute(origin, radius, m, func(p geom.Point) {
		seen.Put(p)
		counts[p]++
	})
	return seen, counts
}

func TestOpenGridEveryCellOnce(t *testing.T) {
	m := newTestMap(5, 5)

	seen, counts := visibleFrom(m, geom.Pt(2, 2), 10)

	assert.Equal(t, 25, seen.Size())
	for p, n := range counts {
		assert.Equal(t, 1, n, "cell %v reported %d times", p, n)
	}
}

func TestRadiusZeroOnlyOrigin(t *testing.T) {
	m := newTestMap(5, 5)

	seen, _ := visibleFrom(m, geom.Pt(1, 3), 0)

	assert.Equal(t, 1, seen.Size())
	assert.True(t, seen.Has(geom.Pt(1, 3)))
}

func TestWallCastsShadow(t *testing.T) {
	m := newTestMap(9, 9)
	m.wall(4, 2)
	origin := geom.Pt(4, 4)

	seen, _ := visibleFrom(m, origin, 8)

	assert.True(t, seen.Has(geom.Pt(4, 2)), "the wall itself is lit")
	assert.True(t, seen.Has(geom.Pt(4, 3)))
	assert.False(t, seen.Has(geom.Pt(4, 1)), "cell straight behind the wall")
	assert.False(t, seen.Has(geom.Pt(4, 0)), "cell straight behind the wall")
	assert.True(t, seen.Has(geom.Pt(2, 1)), "cells off to the side stay visible")
}

func TestClosedRoomStopsAtWalls(t *testing.T) {
	m := newTestMap(11, 11)
	for p := range geom.NewRect(2, 2, 7, 7).Points() {
		if p.X == 2 || p.Y == 2 || p.X == 8 || p.Y == 8 {
			m.set(p, true)
		}
	}

	seen, _ := visibleFrom(m, geom.Pt(5, 5), 20)

	for p := range m.walls.Bounds().Points() {
		inside := geom.NewRect(2, 2, 7, 7).Contains(p)
		assert.Equal(t, inside, seen.Has(p), "cell %v", p)
	}
}

func TestVisibilityBoundedByRadius(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	m := randomMap(rng, 40, 40, 0.1)

	for trial := 0; trial < 20; trial++ {
		origin := geom.Pt(1+rng.Intn(38), 1+rng.Intn(38))
		radius := 1 + rng.Intn(12)
		Compute(origin, radius, m, func(p geom.Point) {
			d := p.Sub(origin)
			require.LessOrEqual(t, d.X*d.X+d.Y*d.Y, radius*radius,
				"%v is farther than %d from %v", p, radius, origin)
		})
	}
}

func TestNoCellReportedTwice(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	m := randomMap(rng, 30, 30, 0.2)

	for trial := 0; trial < 30; trial++ {
		origin := geom.Pt(1+rng.Intn(28), 1+rng.Intn(28))
		_, counts := visibleFrom(m, origin, 10)
		for p, n := range counts {
			require.Equal(t, 1, n, "cell %v reported %d times from %v", p, n, origin)
		}
	}
}

func TestFloorVisibilityIsSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const size, radius = 18, 9

	for _, density := range []float64{0.1, 0.25} {
		m := randomMap(rng, size, size, density)

		views := map[geom.Point]mapset.Set[geom.Point]{}
		for p := range m.walls.Bounds().Points() {
			if m.floor(p) {
				views[p], _ = visibleFrom(m, p, radius)
			}
		}

		for a, fromA := range views {
			for b, fromB := range views {
				if a == b {
					continue
				}
				assert.Equal(t, fromA.Has(b), fromB.Has(a),
					"density %.2f: %v sees %v = %v, reverse = %v", density, a, b, fromA.Has(b), fromB.Has(a))
			}
		}
	}
}

func TestOriginNearEdge(t *testing.T) {
	m := newTestMap(4, 3)

	seen, counts := visibleFrom(m, geom.Pt(0, 0), 10)

	assert.Equal(t, 12, seen.Size())
	for p := range counts {
		assert.True(t, m.walls.InBounds(p), "reported off-map cell %v", p)
	}
}

func TestFractionRounding(t *testing.T) {
	tests := []struct {
		f        fraction
		up, down int
	}{
		{fraction{1, 2}, 1, 0},
		{fraction{-1, 2}, 0, -1},
		{fraction{3, 2}, 2, 1},
		{fraction{-3, 2}, -1, -2},
		{fraction{2, 3}, 1, 1},
		{fraction{-2, 3}, -1, -1},
		{fraction{5, 1}, 5, 5},
	}

	for _, tt := range tests {
		if got := tt.f.roundTiesUp(); got != tt.up {
			t.Errorf("%d/%d roundTiesUp = %d, want %d", tt.f.num, tt.f.den, got, tt.up)
		}
		if got := tt.f.roundTiesDown(); got != tt.down {
			t.Errorf("%d/%d roundTiesDown = %d, want %d", tt.f.num, tt.f.den, got, tt.down)
		}
	}
}

func TestIsqrt(t *testing.T) {
	for n := 0; n < 500; n++ {
		r := isqrt(n)
		if r*r > n || (r+1)*(r+1) <= n {
			t.Fatalf("isqrt(%d) = %d", n, r)
		}
	}
}
