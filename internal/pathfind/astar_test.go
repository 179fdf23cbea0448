package pathfind

import (
	"container/heap"
	"math"
	"math/rand"
	"testing"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/delver/internal/geom"
)

// testGrid is a small weighted grid. cost 0 marks a wall.
type testGrid struct {
	w, h     int
	cost     []int
	diagonal bool
}

func newTestGrid(w, h int) *testGrid {
	g := &testGrid{w: w, h: h, cost: make([]int, w*h)}
	for i := range g.cost {
		g.cost[i] = 1
	}
	return g
}

func randomGrid(rng *rand.Rand, w, h int, diagonal bool) *testGrid {
	g := newTestGrid(w, h)
	g.diagonal = diagonal
	for i := range g.cost {
		if rng.Float64() < 0.25 {
			g.cost[i] = 0
		} else {
			g.cost[i] = 1 + rng.Intn(5)
		}
	}
	return g
}

func (g *testGrid) in(p geom.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.w && p.Y < g.h
}

func (g *testGrid) at(p geom.Point) int { return g.cost[p.Y*g.w+p.X] }

func (g *testGrid) Distance(a, b geom.Point) float64 {
	if g.diagonal {
		return Euclidean(a, b)
	}
	return Manhattan(a, b)
}

// Successors charges the cost of the entered cell, scaled by √2 on diagonals.
func (g *testGrid) Successors(p geom.Point, buf []Step) []Step {
	offsets := geom.Cardinal[:]
	if g.diagonal {
		offsets = geom.Neighbors8[:]
	}
	for _, d := range offsets {
		n := p.Add(d)
		if !g.in(n) || g.at(n) == 0 {
			continue
		}
		c := float64(g.at(n))
		if d.X != 0 && d.Y != 0 {
			c *= math.Sqrt2
		}
		buf = append(buf, Step{Pos: n, Cost: c})
	}
	return buf
}

// dijkstraCosts is a brute-force reference: relax every edge until nothing changes.
func dijkstraCosts(g *testGrid, from geom.Point) map[geom.Point]float64 {
	dist := map[geom.Point]float64{from: 0}
	var buf []Step
	for changed := true; changed; {
		changed = false
		for y := 0; y < g.h; y++ {
			for x := 0; x < g.w; x++ {
				p := geom.Pt(x, y)
				d, ok := dist[p]
				if !ok {
					continue
				}
				buf = g.Successors(p, buf[:0])
				for _, s := range buf {
					if old, seen := dist[s.Pos]; !seen || d+s.Cost < old-1e-9 {
						dist[s.Pos] = d + s.Cost
						changed = true
					}
				}
			}
		}
	}
	return dist
}

// gruidGrid adapts testGrid to gruid's Dijkstra interface.
type gruidGrid struct {
	g   *testGrid
	nbs paths.Neighbors
}

func (gg *gruidGrid) Neighbors(p gruid.Point) []gruid.Point {
	return gg.nbs.Cardinal(p, func(q gruid.Point) bool {
		n := geom.Pt(q.X, q.Y)
		return gg.g.in(n) && gg.g.at(n) != 0
	})
}

func (gg *gruidGrid) Cost(_, to gruid.Point) int {
	return gg.g.at(geom.Pt(to.X, to.Y))
}

func TestComputeCorridor(t *testing.T) {
	g := newTestGrid(3, 1)
	var a AStar

	a.Compute(g, geom.Pt(0, 0), geom.Pt(2, 0))

	want := []Step{
		{Pos: geom.Pt(2, 0), Cost: 2},
		{Pos: geom.Pt(1, 0), Cost: 1},
		{Pos: geom.Pt(0, 0), Cost: 0},
	}
	assert.Equal(t, want, a.Result())
	assert.Equal(t, 2.0, a.Cost())

	next, ok := a.NextStep()
	require.True(t, ok)
	assert.Equal(t, geom.Pt(1, 0), next)
}

func TestComputeSamePoint(t *testing.T) {
	g := newTestGrid(4, 4)
	var a AStar

	a.Compute(g, geom.Pt(2, 2), geom.Pt(2, 2))

	assert.Equal(t, []Step{{Pos: geom.Pt(2, 2), Cost: 0}}, a.Result())
	_, ok := a.NextStep()
	assert.False(t, ok)
}

func TestComputeUnreachable(t *testing.T) {
	g := newTestGrid(5, 3)
	for y := 0; y < 3; y++ {
		g.cost[y*5+2] = 0
	}
	a := NewAStar()

	a.Compute(g, geom.Pt(0, 1), geom.Pt(4, 1))

	assert.Empty(t, a.Result())
	assert.False(t, a.Found())
	assert.Equal(t, 0.0, a.Cost())
}

func TestComputeClearsScratch(t *testing.T) {
	open := newTestGrid(5, 3)
	walled := newTestGrid(5, 3)
	for y := 0; y < 3; y++ {
		walled.cost[y*5+2] = 0
	}
	a := NewAStar()

	a.Compute(open, geom.Pt(0, 1), geom.Pt(4, 1))
	require.True(t, a.Found())

	a.Compute(walled, geom.Pt(0, 1), geom.Pt(4, 1))
	assert.False(t, a.Found(), "stale state from the previous query leaked into the result")
}

func TestComputeDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := randomGrid(rng, 20, 20, true)
	g.cost[0], g.cost[len(g.cost)-1] = 1, 1
	from, to := geom.Pt(0, 0), geom.Pt(19, 19)

	a := NewAStar()
	a.Compute(g, from, to)
	first := append([]Step(nil), a.Result()...)

	for i := 0; i < 3; i++ {
		a.Compute(g, from, to)
		assert.Equal(t, first, a.Result())
	}

	var fresh AStar
	fresh.Compute(g, from, to)
	assert.Equal(t, first, fresh.Result())
}

func TestComputeOptimalAgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var a AStar

	for trial := 0; trial < 40; trial++ {
		g := randomGrid(rng, 12, 9, trial%2 == 0)
		from := geom.Pt(rng.Intn(g.w), rng.Intn(g.h))
		to := geom.Pt(rng.Intn(g.w), rng.Intn(g.h))
		g.cost[from.Y*g.w+from.X] = 1
		g.cost[to.Y*g.w+to.X] = 1

		ref := dijkstraCosts(g, from)
		a.Compute(g, from, to)

		want, reachable := ref[to]
		if !reachable {
			assert.Empty(t, a.Result(), "trial %d: expected no path", trial)
			continue
		}
		require.True(t, a.Found(), "trial %d: expected a path", trial)
		assert.InDelta(t, want, a.Cost(), 1e-9, "trial %d", trial)
		checkPathConsistent(t, g, a.Result(), from, to)
	}
}

func TestComputeOptimalAgainstGruid(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	var a AStar

	for trial := 0; trial < 30; trial++ {
		g := randomGrid(rng, 16, 12, false)
		from := geom.Pt(rng.Intn(g.w), rng.Intn(g.h))
		to := geom.Pt(rng.Intn(g.w), rng.Intn(g.h))
		g.cost[from.Y*g.w+from.X] = 1
		g.cost[to.Y*g.w+to.X] = 1

		pr := paths.NewPathRange(gruid.NewRange(0, 0, g.w, g.h))
		nodes := pr.DijkstraMap(&gruidGrid{g: g}, []gruid.Point{{X: from.X, Y: from.Y}}, 1<<20)
		want := -1
		for _, n := range nodes {
			if n.P.X == to.X && n.P.Y == to.Y {
				want = n.Cost
			}
		}

		a.Compute(g, from, to)
		if want < 0 {
			assert.False(t, a.Found(), "trial %d: gruid found no path", trial)
			continue
		}
		require.True(t, a.Found(), "trial %d", trial)
		assert.InDelta(t, float64(want), a.Cost(), 1e-9, "trial %d", trial)
	}
}

func checkPathConsistent(t *testing.T, g *testGrid, path []Step, from, to geom.Point) {
	t.Helper()
	require.NotEmpty(t, path)
	assert.Equal(t, to, path[0].Pos)
	assert.Equal(t, from, path[len(path)-1].Pos)
	assert.Equal(t, 0.0, path[len(path)-1].Cost)

	var buf []Step
	for i := len(path) - 1; i > 0; i-- {
		buf = g.Successors(path[i].Pos, buf[:0])
		var edge float64 = -1
		for _, s := range buf {
			if s.Pos == path[i-1].Pos {
				edge = s.Cost
			}
		}
		require.GreaterOrEqual(t, edge, 0.0, "%v -> %v is not an edge", path[i].Pos, path[i-1].Pos)
		assert.InDelta(t, path[i].Cost+edge, path[i-1].Cost, 1e-9)
	}
}

func TestComputeFuncCustomCosts(t *testing.T) {
	// Carving costs: reusing the floor row is cheaper than digging straight through.
	const w, h = 7, 3
	floor := func(p geom.Point) bool { return p.Y == 2 }
	succ := func(p geom.Point, buf []Step) []Step {
		for _, d := range geom.Cardinal {
			n := p.Add(d)
			if n.X < 0 || n.Y < 0 || n.X >= w || n.Y >= h {
				continue
			}
			cost := 5.0
			if floor(n) {
				cost = 1
			}
			buf = append(buf, Step{Pos: n, Cost: cost})
		}
		return buf
	}

	var a AStar
	a.ComputeFunc(geom.Pt(0, 2), geom.Pt(6, 0), Manhattan, succ)

	require.True(t, a.Found())
	// 6 floor steps along the bottom then 2 carved steps up beats any diagonal-ish dig.
	assert.Equal(t, 16.0, a.Cost())
}

func TestComputeInvalidCostPanics(t *testing.T) {
	tests := []struct {
		name string
		cost float64
	}{
		{"nan", math.NaN()},
		{"negative", -1},
		{"infinite", math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			succ := func(p geom.Point, buf []Step) []Step {
				return append(buf, Step{Pos: p.Add(geom.Pt(1, 0)), Cost: tt.cost})
			}
			var a AStar
			assert.Panics(t, func() {
				a.ComputeFunc(geom.Pt(0, 0), geom.Pt(3, 0), Manhattan, succ)
			})
		})
	}
}

func TestStepHeapTiesInInsertionOrder(t *testing.T) {
	var a AStar
	a.reset()
	a.push(geom.Pt(3, 0), 1)
	a.push(geom.Pt(1, 0), 1)
	a.push(geom.Pt(2, 0), 0.5)
	a.push(geom.Pt(0, 0), 1)

	var order []geom.Point
	for a.open.Len() > 0 {
		order = append(order, popEntry(&a).pos)
	}
	assert.Equal(t, []geom.Point{geom.Pt(2, 0), geom.Pt(3, 0), geom.Pt(1, 0), geom.Pt(0, 0)}, order)
}

func popEntry(a *AStar) entry {
	return heap.Pop(&a.open).(entry)
}
