package pathfind

import (
	"math/rand"
	"testing"

	"codeberg.org/anaseto/gruid"
	"codeberg.org/anaseto/gruid/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/delver/internal/geom"
)

// labelGrid wires a testGrid and a label grid into BFS closures.
func labelGrid(g *testGrid) (labels geom.Grid[int], set func(geom.Point, int), get func(geom.Point) int, adj func(geom.Point, []geom.Point) []geom.Point) {
	labels = geom.NewGrid(g.w, g.h, -1)
	set = func(p geom.Point, d int) { labels.Set(p, d) }
	get = func(p geom.Point) int { return labels.At(p) }
	adj = func(p geom.Point, buf []geom.Point) []geom.Point {
		for _, d := range geom.Cardinal {
			n := p.Add(d)
			if g.in(n) && g.at(n) != 0 {
				buf = append(buf, n)
			}
		}
		return buf
	}
	return labels, set, get, adj
}

func TestSearchLayersMatchGruid(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	var bfs BFS[geom.Point]

	for trial := 0; trial < 20; trial++ {
		g := randomGrid(rng, 15, 11, false)
		sources := []geom.Point{geom.Pt(rng.Intn(g.w), rng.Intn(g.h)), geom.Pt(rng.Intn(g.w), rng.Intn(g.h))}
		for _, s := range sources {
			g.cost[s.Y*g.w+s.X] = 1
		}

		labels, set, get, adj := labelGrid(g)
		bfs.Search(sources, set, get, adj)

		pr := paths.NewPathRange(gruid.NewRange(0, 0, g.w, g.h))
		gsources := make([]gruid.Point, len(sources))
		for i, s := range sources {
			gsources[i] = gruid.Point{X: s.X, Y: s.Y}
		}
		ref := map[geom.Point]int{}
		for _, n := range pr.BreadthFirstMap(&gruidGrid{g: g}, gsources, 1<<20) {
			if n.Cost > 0 {
				ref[geom.Pt(n.P.X, n.P.Y)] = n.Cost
			}
		}

		for y := 0; y < g.h; y++ {
			for x := 0; x < g.w; x++ {
				p := geom.Pt(x, y)
				got := labels.At(p)
				if got == 0 {
					assert.Contains(t, sources, p, "trial %d: %v labelled 0 but is not a source", trial, p)
					continue
				}
				want, ok := ref[p]
				if !ok {
					want = -1
				}
				assert.Equal(t, want, got, "trial %d at %v", trial, p)
			}
		}
	}
}

func TestSearchUnreachedStaysNegative(t *testing.T) {
	g := newTestGrid(5, 1)
	g.cost[2] = 0
	labels, set, get, adj := labelGrid(g)

	var bfs BFS[geom.Point]
	bfs.Search([]geom.Point{geom.Pt(0, 0)}, set, get, adj)

	assert.Equal(t, []int{0, 1, -1, -1, -1}, labels.Values())
}

func TestSearchUntilNearest(t *testing.T) {
	g := newTestGrid(9, 9)
	targets := map[geom.Point]bool{geom.Pt(8, 8): true, geom.Pt(4, 1): true, geom.Pt(0, 7): true}
	_, set, get, adj := labelGrid(g)

	var bfs BFS[geom.Point]
	got, ok := bfs.SearchUntil([]geom.Point{geom.Pt(4, 4)}, set, get, adj,
		func(p geom.Point) bool { return targets[p] })

	require.True(t, ok)
	assert.Equal(t, geom.Pt(4, 1), got)
}

func TestSearchUntilSourceMatches(t *testing.T) {
	g := newTestGrid(3, 3)
	_, set, get, adj := labelGrid(g)

	var bfs BFS[geom.Point]
	got, ok := bfs.SearchUntil([]geom.Point{geom.Pt(1, 1)}, set, get, adj,
		func(geom.Point) bool { return true })

	require.True(t, ok)
	assert.Equal(t, geom.Pt(1, 1), got)
}

func TestSearchUntilNoMatch(t *testing.T) {
	g := newTestGrid(3, 3)
	_, set, get, adj := labelGrid(g)

	var bfs BFS[geom.Point]
	_, ok := bfs.SearchUntil([]geom.Point{geom.Pt(0, 0)}, set, get, adj,
		func(geom.Point) bool { return false })

	assert.False(t, ok)
}

func TestSearchVisitsOnce(t *testing.T) {
	g := newTestGrid(6, 6)
	labels, set, get, adj := labelGrid(g)
	sets := 0
	counting := func(p geom.Point, d int) {
		sets++
		set(p, d)
	}

	var bfs BFS[geom.Point]
	bfs.Search([]geom.Point{geom.Pt(0, 0)}, counting, get, adj)

	assert.Equal(t, 36, sets)
	assert.Equal(t, 10, labels.At(geom.Pt(5, 5)))
}
