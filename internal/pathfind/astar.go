// Package pathfind provides A* shortest paths and breadth-first distance
// labelling over grid graphs. Both keep their scratch state in a value owned
// by the caller so repeated queries do not allocate.
package pathfind

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/samdwyer/delver/internal/geom"
)

// Step is one edge or path entry: a position and a cost.
// From Successors, Cost is the edge cost; in a path it is the cumulative cost.
type Step struct {
	Pos  geom.Point
	Cost float64
}

// Graph is the grid collaborator used by Compute.
type Graph interface {
	// Distance is an admissible estimate of the cost from a to b.
	Distance(a, b geom.Point) float64
	// Successors appends the neighbours of p with their edge costs to buf.
	Successors(p geom.Point, buf []Step) []Step
}

// HeuristicFunc estimates the remaining cost from a to b.
type HeuristicFunc func(a, b geom.Point) float64

// SuccessorFunc appends the neighbours of p with their edge costs to buf.
type SuccessorFunc func(p geom.Point, buf []Step) []Step

// Euclidean is the straight-line heuristic for 8-way movement.
func Euclidean(a, b geom.Point) float64 { return a.Distance(b) }

// Manhattan is the heuristic for 4-way movement with unit minimum cost.
func Manhattan(a, b geom.Point) float64 { return float64(a.Manhattan(b)) }

// visit is the best known way to reach a node.
type visit struct {
	from geom.Point
	cost float64
}

// AStar computes weighted shortest paths. The zero value is ready to use.
// An AStar must not be shared between callers that may run concurrently.
type AStar struct {
	open stepHeap
	seen map[geom.Point]visit
	path []Step
	succ []Step
	seq  uint64
}

// NewAStar returns an empty pathfinder.
func NewAStar() *AStar {
	return &AStar{seen: make(map[geom.Point]visit)}
}

// Compute finds the cheapest path from from to to over g.
func (a *AStar) Compute(g Graph, from, to geom.Point) {
	a.ComputeFunc(from, to, g.Distance, g.Successors)
}

// ComputeFunc is Compute with the map operations passed as closures, so it can
// run against grids that are not a Graph, such as a level still being generated.
//
// Edge costs must be non-negative and finite; any other cost panics.
func (a *AStar) ComputeFunc(from, to geom.Point, h HeuristicFunc, successors SuccessorFunc) {
	a.reset()

	a.seen[from] = visit{from: from, cost: 0}
	a.push(from, h(from, to))

	for a.open.Len() > 0 {
		cur := heap.Pop(&a.open).(entry)
		if cur.pos == to {
			break
		}
		c := a.costTo(cur.pos)
		if cur.priority > c+h(cur.pos, to) {
			continue // superseded by a cheaper entry
		}

		a.succ = successors(cur.pos, a.succ[:0])
		for _, s := range a.succ {
			checkCost(cur.pos, s)
			nc := c + s.Cost
			if nc < a.costTo(s.Pos) {
				a.seen[s.Pos] = visit{from: cur.pos, cost: nc}
				a.push(s.Pos, nc+h(s.Pos, to))
			}
		}
	}

	if _, ok := a.seen[to]; !ok {
		return
	}
	for p := to; ; {
		v := a.seen[p]
		a.path = append(a.path, Step{Pos: p, Cost: v.cost})
		if p == from {
			break
		}
		p = v.from
	}
}

// Result returns the last computed path from target back to source.
// It is empty when the target was unreachable. The slice is reused by the
// next Compute call.
func (a *AStar) Result() []Step {
	return a.path
}

// Found returns true if the last computation reached its target.
func (a *AStar) Found() bool {
	return len(a.path) > 0
}

// Cost returns the total cost of the last path, or 0 if none was found.
func (a *AStar) Cost() float64 {
	if len(a.path) == 0 {
		return 0
	}
	return a.path[0].Cost
}

// NextStep returns the first move along the last path, if there is one.
func (a *AStar) NextStep() (geom.Point, bool) {
	if len(a.path) < 2 {
		return geom.Point{}, false
	}
	return a.path[len(a.path)-2].Pos, true
}

func (a *AStar) reset() {
	if a.seen == nil {
		a.seen = make(map[geom.Point]visit)
	}
	clear(a.seen)
	a.open = a.open[:0]
	a.path = a.path[:0]
	a.seq = 0
}

func (a *AStar) push(p geom.Point, priority float64) {
	heap.Push(&a.open, entry{pos: p, priority: priority, seq: a.seq})
	a.seq++
}

func (a *AStar) costTo(p geom.Point) float64 {
	if v, ok := a.seen[p]; ok {
		return v.cost
	}
	return math.Inf(1)
}

func checkCost(from geom.Point, s Step) {
	if !(s.Cost >= 0) || math.IsInf(s.Cost, 1) {
		panic(fmt.Sprintf("pathfind: invalid edge cost %v from %v to %v", s.Cost, from, s.Pos))
	}
}

// entry is a queued node. seq breaks priority ties in insertion order.
type entry struct {
	pos      geom.Point
	priority float64
	seq      uint64
}

// stepHeap implements container/heap as a min-heap on (priority, seq).
type stepHeap []entry

func (h stepHeap) Len() int { return len(h) }
func (h stepHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}
func (h stepHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *stepHeap) Push(x any)   { *h = append(*h, x.(entry)) }
func (h *stepHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}
