// Package flowmap keeps a distance field around the player that monsters
// walk down to reach them.
package flowmap

import (
	"iter"

	"github.com/samdwyer/delver/internal/geom"
	"github.com/samdwyer/delver/internal/pathfind"
)

// Walkable is the terrain a flow map is built over.
type Walkable interface {
	Bounds() geom.Rect
	IsWalkable(p geom.Point) bool
}

// FlowMap labels cells inside a window centred on the player with their hop
// count to the player. Unreached cells and cells outside the window read -1.
type FlowMap struct {
	labels geom.Grid[int]
	window geom.Rect
	player geom.Point
	valid  bool

	bfs   pathfind.BFS[geom.Point]
	start [1]geom.Point
}

// New creates a flow map whose window is at most width x height cells.
func New(width, height int) *FlowMap {
	return &FlowMap{
		labels: geom.NewGrid(width, height, -1),
		window: geom.NewRect(0, 0, width, height),
	}
}

// MaxWidth returns the widest window the map can hold.
func (f *FlowMap) MaxWidth() int { return f.labels.Width() }

// MaxHeight returns the tallest window the map can hold.
func (f *FlowMap) MaxHeight() int { return f.labels.Height() }

// Bounds returns the current window in map coordinates.
func (f *FlowMap) Bounds() geom.Rect { return f.window }

// NeedsUpdate reports whether the field was built for a different position.
func (f *FlowMap) NeedsUpdate(player geom.Point) bool {
	return !f.valid || f.player != player
}

// Invalidate forces the next Update to rebuild, e.g. after a level change.
func (f *FlowMap) Invalidate() {
	f.valid = false
}

// Reset recentres the window on player, clips it to mapBounds and clears
// every label.
func (f *FlowMap) Reset(player geom.Point, mapBounds geom.Rect) {
	f.player = player
	f.valid = true

	w, h := f.MaxWidth(), f.MaxHeight()
	win := geom.NewRect(player.X-w/2, player.Y-h/2, w, h)
	if clipped, ok := win.Intersection(mapBounds); ok {
		f.window = clipped
	} else {
		f.window = geom.NewRect(player.X, player.Y, 0, 0)
	}
	f.labels.Fill(-1)
}

// Get returns the label at p, or -1 outside the window.
func (f *FlowMap) Get(p geom.Point) int {
	if !f.window.Contains(p) {
		return -1
	}
	return f.labels.At(p.Sub(f.window.Min()))
}

// Set stores a label. p must be inside the window.
func (f *FlowMap) Set(p geom.Point, v int) {
	f.labels.Set(p.Sub(f.window.Min()), v)
}

// Update rebuilds the field if the player moved. It returns true when it did.
func (f *FlowMap) Update(player geom.Point, m Walkable) bool {
	if !f.NeedsUpdate(player) {
		return false
	}
	f.Reset(player, m.Bounds())
	if !f.window.Contains(player) {
		return true
	}

	f.start[0] = player
	f.bfs.Search(f.start[:], f.Set, f.Get, func(p geom.Point, buf []geom.Point) []geom.Point {
		for _, d := range geom.Neighbors8 {
			n := p.Add(d)
			if f.window.Contains(n) && m.IsWalkable(n) {
				buf = append(buf, n)
			}
		}
		return buf
	})
	return true
}

// Descend returns the neighbour of p with the lowest label below p's own.
// ok is false when p is unreached or already a local minimum.
func (f *FlowMap) Descend(p geom.Point) (next geom.Point, ok bool) {
	best := f.Get(p)
	if best < 0 {
		return p, false
	}
	for _, d := range geom.Neighbors8 {
		n := p.Add(d)
		if v := f.Get(n); v >= 0 && v < best {
			best, next, ok = v, n, true
		}
	}
	if !ok {
		return p, false
	}
	return next, true
}

// Reached yields every labelled cell with its label, row by row.
func (f *FlowMap) Reached() iter.Seq2[geom.Point, int] {
	return func(yield func(geom.Point, int) bool) {
		for p := range f.window.Points() {
			if v := f.Get(p); v >= 0 {
				if !yield(p, v) {
					return
				}
			}
		}
	}
}
