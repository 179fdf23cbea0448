package world

import (
	"math"

	"github.com/samdwyer/delver/internal/geom"
	"github.com/samdwyer/delver/internal/pathfind"
)

// Map is a finished level: terrain produced by a generator plus the flags the
// simulation maintains on top of it.
type Map struct {
	Depth int

	tiles geom.Grid[TileType]
	flags geom.Grid[TileFlags]
}

// NewMap creates a map of the given size filled with walls.
func NewMap(width, height, depth int) *Map {
	return FromGrid(geom.NewGrid(width, height, TileWall), depth)
}

// FromGrid takes ownership of a generated tile grid.
func FromGrid(tiles geom.Grid[TileType], depth int) *Map {
	m := &Map{
		Depth: depth,
		tiles: tiles,
		flags: geom.NewGrid(tiles.Width(), tiles.Height(), TileFlags{}),
	}
	m.PopulateBlocked()
	return m
}

// Width returns the number of columns.
func (m *Map) Width() int { return m.tiles.Width() }

// Height returns the number of rows.
func (m *Map) Height() int { return m.tiles.Height() }

// Size returns the map dimensions.
func (m *Map) Size() geom.Point { return m.tiles.Size() }

// Bounds returns the rectangle covering the whole map.
func (m *Map) Bounds() geom.Rect { return m.tiles.Bounds() }

// InBounds returns true if p is on the map.
func (m *Map) InBounds(p geom.Point) bool { return m.tiles.InBounds(p) }

// Tile returns the terrain at p. Positions off the map read as walls.
func (m *Map) Tile(p geom.Point) TileType {
	if !m.tiles.InBounds(p) {
		return TileWall
	}
	return m.tiles.At(p)
}

// SetTile replaces the terrain at p and refreshes its blocked flag.
func (m *Map) SetTile(p geom.Point, t TileType) {
	m.tiles.Set(p, t)
	m.flags.Ptr(p).Blocked = !t.IsWalkable()
}

// Flags returns the simulation flags at p.
func (m *Map) Flags(p geom.Point) TileFlags {
	return m.flags.At(p)
}

// FlagsPtr returns the flags at p for in-place updates.
func (m *Map) FlagsPtr(p geom.Point) *TileFlags {
	return m.flags.Ptr(p)
}

// PopulateBlocked resets every blocked flag from terrain alone.
func (m *Map) PopulateBlocked() {
	flags := m.flags.Values()
	for i, t := range m.tiles.Values() {
		flags[i].Blocked = !t.IsWalkable()
	}
}

// SetBlocked marks a walkable tile as occupied or free.
func (m *Map) SetBlocked(p geom.Point, blocked bool) {
	m.flags.Ptr(p).Blocked = blocked || !m.tiles.At(p).IsWalkable()
}

// ResetVisible clears the Visible flag everywhere, keeping Revealed.
func (m *Map) ResetVisible() {
	flags := m.flags.Values()
	for i := range flags {
		flags[i].Visible = false
	}
}

// MarkVisible flags p as currently visible and revealed.
func (m *Map) MarkVisible(p geom.Point) {
	f := m.flags.Ptr(p)
	f.Visible = true
	f.Revealed = true
}

// IsOpaque returns true if p blocks sight. Positions off the map are opaque.
func (m *Map) IsOpaque(p geom.Point) bool {
	return m.Tile(p).IsOpaque()
}

// IsWalkable returns true if the terrain at p permits entry, ignoring occupants.
func (m *Map) IsWalkable(p geom.Point) bool {
	return m.Tile(p).IsWalkable()
}

// IsPassable returns true if p is on the map and not blocked.
func (m *Map) IsPassable(p geom.Point) bool {
	return m.tiles.InBounds(p) && !m.flags.At(p).Blocked
}

// Distance is the Euclidean heuristic used by pathfinding.
func (m *Map) Distance(a, b geom.Point) float64 {
	return a.Distance(b)
}

// Successors appends every passable neighbour of p to buf.
// Orthogonal steps cost 1, diagonal steps cost √2.
func (m *Map) Successors(p geom.Point, buf []pathfind.Step) []pathfind.Step {
	for _, d := range geom.Neighbors8 {
		n := p.Add(d)
		if !m.IsPassable(n) {
			continue
		}
		cost := 1.0
		if d.X != 0 && d.Y != 0 {
			cost = math.Sqrt2
		}
		buf = append(buf, pathfind.Step{Pos: n, Cost: cost})
	}
	return buf
}

// Find returns the first position holding t in row-major order.
func (m *Map) Find(t TileType) (geom.Point, bool) {
	for i, v := range m.tiles.Values() {
		if v == t {
			return m.tiles.PointOf(i), true
		}
	}
	return geom.Point{}, false
}

// Count returns how many cells hold t.
func (m *Map) Count(t TileType) int {
	n := 0
	for _, v := range m.tiles.Values() {
		if v == t {
			n++
		}
	}
	return n
}

// Tiles exposes the terrain grid read-only by convention.
func (m *Map) Tiles() *geom.Grid[TileType] {
	return &m.tiles
}
