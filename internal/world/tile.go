// Package world provides the finished map and the tile vocabulary shared by
// generators, visibility and pathfinding.
package world

// TileType is the terrain of a single cell.
type TileType uint8

const (
	// TileWall blocks both movement and sight.
	TileWall TileType = iota
	// TileFloor is open ground.
	TileFloor
	// TileDownStairs leads to the next depth; walkable and transparent.
	TileDownStairs
)

// IsWalkable returns true if the tile can be walked on.
func (t TileType) IsWalkable() bool {
	return t != TileWall
}

// IsOpaque returns true if the tile blocks line of sight.
func (t TileType) IsOpaque() bool {
	return t == TileWall
}

// Rune returns the tile's display character.
func (t TileType) Rune() rune {
	switch t {
	case TileWall:
		return '#'
	case TileFloor:
		return '.'
	case TileDownStairs:
		return '>'
	default:
		return '?'
	}
}

// String returns a human-readable tile name.
func (t TileType) String() string {
	switch t {
	case TileWall:
		return "wall"
	case TileFloor:
		return "floor"
	case TileDownStairs:
		return "downstairs"
	default:
		return "unknown"
	}
}

// TileFlags is per-cell metadata owned by the simulation, never by generators.
type TileFlags struct {
	Revealed     bool // Seen at least once
	Visible      bool // In the player's current field of view
	Blocked      bool // Occupied by terrain or a tile-blocking entity
	Bloodstained bool
}
