package world

import "github.com/samdwyer/delver/internal/geom"

// View is read-only access to a map, finished or still being generated.
type View interface {
	Bounds() geom.Rect
	Tile(p geom.Point) TileType
	Flags(p geom.Point) TileFlags
}

// GridView exposes a raw tile grid as a fully revealed View.
// Generators hand it out as their intermediate map.
type GridView struct {
	tiles *geom.Grid[TileType]
}

// NewGridView wraps tiles without copying them.
func NewGridView(tiles *geom.Grid[TileType]) GridView {
	return GridView{tiles: tiles}
}

// Bounds returns the grid extent.
func (v GridView) Bounds() geom.Rect { return v.tiles.Bounds() }

// Tile returns the terrain at p.
func (v GridView) Tile(p geom.Point) TileType { return v.tiles.At(p) }

// Flags reports every cell as revealed and visible.
func (v GridView) Flags(geom.Point) TileFlags {
	return TileFlags{Revealed: true, Visible: true}
}
