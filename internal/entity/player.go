// Package entity holds the player and the monsters that share a level.
package entity

import "github.com/samdwyer/delver/internal/geom"

// Player is the explorer controlled from the keyboard.
type Player struct {
	Pos      geom.Point
	Symbol   rune
	Viewshed *Viewshed
}

// NewPlayer creates a player at p who sees sightRange cells.
func NewPlayer(p geom.Point, sightRange int) *Player {
	return &Player{
		Pos:      p,
		Symbol:   '@',
		Viewshed: NewViewshed(sightRange),
	}
}

// MoveTo places the player at p and marks its view stale.
func (p *Player) MoveTo(pos geom.Point) {
	p.Pos = pos
	p.Viewshed.Dirty = true
}
