package entity

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/delver/internal/gamedata"
	"github.com/samdwyer/delver/internal/geom"
)

// Monster is a spawned creature. It chases the player when it sees them and
// follows the flow map otherwise.
type Monster struct {
	Def      *gamedata.SpawnDef
	Name     string
	Symbol   rune
	Pos      geom.Point
	Viewshed *Viewshed
}

// NewMonster creates a monster from its definition.
func NewMonster(def *gamedata.SpawnDef, p geom.Point, sightRange int) *Monster {
	return &Monster{
		Def:      def,
		Name:     def.Name,
		Symbol:   def.GlyphRune(),
		Pos:      p,
		Viewshed: NewViewshed(sightRange),
	}
}

// MoveTo places the monster at p and marks its view stale.
func (m *Monster) MoveTo(p geom.Point) {
	m.Pos = p
	m.Viewshed.Dirty = true
}

// Color returns the tcell color for this monster.
func (m *Monster) Color() tcell.Color {
	if m.Def != nil {
		return m.Def.TCellColor()
	}
	return tcell.ColorPurple
}

// ID returns the definition ID.
func (m *Monster) ID() string {
	if m.Def != nil {
		return m.Def.ID
	}
	return m.Name
}
