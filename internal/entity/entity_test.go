package entity

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"

	"github.com/samdwyer/delver/internal/gamedata"
	"github.com/samdwyer/delver/internal/geom"
	"github.com/samdwyer/delver/internal/world"
)

// room returns a 7x7 map with a walled 5x5 room and a pillar at (4,2).
func room() *world.Map {
	m := world.NewMap(7, 7, 1)
	for p := range geom.NewRect(1, 1, 5, 5).Points() {
		m.SetTile(p, world.TileFloor)
	}
	m.SetTile(geom.Pt(4, 2), world.TileWall)
	return m
}

func TestViewshedRefreshOnlyWhenDirty(t *testing.T) {
	m := room()
	v := NewViewshed(8)

	assert.True(t, v.Refresh(geom.Pt(2, 2), m))
	assert.False(t, v.Dirty)
	n := v.Len()
	assert.Positive(t, n)

	m.SetTile(geom.Pt(3, 3), world.TileWall)
	assert.False(t, v.Refresh(geom.Pt(2, 2), m), "clean viewshed is not recomputed")
	assert.Equal(t, n, v.Len())
}

func TestViewshedCanSee(t *testing.T) {
	m := room()
	v := NewViewshed(8)
	v.Refresh(geom.Pt(2, 2), m)

	assert.True(t, v.CanSee(geom.Pt(2, 2)))
	assert.True(t, v.CanSee(geom.Pt(5, 5)))
	assert.True(t, v.CanSee(geom.Pt(0, 0)), "walls around the room are seen")
	assert.True(t, v.CanSee(geom.Pt(4, 2)), "the pillar itself is seen")
	assert.False(t, v.CanSee(geom.Pt(5, 2)), "behind the pillar")

	count := 0
	v.Each(func(geom.Point) { count++ })
	assert.Equal(t, v.Len(), count)
}

func TestMovingMarksViewDirty(t *testing.T) {
	m := room()
	p := NewPlayer(geom.Pt(1, 1), 4)
	p.Viewshed.Refresh(p.Pos, m)

	p.MoveTo(geom.Pt(2, 1))

	assert.Equal(t, geom.Pt(2, 1), p.Pos)
	assert.True(t, p.Viewshed.Dirty)
	assert.Equal(t, '@', p.Symbol)
}

func TestNewMonsterFromDef(t *testing.T) {
	def := &gamedata.SpawnDef{ID: "orc", Name: "Orc", Glyph: "o", Color: "#FF0000"}

	mon := NewMonster(def, geom.Pt(3, 4), 6)

	assert.Equal(t, "Orc", mon.Name)
	assert.Equal(t, 'o', mon.Symbol)
	assert.Equal(t, "orc", mon.ID())
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), mon.Color())
	assert.Equal(t, 6, mon.Viewshed.Range)
	assert.True(t, mon.Viewshed.Dirty)

	mon.Viewshed.Dirty = false
	mon.MoveTo(geom.Pt(3, 5))
	assert.True(t, mon.Viewshed.Dirty)
}
