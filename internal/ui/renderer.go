package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/delver/internal/entity"
	"github.com/samdwyer/delver/internal/geom"
	"github.com/samdwyer/delver/internal/world"
)

// hudLines are reserved under the map for the status line and a message.
const hudLines = 2

// Frame is everything drawn in one pass. Player may be nil while a level is
// still being generated.
type Frame struct {
	View     world.View
	Player   *entity.Player
	Monsters []*entity.Monster
	Status   string
	Message  string
}

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws the frame. The map scrolls to keep the player in view when it
// is larger than the terminal.
func (r *Renderer) Render(f Frame) {
	r.screen.Clear()

	sw, sh := r.screen.Size()
	viewport := geom.NewRect(0, 0, sw, max(sh-hudLines, 0))
	origin := r.camera(f, viewport)

	bounds := f.View.Bounds()
	for p := range viewport.Points() {
		mp := p.Add(origin)
		if !bounds.Contains(mp) {
			continue
		}
		flags := f.View.Flags(mp)
		if !flags.Revealed {
			continue
		}
		tile := f.View.Tile(mp)
		r.screen.SetContent(p.X, p.Y, tile.Rune(), tileStyle(tile, flags.Visible))
	}

	for _, m := range f.Monsters {
		if bounds.Contains(m.Pos) && f.View.Flags(m.Pos).Visible {
			r.draw(m.Pos.Sub(origin), viewport, m.Symbol, tcell.StyleDefault.Foreground(m.Color()))
		}
	}

	if f.Player != nil {
		style := tcell.StyleDefault.
			Foreground(tcell.ColorYellow).
			Bold(true)
		r.draw(f.Player.Pos.Sub(origin), viewport, f.Player.Symbol, style)
	}

	r.RenderMessage(f.Status, viewport.YY+1)
	r.RenderMessage(f.Message, viewport.YY+2)
	r.screen.Show()
}

// camera returns the map position drawn at the top-left screen cell.
func (r *Renderer) camera(f Frame, viewport geom.Rect) geom.Point {
	if f.Player == nil {
		return geom.Point{}
	}
	b := f.View.Bounds()
	return geom.Pt(
		scroll(f.Player.Pos.X, viewport.Width(), b.Width()),
		scroll(f.Player.Pos.Y, viewport.Height(), b.Height()),
	)
}

// scroll centres pos in a window of size view over a line of size total,
// without showing space past either end.
func scroll(pos, view, total int) int {
	if total <= view {
		return 0
	}
	return min(max(pos-view/2, 0), total-view)
}

func (r *Renderer) draw(p geom.Point, viewport geom.Rect, ch rune, style tcell.Style) {
	if viewport.Contains(p) {
		r.screen.SetContent(p.X, p.Y, ch, style)
	}
}

// tileStyle returns the style for a tile, dimmed when only remembered.
func tileStyle(tile world.TileType, visible bool) tcell.Style {
	if !visible {
		return tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
	}
	switch tile {
	case world.TileWall:
		return tcell.StyleDefault.Foreground(tcell.ColorSilver)
	case world.TileFloor:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	case world.TileDownStairs:
		return tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	default:
		return tcell.StyleDefault
	}
}

// RenderMessage writes msg on row y, clipped to the screen width.
func (r *Renderer) RenderMessage(msg string, y int) {
	w, _ := r.screen.Size()
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	x := 0
	for _, ch := range msg {
		if x >= w {
			return
		}
		r.screen.SetContent(x, y, ch, style)
		x++
	}
}
