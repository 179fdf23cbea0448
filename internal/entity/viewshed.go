package entity

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/samdwyer/delver/internal/fov"
	"github.com/samdwyer/delver/internal/geom"
)

// Viewshed caches what an entity can see. It is recomputed only when Dirty.
type Viewshed struct {
	Range   int
	Dirty   bool
	visible mapset.Set[geom.Point]
}

// NewViewshed creates a dirty viewshed of the given range.
func NewViewshed(sightRange int) *Viewshed {
	return &Viewshed{
		Range:   sightRange,
		Dirty:   true,
		visible: mapset.New[geom.Point](),
	}
}

// Refresh recomputes the visible set from origin if the viewshed is dirty.
// It reports whether anything was recomputed.
func (v *Viewshed) Refresh(origin geom.Point, m fov.Map) bool {
	if !v.Dirty {
		return false
	}
	v.Dirty = false
	v.visible = mapset.New[geom.Point]()
	fov.Compute(origin, v.Range, m, v.visible.Put)
	return true
}

// CanSee returns true if p was visible at the last refresh.
func (v *Viewshed) CanSee(p geom.Point) bool {
	return v.visible.Has(p)
}

// Len returns the number of visible cells.
func (v *Viewshed) Len() int {
	return v.visible.Size()
}

// Each calls fn for every visible cell in no particular order.
func (v *Viewshed) Each(fn func(geom.Point)) {
	v.visible.Each(fn)
}
