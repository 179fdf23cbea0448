package gamedata

import (
	"math/rand"

	"github.com/samdwyer/delver/internal/geom"
)

// TableSpawner rolls a definition for every spawn point a generator offers
// and passes both to a sink.
type TableSpawner struct {
	registry *SpawnRegistry
	rng      *rand.Rand
	table    RandomTable[*SpawnDef]
	sink     func(geom.Point, *SpawnDef)
}

// NewTableSpawner creates a spawner that reports to sink.
func NewTableSpawner(registry *SpawnRegistry, rng *rand.Rand, sink func(geom.Point, *SpawnDef)) *TableSpawner {
	return &TableSpawner{registry: registry, rng: rng, sink: sink}
}

// SetDepth rebuilds the table for depth.
func (s *TableSpawner) SetDepth(depth int) {
	s.table.Clear()
	s.registry.fill(&s.table, depth)
}

// Spawn rolls a definition for p. Nothing spawns if no definition can
// appear at the current depth.
func (s *TableSpawner) Spawn(p geom.Point) {
	if s.table.TotalWeight() == 0 {
		return
	}
	s.sink(p, s.table.Roll(s.rng))
}
