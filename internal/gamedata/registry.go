package gamedata

import (
	"errors"
	"fmt"
)

// SpawnRegistry holds loaded spawn definitions.
type SpawnRegistry struct {
	spawns []SpawnDef
	byID   map[string]*SpawnDef
}

// NewSpawnRegistry creates a registry, rejecting invalid or duplicate
// definitions.
func NewSpawnRegistry(spawns []SpawnDef) (*SpawnRegistry, error) {
	r := &SpawnRegistry{
		spawns: spawns,
		byID:   make(map[string]*SpawnDef, len(spawns)),
	}
	for i := range spawns {
		def := &spawns[i]
		if err := def.validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byID[def.ID]; dup {
			return nil, fmt.Errorf("duplicate spawn id %s", def.ID)
		}
		r.byID[def.ID] = def
	}
	return r, nil
}

// LoadSpawnRegistry loads and creates a registry from the embedded spawns.json.
func LoadSpawnRegistry() (*SpawnRegistry, error) {
	spawns, err := LoadSpawns()
	if err != nil {
		return nil, err
	}
	if len(spawns) == 0 {
		return nil, errors.New("no spawns loaded from spawns.json")
	}
	return NewSpawnRegistry(spawns)
}

// MustLoadSpawnRegistry loads a registry, panicking on error.
func MustLoadSpawnRegistry() *SpawnRegistry {
	registry, err := LoadSpawnRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// SpawnTable builds the weighted table for depth. Definitions that cannot
// appear yet are left out.
func (r *SpawnRegistry) SpawnTable(depth int) *RandomTable[*SpawnDef] {
	t := &RandomTable[*SpawnDef]{}
	r.fill(t, depth)
	return t
}

func (r *SpawnRegistry) fill(t *RandomTable[*SpawnDef], depth int) {
	for i := range r.spawns {
		if w := r.spawns[i].WeightAt(depth); w > 0 {
			t.Add(&r.spawns[i], w)
		}
	}
}

// GetByID returns the definition with the given ID, or nil if not found.
func (r *SpawnRegistry) GetByID(id string) *SpawnDef {
	return r.byID[id]
}

// All returns all definitions.
func (r *SpawnRegistry) All() []SpawnDef {
	return r.spawns
}

// Count returns the number of definitions in the registry.
func (r *SpawnRegistry) Count() int {
	return len(r.spawns)
}
