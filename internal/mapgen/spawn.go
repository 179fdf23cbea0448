package mapgen

import (
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"github.com/samdwyer/delver/internal/geom"
	"github.com/samdwyer/delver/internal/world"
)

// spawnInRooms hands s between 1 and 4+depth distinct floor cells from each
// room. reserved cells (player start, stairs) are never used.
func spawnInRooms(s Spawner, tiles *geom.Grid[world.TileType], rooms []geom.Rect, depth int, rng *rand.Rand, reserved ...geom.Point) {
	s.SetDepth(depth)

	taken := mapset.New[geom.Point]()
	for _, p := range reserved {
		taken.Put(p)
	}

	var free []geom.Point
	for _, room := range rooms {
		free = free[:0]
		for p := range room.Points() {
			if tiles.At(p) == world.TileFloor && !taken.Has(p) {
				free = append(free, p)
			}
		}

		n := spawnCount(rng, depth, len(free))
		for i := 0; i < n; i++ {
			j := i + rng.Intn(len(free)-i)
			free[i], free[j] = free[j], free[i]
			taken.Put(free[i])
			s.Spawn(free[i])
		}
	}
}
