package mapgen

import (
	"fmt"
	"math/rand"

	"github.com/samdwyer/delver/internal/geom"
	"github.com/samdwyer/delver/internal/world"
)

const (
	simpleAttempts = 30
	simpleMinRoom  = 6
	simpleMaxRoom  = 10

	// simpleMaxAttempts bounds random placement. Past it the second room is
	// placed by scanning.
	simpleMaxAttempts = 10 * simpleAttempts
)

// SimpleMinSize is the smallest width or height the simple generator accepts.
// A minimum-size room always fits beside the widest possible first room, so
// a second room can always be placed.
const SimpleMinSize = 2*simpleMinRoom + simpleMaxRoom + 5

// Simple scatters non-overlapping rooms and joins each new room to the
// previous one with an L-shaped corridor. Each Progress call tries one
// placement; it keeps trying past the usual budget until two rooms exist,
// and stops guessing after simpleMaxAttempts.
type Simple struct {
	tiles    geom.Grid[world.TileType]
	depth    int
	rng      *rand.Rand
	rooms    []geom.Rect
	attempts int
	done     bool

	player geom.Point
	stairs geom.Point
}

// NewSimple creates a rooms-and-corridors generator. width and height must
// be at least SimpleMinSize.
func NewSimple(width, height, depth int, rng *rand.Rand) *Simple {
	return &Simple{
		tiles: geom.NewGrid(width, height, world.TileWall),
		depth: depth,
		rng:   rng,
	}
}

// Progress implements Builder.
func (s *Simple) Progress() bool {
	if s.done {
		return true
	}

	if s.attempts >= simpleMaxAttempts {
		s.placeAnywhere()
	} else {
		w := randRange(s.rng, simpleMinRoom, simpleMaxRoom)
		h := randRange(s.rng, simpleMinRoom, simpleMaxRoom)
		x := 2 + s.rng.Intn(s.tiles.Width()-4-w)
		y := 2 + s.rng.Intn(s.tiles.Height()-4-h)
		if room := geom.NewRect(x, y, w, h); !s.overlapsAny(room) {
			s.addRoom(room)
		}
	}

	s.attempts++
	if s.attempts >= simpleAttempts && len(s.rooms) >= 2 {
		s.player = s.rooms[0].Center()
		s.stairs = s.rooms[len(s.rooms)-1].Center()
		s.tiles.Set(s.stairs, world.TileDownStairs)
		s.done = true
	}
	return s.done
}

// Intermediate implements Builder.
func (s *Simple) Intermediate() world.View { return world.NewGridView(&s.tiles) }

// PlayerPos returns the centre of the first room.
func (s *Simple) PlayerPos() geom.Point { return s.player }

// Stairs returns the centre of the last room.
func (s *Simple) Stairs() geom.Point { return s.stairs }

// Rooms returns the placed rooms in placement order.
func (s *Simple) Rooms() []geom.Rect { return s.rooms }

// Spawn places spawns in every room but the first.
func (s *Simple) Spawn(sp Spawner) {
	var rooms []geom.Rect
	if len(s.rooms) > 1 {
		rooms = s.rooms[1:]
	}
	spawnInRooms(sp, &s.tiles, rooms, s.depth, s.rng, s.player, s.stairs)
}

// Build implements Builder.
func (s *Simple) Build() *world.Map {
	m := world.FromGrid(s.tiles, s.depth)
	s.tiles = geom.Grid[world.TileType]{}
	return m
}

// addRoom carves r and joins it to the previous room.
func (s *Simple) addRoom(r geom.Rect) {
	s.carve(r)
	if len(s.rooms) > 0 {
		from, to := s.rooms[len(s.rooms)-1].Center(), r.Center()
		if s.rng.Intn(2) == 0 {
			from, to = to, from
		}
		s.corridor(from, to)
	}
	s.rooms = append(s.rooms, r)
}

// placeAnywhere adds the first free minimum-size room in row-major order.
// It panics if none fits, which SimpleMinSize rules out.
func (s *Simple) placeAnywhere() {
	const size = simpleMinRoom
	for y := 2; y <= s.tiles.Height()-3-size; y++ {
		for x := 2; x <= s.tiles.Width()-3-size; x++ {
			if room := geom.NewRect(x, y, size, size); !s.overlapsAny(room) {
				s.addRoom(room)
				return
			}
		}
	}
	panic(fmt.Sprintf("mapgen: no room fits a %dx%d simple map", s.tiles.Width(), s.tiles.Height()))
}

func (s *Simple) overlapsAny(r geom.Rect) bool {
	for _, other := range s.rooms {
		if other.Overlaps(r) {
			return true
		}
	}
	return false
}

func (s *Simple) carve(r geom.Rect) {
	for p := range r.Points() {
		s.tiles.Set(p, world.TileFloor)
	}
}

// corridor runs horizontally along from's row, then vertically along to's
// column.
func (s *Simple) corridor(from, to geom.Point) {
	for x := min(from.X, to.X); x <= max(from.X, to.X); x++ {
		s.tiles.Set(geom.Pt(x, from.Y), world.TileFloor)
	}
	for y := min(from.Y, to.Y); y <= max(from.Y, to.Y); y++ {
		s.tiles.Set(geom.Pt(to.X, y), world.TileFloor)
	}
}
