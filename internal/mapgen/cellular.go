package mapgen

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/samdwyer/delver/internal/geom"
	"github.com/samdwyer/delver/internal/logger"
	"github.com/samdwyer/delver/internal/pathfind"
	"github.com/samdwyer/delver/internal/world"
)

const (
	initialWallChance = 0.45
	smoothRounds      = 4
	majorityRounds    = 3
	minFloorFraction  = 0.4
	maxFloorFraction  = 0.6
	regionCellSize    = 12 // Side of the coarse grid seeding spawn regions
)

type cellularStage int

const (
	cellularInit cellularStage = iota
	cellularSmooth
	cellularMajority
	cellularFinalize
	cellularDone
)

func (s cellularStage) String() string {
	switch s {
	case cellularInit:
		return "init"
	case cellularSmooth:
		return "smooth"
	case cellularMajority:
		return "majority"
	case cellularFinalize:
		return "finalize"
	}
	return "done"
}

// Cellular grows caves with a cellular automaton. A level whose floor is
// disconnected is pruned to the part reachable from the start; one whose
// floor fraction falls outside [0.4, 0.6] is thrown away and regrown.
type Cellular struct {
	tiles   geom.Grid[world.TileType]
	next    geom.Grid[world.TileType]
	dist    geom.Grid[int]
	depth   int
	rng     *rand.Rand
	stage   cellularStage
	round   int
	attempt int

	bfs    pathfind.BFS[geom.Point]
	source [1]geom.Point
	player geom.Point
	stairs geom.Point
}

// NewCellular creates a cave generator.
func NewCellular(width, height, depth int, rng *rand.Rand) *Cellular {
	return &Cellular{
		tiles: geom.NewGrid(width, height, world.TileWall),
		next:  geom.NewGrid(width, height, world.TileWall),
		dist:  geom.NewGrid(width, height, -1),
		depth: depth,
		rng:   rng,
	}
}

// Progress implements Builder. Init, each smoothing round and Finalize are
// one step apiece.
func (c *Cellular) Progress() bool {
	switch c.stage {
	case cellularInit:
		c.init()
	case cellularSmooth:
		c.automaton(func(p geom.Point) bool {
			return c.countWalls(p, 1) >= 5 || c.countWalls(p, 2) <= 2
		})
		c.advance(smoothRounds, cellularMajority)
	case cellularMajority:
		c.automaton(func(p geom.Point) bool {
			return c.countWalls(p, 1) >= 5
		})
		c.advance(majorityRounds, cellularFinalize)
	case cellularFinalize:
		c.finalize()
	}
	return c.stage == cellularDone
}

// Attempts returns how many levels have been grown, the accepted one included.
func (c *Cellular) Attempts() int { return c.attempt }

// Intermediate implements Builder.
func (c *Cellular) Intermediate() world.View { return world.NewGridView(&c.tiles) }

// PlayerPos returns the floor cell nearest the map centre.
func (c *Cellular) PlayerPos() geom.Point { return c.player }

// Stairs returns the floor cell farthest from the player.
func (c *Cellular) Stairs() geom.Point { return c.stairs }

// Spawn splits the map into Voronoi regions and samples spawn points from
// the floor of each one.
func (c *Cellular) Spawn(s Spawner) {
	s.SetDepth(c.depth)
	for _, area := range voronoiRegions(c.tiles.Bounds(), regionCellSize, c.rng) {
		c.spawnIn(s, area)
	}
}

// spawnIn selection-samples up to spawnCount cells of area in order.
func (c *Cellular) spawnIn(s Spawner, area []geom.Point) {
	needed := spawnCount(c.rng, c.depth, len(area))
	left := len(area)
	for _, p := range area {
		if needed > 0 && c.rng.Float64() < float64(needed)/float64(left) {
			if c.tiles.At(p) == world.TileFloor && p != c.player {
				s.Spawn(p)
				needed--
			}
		}
		left--
	}
}

// Build implements Builder.
func (c *Cellular) Build() *world.Map {
	m := world.FromGrid(c.tiles, c.depth)
	c.tiles = geom.Grid[world.TileType]{}
	return m
}

func (c *Cellular) setStage(s cellularStage) {
	logger.Log.WithFields(logrus.Fields{
		"generator": KindCellular,
		"from":      c.stage,
		"to":        s,
		"attempt":   c.attempt,
	}).Debug("stage change")
	c.stage = s
	c.round = 0
}

func (c *Cellular) advance(rounds int, then cellularStage) {
	c.round++
	if c.round >= rounds {
		c.setStage(then)
	}
}

func (c *Cellular) interior() geom.Rect {
	return c.tiles.Bounds().Inset(1)
}

func (c *Cellular) init() {
	c.attempt++
	for p := range c.interior().Points() {
		t := world.TileFloor
		if c.rng.Float64() < initialWallChance {
			t = world.TileWall
		}
		c.tiles.Set(p, t)
	}
	c.setStage(cellularSmooth)
}

// automaton applies one generation of the rule to every interior cell.
// Reads come from the current grid and writes go to the other buffer, so
// the result does not depend on scan order.
func (c *Cellular) automaton(isWall func(geom.Point) bool) {
	copy(c.next.Values(), c.tiles.Values())
	for p := range c.interior().Points() {
		t := world.TileFloor
		if isWall(p) {
			t = world.TileWall
		}
		c.next.Set(p, t)
	}
	c.tiles, c.next = c.next, c.tiles
}

// countWalls counts walls in the square of radius r around p, p included.
// Cells off the map are not counted.
func (c *Cellular) countWalls(p geom.Point, r int) int {
	square := geom.NewRect(p.X-r, p.Y-r, 2*r+1, 2*r+1)
	square, _ = square.Intersection(c.tiles.Bounds())
	n := 0
	for q := range square.Points() {
		if c.tiles.At(q) == world.TileWall {
			n++
		}
	}
	return n
}

func (c *Cellular) finalize() {
	bounds := c.tiles.Bounds()
	c.dist.Fill(-1)

	everywhere := func(p geom.Point, buf []geom.Point) []geom.Point {
		for _, d := range geom.Neighbors8 {
			if n := p.Add(d); bounds.Contains(n) {
				buf = append(buf, n)
			}
		}
		return buf
	}
	c.source[0] = geom.Pt(bounds.Width()/2, bounds.Height()/2)
	start, ok := c.bfs.SearchUntil(c.source[:], c.dist.Set, c.dist.At, everywhere, func(p geom.Point) bool {
		return c.tiles.At(p) == world.TileFloor
	})
	if !ok {
		c.reject("no floor")
		return
	}

	c.dist.Fill(-1)
	c.source[0] = start
	c.bfs.Search(c.source[:], c.dist.Set, c.dist.At, func(p geom.Point, buf []geom.Point) []geom.Point {
		for _, d := range geom.Neighbors8 {
			if n := p.Add(d); bounds.Contains(n) && c.tiles.At(n) == world.TileFloor {
				buf = append(buf, n)
			}
		}
		return buf
	})

	tiles, dist := c.tiles.Values(), c.dist.Values()
	far, farDist := 0, -1
	for i, d := range dist {
		if d < 0 {
			tiles[i] = world.TileWall
		} else if d > farDist {
			far, farDist = i, d
		}
	}
	if farDist <= 0 {
		c.reject("single floor cell")
		return
	}

	stairs := c.tiles.PointOf(far)
	c.tiles.Set(stairs, world.TileDownStairs)

	walkable := 0
	for _, t := range tiles {
		if t.IsWalkable() {
			walkable++
		}
	}
	fraction := float64(walkable) / float64(len(tiles))
	if fraction < minFloorFraction || fraction > maxFloorFraction {
		logger.Log.WithFields(logrus.Fields{
			"generator": KindCellular,
			"attempt":   c.attempt,
			"floor":     fraction,
		}).Debug("floor fraction out of range")
		c.reject("floor fraction")
		return
	}

	c.player = start
	c.stairs = stairs
	c.setStage(cellularDone)
}

func (c *Cellular) reject(reason string) {
	logger.Log.WithFields(logrus.Fields{
		"generator": KindCellular,
		"attempt":   c.attempt,
		"reason":    reason,
	}).Debug("level rejected")
	c.setStage(cellularInit)
}
