package mapgen

import (
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/samdwyer/delver/internal/geom"
	"github.com/samdwyer/delver/internal/logger"
	"github.com/samdwyer/delver/internal/pathfind"
	"github.com/samdwyer/delver/internal/world"
)

const (
	minPieceSize = 7 // Smallest side a partition or trimmed room may have

	floorCost = 1.0 // Corridor step through existing floor
	wallCost  = 5.0 // Corridor step that carves wall
)

type bspStage int

const (
	bspPartition bspStage = iota
	bspTrimRooms
	bspCorridors
	bspDone
)

func (s bspStage) String() string {
	switch s {
	case bspPartition:
		return "partition"
	case bspTrimRooms:
		return "trim"
	case bspCorridors:
		return "corridors"
	}
	return "done"
}

// bspNode is one rectangle of the partition tree. The tree is stored
// breadth-first in a slice; children always sit after their parent.
type bspNode struct {
	rect        geom.Rect
	left, right int // child indices, zero for leaves
	// conn is where corridors attach: the room centre for leaves, the middle
	// of the joining corridor for inner nodes.
	conn geom.Point
}

func (n *bspNode) isLeaf() bool { return n.left == 0 }

// BSP partitions the map into walled rectangles, trims a room into every
// leaf and joins sibling subtrees bottom-up with cheapest-carve corridors.
// Each Progress call splits one node, trims one room or digs one corridor.
type BSP struct {
	tiles geom.Grid[world.TileType]
	depth int
	rng   *rand.Rand
	stage bspStage
	astar *pathfind.AStar

	tree      []bspNode
	firstRoom int // index of the first leaf, the player's room
	idx       int
	stairs    geom.Point
}

// NewBSP creates a partition generator. width and height must be at least
// minPieceSize.
func NewBSP(width, height, depth int, rng *rand.Rand) *BSP {
	b := &BSP{
		tiles: geom.NewGrid(width, height, world.TileFloor),
		depth: depth,
		rng:   rng,
		astar: pathfind.NewAStar(),
		tree:  []bspNode{{rect: geom.NewRect(0, 0, width, height)}},
	}
	b.outline(b.tree[0].rect)
	return b
}

// Progress implements Builder.
func (b *BSP) Progress() bool {
	switch b.stage {
	case bspPartition:
		b.partition()
	case bspTrimRooms:
		b.trimRoom()
	case bspCorridors:
		b.corridor()
	}
	return b.stage == bspDone
}

// Intermediate implements Builder.
func (b *BSP) Intermediate() world.View { return world.NewGridView(&b.tiles) }

// PlayerPos returns the centre of the first room.
func (b *BSP) PlayerPos() geom.Point { return b.tree[b.firstRoom].rect.Center() }

// Stairs returns the down-stairs position once generation is done.
func (b *BSP) Stairs() geom.Point { return b.stairs }

// Rooms returns the trimmed room of every leaf, in tree order.
func (b *BSP) Rooms() []geom.Rect {
	var rooms []geom.Rect
	for i := range b.tree {
		if b.tree[i].isLeaf() {
			rooms = append(rooms, b.tree[i].rect)
		}
	}
	return rooms
}

// Spawn places spawns in the interior of every room but the player's.
func (b *BSP) Spawn(s Spawner) {
	rooms := b.Rooms()[1:]
	for i := range rooms {
		rooms[i] = rooms[i].Inset(1)
	}
	spawnInRooms(s, &b.tiles, rooms, b.depth, b.rng, b.PlayerPos(), b.stairs)
}

// Build implements Builder.
func (b *BSP) Build() *world.Map {
	m := world.FromGrid(b.tiles, b.depth)
	b.tiles = geom.Grid[world.TileType]{}
	return m
}

func (b *BSP) setStage(s bspStage) {
	logger.Log.WithFields(logrus.Fields{
		"generator": KindBSP,
		"from":      b.stage,
		"to":        s,
		"nodes":     len(b.tree),
	}).Debug("stage change")
	b.stage = s
}

// partition tries to split one queued node. Nodes too small to split stay
// leaves, and the scan goes on until every queued node has been tried.
func (b *BSP) partition() {
	if r1, r2, ok := b.split(b.tree[b.idx].rect); ok {
		n := len(b.tree)
		b.tree[b.idx].left, b.tree[b.idx].right = n, n+1
		b.tree = append(b.tree, bspNode{rect: r1}, bspNode{rect: r2})
		b.outline(r1)
		b.outline(r2)
	}

	b.idx++
	if b.idx < len(b.tree) {
		return
	}
	b.firstRoom = b.nextLeaf(0)
	b.idx = b.firstRoom
	b.setStage(bspTrimRooms)
}

// nextLeaf returns the first leaf at or after i, or len(b.tree).
func (b *BSP) nextLeaf(i int) int {
	for i < len(b.tree) && !b.tree[i].isLeaf() {
		i++
	}
	return i
}

// prevInner returns the last inner node at or before i, or -1.
func (b *BSP) prevInner(i int) int {
	for i >= 0 && b.tree[i].isLeaf() {
		i--
	}
	return i
}

// split cuts r in two along the axis its aspect ratio favours. The halves
// share the cut line so each keeps its own wall.
func (b *BSP) split(r geom.Rect) (geom.Rect, geom.Rect, bool) {
	w, h := r.Width(), r.Height()
	vertical := b.rng.Float64() < sigmoid(float64(w)/float64(h)-1)

	if (w-1)/2 >= minPieceSize && ((h-1)/2 < minPieceSize || vertical) {
		cut := randRange(b.rng, max(minPieceSize, w*3/10), min(w-minPieceSize, w*7/10))
		return geom.NewRect(r.X, r.Y, cut, h), geom.NewRect(r.X+cut-1, r.Y, w-cut+1, h), true
	}
	if (h-1)/2 >= minPieceSize && ((w-1)/2 < minPieceSize || !vertical) {
		cut := randRange(b.rng, max(minPieceSize, h*3/10), min(h-minPieceSize, h*7/10))
		return geom.NewRect(r.X, r.Y, w, cut), geom.NewRect(r.X, r.Y+cut-1, w, h-cut+1), true
	}
	return geom.Rect{}, geom.Rect{}, false
}

func (b *BSP) trimRoom() {
	leaf := b.tree[b.idx].rect
	for p := range leaf.Points() {
		b.tiles.Set(p, world.TileWall)
	}

	room := b.trim(leaf)
	b.tree[b.idx].rect = room
	b.tree[b.idx].conn = room.Center()
	for p := range room.Inset(1).Points() {
		b.tiles.Set(p, world.TileFloor)
	}

	b.idx = b.nextLeaf(b.idx + 1)
	if b.idx < len(b.tree) {
		return
	}
	if len(b.tree) == 1 {
		// A single room has no corridors; put the stairs in a corner.
		b.placeStairs(room.Inset(1).Min())
		return
	}
	b.idx = b.prevInner(len(b.tree) - 1)
	b.setStage(bspCorridors)
}

// trim picks a random sub-rectangle covering 50 to 90 percent of r per side.
func (b *BSP) trim(r geom.Rect) geom.Rect {
	w := randRange(b.rng, max(minPieceSize, r.Width()*5/10), max(minPieceSize, r.Width()*9/10))
	h := randRange(b.rng, max(minPieceSize, r.Height()*5/10), max(minPieceSize, r.Height()*9/10))
	x := r.X + b.rng.Intn(r.Width()-w+1)
	y := r.Y + b.rng.Intn(r.Height()-h+1)
	return geom.NewRect(x, y, w, h)
}

func (b *BSP) corridor() {
	n := &b.tree[b.idx]
	n.conn = b.connect(b.tree[n.left].conn, b.tree[n.right].conn)
	if b.idx > 0 {
		b.idx = b.prevInner(b.idx - 1)
		return
	}

	stairs := b.tree[0].conn
	if stairs == b.PlayerPos() {
		stairs = b.tree[len(b.tree)-1].rect.Center()
	}
	b.placeStairs(stairs)
}

func (b *BSP) placeStairs(p geom.Point) {
	b.stairs = p
	b.tiles.Set(p, world.TileDownStairs)
	b.setStage(bspDone)
}

// connect carves the cheapest 4-way corridor between two points, preferring
// existing floor, and returns its middle cell.
func (b *BSP) connect(from, to geom.Point) geom.Point {
	inner := b.tiles.Bounds().Inset(1)
	b.astar.ComputeFunc(from, to, pathfind.Manhattan, func(p geom.Point, buf []pathfind.Step) []pathfind.Step {
		for _, d := range geom.Cardinal {
			n := p.Add(d)
			if !inner.Contains(n) {
				continue
			}
			cost := wallCost
			if b.tiles.At(n) == world.TileFloor {
				cost = floorCost
			}
			buf = append(buf, pathfind.Step{Pos: n, Cost: cost})
		}
		return buf
	})

	path := b.astar.Result()
	if len(path) == 0 {
		return from
	}
	for _, s := range path {
		b.tiles.Set(s.Pos, world.TileFloor)
	}
	return path[len(path)/2].Pos
}

// outline draws a wall along the edge of r.
func (b *BSP) outline(r geom.Rect) {
	for x := r.X; x <= r.XX; x++ {
		b.tiles.Set(geom.Pt(x, r.Y), world.TileWall)
		b.tiles.Set(geom.Pt(x, r.YY), world.TileWall)
	}
	for y := r.Y; y <= r.YY; y++ {
		b.tiles.Set(geom.Pt(r.X, y), world.TileWall)
		b.tiles.Set(geom.Pt(r.XX, y), world.TileWall)
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// randRange returns a uniform integer in [lo, hi].
func randRange(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}
