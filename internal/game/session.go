package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/delver/internal/entity"
	"github.com/samdwyer/delver/internal/flowmap"
	"github.com/samdwyer/delver/internal/gamedata"
	"github.com/samdwyer/delver/internal/geom"
	"github.com/samdwyer/delver/internal/logger"
	"github.com/samdwyer/delver/internal/mapgen"
	"github.com/samdwyer/delver/internal/pathfind"
	"github.com/samdwyer/delver/internal/telemetry"
	"github.com/samdwyer/delver/internal/world"
)

const (
	monsterSight = 8
	maxMessages  = 5
)

// Session is one playthrough without any terminal attached. The tcell loop
// in Game drives it; tests drive it directly.
type Session struct {
	cfg      Config
	seed     int64
	rng      *rand.Rand
	registry *gamedata.SpawnRegistry

	state    State
	depth    int
	turn     int
	builder  mapgen.Builder
	level    *world.Map
	player   *entity.Player
	monsters []*entity.Monster
	flow     *flowmap.FlowMap
	astar    *pathfind.AStar
	messages []string
}

// NewSession seeds the random source and starts generating the first level.
func NewSession(ctx context.Context, cfg Config, registry *gamedata.SpawnRegistry) (*Session, error) {
	tracer := telemetry.Tracer("game")
	_, span := tracer.Start(ctx, "game.init")
	defer span.End()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Session{
		cfg:      cfg,
		seed:     seed,
		rng:      rand.New(rand.NewSource(seed)),
		registry: registry,
		flow:     flowmap.New(cfg.FlowWindow, cfg.FlowWindow),
		astar:    pathfind.NewAStar(),
	}
	if err := s.startLevel(cfg.StartDepth); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("game.seed", seed),
		attribute.String("game.generator", cfg.Generator),
		attribute.Int("game.start_depth", cfg.StartDepth),
	)
	return s, nil
}

// Seed returns the seed actually used.
func (s *Session) Seed() int64 { return s.seed }

// State returns the current state.
func (s *Session) State() State { return s.state }

// Depth returns the current dungeon depth.
func (s *Session) Depth() int { return s.depth }

// Turn returns the number of turns taken on all levels.
func (s *Session) Turn() int { return s.turn }

// Level returns the finished level, or nil while generating.
func (s *Session) Level() *world.Map { return s.level }

// Player returns the player, or nil while generating.
func (s *Session) Player() *entity.Player { return s.player }

// Monsters returns the monsters on the current level.
func (s *Session) Monsters() []*entity.Monster { return s.monsters }

// Flow returns the monster flow map.
func (s *Session) Flow() *flowmap.FlowMap { return s.flow }

// Messages returns the most recent messages, oldest first.
func (s *Session) Messages() []string { return s.messages }

// View returns what should be drawn: the partial grid while generating,
// the level afterwards.
func (s *Session) View() world.View {
	if s.state == StateGenerating {
		return s.builder.Intermediate()
	}
	return s.level
}

// Tick advances generation by up to StepsPerFrame steps and enters the level
// once it is complete. It does nothing while exploring.
func (s *Session) Tick(ctx context.Context) {
	if s.state != StateGenerating {
		return
	}
	for i := 0; i < s.cfg.StepsPerFrame; i++ {
		if s.builder.Progress() {
			s.enterLevel(ctx)
			return
		}
	}
}

// Finish completes generation at once.
func (s *Session) Finish(ctx context.Context) {
	if s.state == StateGenerating {
		s.enterLevel(ctx)
	}
}

// TryMove moves the player by d if the target is free. Stepping onto the
// down stairs starts the next level. It reports whether a turn was taken.
func (s *Session) TryMove(d geom.Point) bool {
	if s.state != StateExplore {
		return false
	}

	target := s.player.Pos.Add(d)
	if m := s.monsterAt(target); m != nil {
		s.message(fmt.Sprintf("The %s blocks the way.", m.Name))
		return false
	}
	if !s.level.IsPassable(target) {
		return false
	}

	s.player.MoveTo(target)
	if s.level.Tile(target) == world.TileDownStairs {
		s.descend()
		return true
	}
	s.endTurn()
	return true
}

// Wait passes a turn in place.
func (s *Session) Wait() {
	if s.state == StateExplore {
		s.endTurn()
	}
}

func (s *Session) startLevel(depth int) error {
	b, err := mapgen.New(s.cfg.Generator, s.cfg.Width, s.cfg.Height, depth, s.rng)
	if err != nil {
		return fmt.Errorf("starting depth %d: %w", depth, err)
	}
	s.builder = b
	s.depth = depth
	s.level = nil
	s.player = nil
	s.monsters = nil
	s.state = StateGenerating
	return nil
}

func (s *Session) enterLevel(ctx context.Context) {
	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "game.enter_level")
	defer span.End()

	spawner := gamedata.NewTableSpawner(s.registry, s.rng, func(p geom.Point, def *gamedata.SpawnDef) {
		s.monsters = append(s.monsters, entity.NewMonster(def, p, monsterSight))
	})
	s.level = mapgen.Generate(ctx, s.builder, spawner)
	s.player = entity.NewPlayer(s.builder.PlayerPos(), s.cfg.FOVRadius)
	s.builder = nil

	for _, m := range s.monsters {
		s.level.SetBlocked(m.Pos, true)
	}
	s.flow.Invalidate()
	s.state = StateExplore
	s.refresh()

	span.SetAttributes(
		attribute.Int("game.depth", s.depth),
		attribute.Int("game.monsters", len(s.monsters)),
	)
	logger.Log.WithFields(logrus.Fields{
		"depth":    s.depth,
		"monsters": len(s.monsters),
		"player":   s.player.Pos,
	}).Info("entered level")
	s.message(fmt.Sprintf("You enter depth %d.", s.depth))
}

func (s *Session) descend() {
	logger.Log.WithFields(logrus.Fields{
		"depth": s.depth,
		"turn":  s.turn,
	}).Info("descending")
	s.message("You descend the stairs.")
	if err := s.startLevel(s.depth + 1); err != nil {
		logger.Log.WithError(err).Error("cannot start next level")
	}
}

func (s *Session) endTurn() {
	s.turn++
	s.refresh()
	s.monstersAct()
}

// refresh recomputes the player's field of view and the flow map.
func (s *Session) refresh() {
	if s.player.Viewshed.Refresh(s.player.Pos, s.level) {
		s.level.ResetVisible()
		s.player.Viewshed.Each(s.level.MarkVisible)
	}
	s.flow.Update(s.player.Pos, s.level)
}

// monstersAct moves every monster one step: straight at the player along an
// A* path when it sees them, down the flow map otherwise.
func (s *Session) monstersAct() {
	target := s.player.Pos
	for _, m := range s.monsters {
		m.Viewshed.Refresh(m.Pos, s.level)
		sees := m.Viewshed.CanSee(target)

		if m.Pos.Chebyshev(target) <= 1 {
			if sees {
				s.message(fmt.Sprintf("The %s snarls at you.", m.Name))
			}
			continue
		}

		var next geom.Point
		var ok bool
		if sees {
			s.astar.Compute(s.level, m.Pos, target)
			next, ok = s.astar.NextStep()
		} else {
			next, ok = s.flow.Descend(m.Pos)
		}
		if !ok || next == target || !s.level.IsPassable(next) {
			continue
		}

		s.level.SetBlocked(m.Pos, false)
		s.level.SetBlocked(next, true)
		m.MoveTo(next)
	}
}

func (s *Session) monsterAt(p geom.Point) *entity.Monster {
	for _, m := range s.monsters {
		if m.Pos == p {
			return m
		}
	}
	return nil
}

func (s *Session) message(msg string) {
	s.messages = append(s.messages, msg)
	if len(s.messages) > maxMessages {
		s.messages = s.messages[len(s.messages)-maxMessages:]
	}
}
