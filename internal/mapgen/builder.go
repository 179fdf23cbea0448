// Package mapgen builds levels incrementally. Each Builder advances one unit
// of work per Progress call so a caller can draw the level as it forms.
package mapgen

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/delver/internal/geom"
	"github.com/samdwyer/delver/internal/logger"
	"github.com/samdwyer/delver/internal/telemetry"
	"github.com/samdwyer/delver/internal/world"
)

// Builder is a resumable level generator.
type Builder interface {
	// Progress performs one unit of work and reports whether the level is
	// complete. Calling it after completion is a no-op returning true.
	Progress() bool
	// Intermediate exposes the grid as it currently stands.
	Intermediate() world.View
	// PlayerPos is the start position. Valid once Progress returned true.
	PlayerPos() geom.Point
	// Spawn hands spawn points to s. Call it before Build.
	Spawn(s Spawner)
	// Build hands the finished grid to a Map. The builder is spent afterwards.
	Build() *world.Map
}

// Spawner places whatever lives on a level. Generators only choose where.
type Spawner interface {
	SetDepth(depth int)
	Spawn(p geom.Point)
}

// Generator names accepted by New.
const (
	KindBSP      = "bsp"
	KindCellular = "cellular"
	KindSimple   = "simple"
)

// Kinds lists every generator New understands.
var Kinds = []string{KindBSP, KindCellular, KindSimple}

// MinSize is the smallest width or height the BSP and cellular generators
// accept.
const MinSize = 16

// MinSizeFor returns the smallest width or height the generator registered
// under kind accepts.
func MinSizeFor(kind string) (int, error) {
	switch kind {
	case KindBSP, KindCellular:
		return MinSize, nil
	case KindSimple:
		return SimpleMinSize, nil
	}
	return 0, fmt.Errorf("unknown generator %q", kind)
}

// New returns the generator registered under kind.
func New(kind string, width, height, depth int, rng *rand.Rand) (Builder, error) {
	minSize, err := MinSizeFor(kind)
	if err != nil {
		return nil, err
	}
	if width < minSize || height < minSize {
		return nil, fmt.Errorf("map size %dx%d is below %dx%d for %s generator",
			width, height, minSize, minSize, kind)
	}
	switch kind {
	case KindBSP:
		return NewBSP(width, height, depth, rng), nil
	case KindCellular:
		return NewCellular(width, height, depth, rng), nil
	default:
		return NewSimple(width, height, depth, rng), nil
	}
}

// attempter is implemented by generators that may discard and retry a level.
type attempter interface {
	Attempts() int
}

// Generate runs b to completion, passes its spawn points to s (which may be
// nil) and returns the finished map.
func Generate(ctx context.Context, b Builder, s Spawner) *world.Map {
	tracer := telemetry.Tracer("mapgen")
	_, span := tracer.Start(ctx, "mapgen.generate")
	defer span.End()

	start := time.Now()
	steps := 1
	for !b.Progress() {
		steps++
	}
	if s != nil {
		b.Spawn(s)
	}
	player := b.PlayerPos()
	m := b.Build()

	elapsed := time.Since(start)
	attrs := []attribute.KeyValue{
		attribute.Int("mapgen.steps", steps),
		attribute.Int("mapgen.width", m.Width()),
		attribute.Int("mapgen.height", m.Height()),
		attribute.Int("mapgen.depth", m.Depth),
		attribute.Int64("mapgen.generation_ms", elapsed.Milliseconds()),
	}
	fields := logrus.Fields{
		"steps":  steps,
		"width":  m.Width(),
		"height": m.Height(),
		"depth":  m.Depth,
		"player": player,
	}
	if a, ok := b.(attempter); ok {
		attrs = append(attrs, attribute.Int("mapgen.attempts", a.Attempts()))
		fields["attempts"] = a.Attempts()
	}
	span.SetAttributes(attrs...)
	logger.Log.WithFields(fields).WithField("elapsed", elapsed).Info("level generated")

	return m
}

// spawnCount rolls how many spawns a room of the given capacity receives at
// depth: between 1 and 4+depth, never more than capacity.
func spawnCount(rng *rand.Rand, depth, capacity int) int {
	limit := min(maxDepth1Spawns+depth, capacity)
	if limit <= 0 {
		return 0
	}
	return 1 + rng.Intn(limit)
}

const maxDepth1Spawns = 4
