package game

import (
	"time"

	"github.com/samdwyer/delver/internal/config"
)

// Config holds game configuration options.
type Config struct {
	// Seed for random number generation. Used for reproducible levels.
	// A seed of 0 means a random seed will be generated.
	Seed int64

	Generator     string // mapgen kind
	Width, Height int
	StartDepth    int
	FOVRadius     int
	FlowWindow    int           // Side of the monster flow map window
	StepsPerFrame int           // Generator steps per frame while generating
	FrameInterval time.Duration // Preview tick
}

// ConfigFrom maps the file configuration onto session options.
func ConfigFrom(c config.Config) Config {
	return Config{
		Seed:          c.Seed,
		Generator:     c.Map.Generator,
		Width:         c.Map.Width,
		Height:        c.Map.Height,
		StartDepth:    c.Map.StartDepth,
		FOVRadius:     c.View.FOVRadius,
		FlowWindow:    c.View.FlowWindow,
		StepsPerFrame: c.Preview.StepsPerFrame,
		FrameInterval: time.Duration(c.Preview.FrameMillis) * time.Millisecond,
	}
}
