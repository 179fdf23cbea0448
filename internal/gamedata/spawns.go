package gamedata

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// SpawnDef defines something a level can spawn, loaded from spawns.json.
type SpawnDef struct {
	ID          string `json:"id"`          // Unique identifier (e.g., "goblin")
	Name        string `json:"name"`        // Display name (e.g., "Goblin")
	Glyph       string `json:"glyph"`       // Single character for rendering (e.g., "g")
	Color       string `json:"color"`       // Hex color code (e.g., "#00FF00")
	Weight      int    `json:"weight"`      // Base spawn frequency
	DepthWeight int    `json:"depthWeight"` // Added to Weight once per level of depth
	MinDepth    int    `json:"minDepth"`    // Shallowest depth it appears at
}

// WeightAt returns the spawn weight at depth, or 0 if the definition is too
// deep to appear yet.
func (d *SpawnDef) WeightAt(depth int) int {
	if depth < d.MinDepth {
		return 0
	}
	return max(d.Weight+depth*d.DepthWeight, 0)
}

// GlyphRune returns the glyph as a rune for rendering.
func (d *SpawnDef) GlyphRune() rune {
	for _, r := range d.Glyph {
		return r
	}
	return '?'
}

// TCellColor returns the color as a tcell.Color.
func (d *SpawnDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(d.Color)
	if err != nil {
		return tcell.ColorWhite
	}
	return color
}

func (d *SpawnDef) validate() error {
	switch {
	case d.ID == "":
		return fmt.Errorf("spawn %q has no id", d.Name)
	case d.Weight < 0 || d.DepthWeight < 0:
		return fmt.Errorf("spawn %s has a negative weight", d.ID)
	}
	if _, err := ParseHexColor(d.Color); err != nil {
		return fmt.Errorf("spawn %s: %w", d.ID, err)
	}
	return nil
}

// SpawnsFile represents the structure of spawns.json.
type SpawnsFile struct {
	Spawns []SpawnDef `json:"spawns"`
}

// LoadSpawns loads spawn definitions from the embedded spawns.json file.
func LoadSpawns() ([]SpawnDef, error) {
	file, err := Load[SpawnsFile]("spawns.json")
	if err != nil {
		return nil, err
	}
	return file.Spawns, nil
}
