// Package game runs a delver session: level generation shown step by step,
// then exploration with field of view and chasing monsters.
package game

// State represents the current game state.
type State int

const (
	// StateGenerating advances the level generator a few steps per frame.
	StateGenerating State = iota
	// StateExplore accepts player moves; every move is one turn.
	StateExplore
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateGenerating:
		return "generating"
	case StateExplore:
		return "explore"
	default:
		return "unknown"
	}
}
