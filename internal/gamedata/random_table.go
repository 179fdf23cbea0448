package gamedata

import (
	"fmt"
	"math/rand"
	"sort"
)

// RandomTable picks entries with probability proportional to their weight.
// The zero value is an empty table.
type RandomTable[T any] struct {
	entries    []T
	cumulative []int
	total      int
}

// Add appends entry with the given weight. Zero-weight entries are never
// rolled. A negative weight panics.
func (t *RandomTable[T]) Add(entry T, weight int) {
	if weight < 0 {
		panic(fmt.Sprintf("gamedata: negative weight %d", weight))
	}
	t.total += weight
	t.entries = append(t.entries, entry)
	t.cumulative = append(t.cumulative, t.total)
}

// Len returns the number of entries, including zero-weight ones.
func (t *RandomTable[T]) Len() int { return len(t.entries) }

// TotalWeight returns the sum of all weights.
func (t *RandomTable[T]) TotalWeight() int { return t.total }

// Clear empties the table, keeping its storage.
func (t *RandomTable[T]) Clear() {
	t.entries = t.entries[:0]
	t.cumulative = t.cumulative[:0]
	t.total = 0
}

// Roll picks an entry. Rolling a table with no weight panics.
func (t *RandomTable[T]) Roll(rng *rand.Rand) T {
	if t.total <= 0 {
		panic("gamedata: roll on an empty table")
	}
	w := 1 + rng.Intn(t.total)
	return t.entries[sort.SearchInts(t.cumulative, w)]
}
