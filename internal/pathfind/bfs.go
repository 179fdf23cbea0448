package pathfind

// BFS labels nodes with their hop distance from a set of sources.
// The graph lives in the caller's closures; BFS only owns the frontier, which
// is reused across searches. The zero value is ready to use.
type BFS[N any] struct {
	frontier []labelled[N]
	adj      []N
}

type labelled[N any] struct {
	node N
	dist int
}

// Search labels every node reachable from sources with its distance to the
// nearest source. get must return a negative value for unlabelled nodes;
// set records a label. adjacent appends the neighbours of a node to buf.
func (b *BFS[N]) Search(
	sources []N,
	set func(N, int),
	get func(N) int,
	adjacent func(n N, buf []N) []N,
) {
	b.SearchUntil(sources, set, get, adjacent, nil)
}

// SearchUntil runs Search but stops at the first node, in breadth-first
// order, for which isTarget returns true. Sources are tested first. The
// returned node is therefore one with the fewest hops from any source.
// ok is false if no reachable node matched; a nil isTarget never matches.
func (b *BFS[N]) SearchUntil(
	sources []N,
	set func(N, int),
	get func(N) int,
	adjacent func(n N, buf []N) []N,
	isTarget func(N) bool,
) (found N, ok bool) {
	b.frontier = b.frontier[:0]
	for _, s := range sources {
		set(s, 0)
		b.frontier = append(b.frontier, labelled[N]{node: s})
	}

	for head := 0; head < len(b.frontier); head++ {
		cur := b.frontier[head]
		if isTarget != nil && isTarget(cur.node) {
			return cur.node, true
		}

		b.adj = adjacent(cur.node, b.adj[:0])
		for _, n := range b.adj {
			if get(n) >= 0 {
				continue
			}
			set(n, cur.dist+1)
			b.frontier = append(b.frontier, labelled[N]{node: n, dist: cur.dist + 1})
		}
	}

	return found, false
}
