package walk

import (
	"github.com/alberlin232/ShReGeAs/internal/mer"
)

// pathSet collects finished walks. New walks that share a node with a walk
// already in the set are joined with it rather than added alongside it
type pathSet struct {
	// paths are the joined walks, in the order they were first added
	paths []Path

	// branches are the leftovers of joins, kept so no edge is dropped
	branches []Path

	// joins is the number of walks joined into an existing one
	joins int
}

// add puts a walk into the set. The first node (in set order, then path
// order) of any existing path that is also on p is where the two are joined
func (s *pathSet) add(p Path) {
	if p.Edges() == 0 {
		return
	}

	at := make(map[mer.Key]int, len(p))
	for i, k := range p {
		if _, seen := at[k]; !seen {
			at[k] = i
		}
	}

	for i, q := range s.paths {
		for j, k := range q {
			if pos, shared := at[k]; shared {
				long, short := join(q, j, p, pos)
				s.paths[i] = long
				if short.Edges() > 0 {
					s.branches = append(s.branches, short)
				}
				s.joins++
				return
			}
		}
	}

	s.paths = append(s.paths, p)
}

// join splits two paths that share a node, at i on old and j on add, into
// heads (start through the shared node) and tails (shared node through end).
// long is the longer head followed by the longer tail, old winning ties.
// short is the other head and tail, which is also a walk through the shared
// node. Between them, long and short walk every edge of old and add
func join(old Path, i int, add Path, j int) (long, short Path) {
	oldHead, addHead := old[:i+1], add[:j+1]
	oldTail, addTail := old[i:], add[j:]

	longHead, shortHead := oldHead, addHead
	if len(addHead) > len(oldHead) {
		longHead, shortHead = addHead, oldHead
	}

	longTail, shortTail := oldTail, addTail
	if len(addTail) > len(oldTail) {
		longTail, shortTail = addTail, oldTail
	}

	return concat(longHead, longTail[1:]), concat(shortHead, shortTail[1:])
}

// concat returns a new path of a followed by b
func concat(a, b Path) Path {
	p := make(Path, 0, len(a)+len(b))
	p = append(p, a...)
	return append(p, b...)
}

// insertCycle returns path with cycle walked at index i of path. The cycle
// is entered at its index at, which must be the same node as path[i], and
// walked around to just before that node again
func insertCycle(path Path, i int, cycle Path, at int) Path {
	p := make(Path, 0, len(path)+len(cycle))
	p = append(p, path[:i]...)
	p = append(p, cycle[at:]...)
	p = append(p, cycle[:at]...)
	return append(p, path[i:]...)
}

// cycleIndex finds, for any node, the cycles that walk through it
type cycleIndex struct {
	cycles  []Path
	spliced []bool

	// node to the ids of the cycles with it, ascending
	byNode map[mer.Key][]int

	// per cycle, node to its first position in the cycle
	pos []map[mer.Key]int
}

func newCycleIndex(cycles []Path) *cycleIndex {
	ci := &cycleIndex{
		cycles:  cycles,
		spliced: make([]bool, len(cycles)),
		byNode:  make(map[mer.Key][]int),
		pos:     make([]map[mer.Key]int, len(cycles)),
	}

	for id, c := range cycles {
		ci.pos[id] = make(map[mer.Key]int, len(c))
		for i, k := range c {
			if _, seen := ci.pos[id][k]; seen {
				continue
			}
			ci.pos[id][k] = i
			ci.byNode[k] = append(ci.byNode[k], id)
		}
	}
	return ci
}

// shared returns the first position i on p whose node is on an unspliced
// cycle, the first such cycle and the node's position on that cycle
func (ci *cycleIndex) shared(p Path) (i, id, at int, ok bool) {
	for pi, k := range p {
		for _, c := range ci.byNode[k] {
			if !ci.spliced[c] {
				return pi, c, ci.pos[c][k], true
			}
		}
	}
	return 0, 0, 0, false
}

// absorb splices every unspliced cycle that shares a node with p into p,
// including cycles that only touch p through a cycle spliced before them
func (ci *cycleIndex) absorb(p Path) (Path, int) {
	n := 0
	for {
		i, id, at, ok := ci.shared(p)
		if !ok {
			return p, n
		}
		p = insertCycle(p, i, ci.cycles[id], at)
		ci.spliced[id] = true
		n++
	}
}

// spliceCycles splices cycles into the paths they touch, in place. Cycles
// that touch no path are spliced into each other and returned as closed
// paths (ending on their first node), one per disconnected component
func spliceCycles(paths []Path, cycles []Path) (disconnected []Path, spliced int) {
	ci := newCycleIndex(cycles)

	for i := range paths {
		var n int
		paths[i], n = ci.absorb(paths[i])
		spliced += n
	}

	for id, c := range cycles {
		if ci.spliced[id] {
			continue
		}
		ci.spliced[id] = true

		host, n := ci.absorb(c)
		spliced += n
		disconnected = append(disconnected, concat(host, Path{host[0]}))
	}
	return
}
