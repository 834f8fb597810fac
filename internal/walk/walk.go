// Package walk is for decomposing a read graph into walks. Walks starting
// at nodes with more outgoing than incoming edges are found first and
// spliced together where they meet. The balanced edges left behind form
// closed walks (cycles) that are then spliced into the walks they touch.
package walk

import (
	"sync"

	"github.com/alberlin232/ShReGeAs/internal/graph"
	"github.com/alberlin232/ShReGeAs/internal/mer"
)

// Path is a walk through the graph, an ordered list of node keys. Each
// consecutive pair of keys is one consumed edge
type Path []mer.Key

// Edges is the number of edges walked by the path
func (p Path) Edges() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// closed returns whether the path ends where it started
func (p Path) closed() bool {
	return len(p) > 1 && p[0] == p[len(p)-1]
}

// follow walks from start, claiming the first unconsumed edge out of the
// current node until the current node has nothing left to claim
func follow(g *graph.Graph, start mer.Key) Path {
	p := Path{start}
	for cur := start; ; {
		h, ok := g.Take(cur)
		if !ok {
			return p
		}
		cur = g.Edge(h).Target
		p = append(p, cur)
	}
}

// starts hands out start nodes in ascending key order. A node is handed out
// for as long as ready is true for its degree. Once ready is false for a
// node it's skipped for good: walks only ever lower a node's out-degree
// relative to its in-degree
type starts struct {
	mu    sync.Mutex
	g     *graph.Graph
	keys  []mer.Key
	i     int
	ready func(graph.Degree) bool
}

func newStarts(g *graph.Graph, ready func(graph.Degree) bool) *starts {
	return &starts{g: g, keys: g.Keys(), ready: ready}
}

// next returns the next node to start a walk from
func (s *starts) next() (mer.Key, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for ; s.i < len(s.keys); s.i++ {
		if k := s.keys[s.i]; s.ready(s.g.Degree(k)) {
			return k, true
		}
	}
	return 0, false
}

// excess is ready for nodes with more edges out than in
func excess(d graph.Degree) bool {
	return d.Out > d.In
}

// unconsumed is ready for nodes with any edge left to walk
func unconsumed(d graph.Degree) bool {
	return d.Out > 0
}

// run starts workers that each repeatedly take a start node and follow a
// walk from it. Finished walks are handed to sink, which is only ever called
// from the calling goroutine, so sink owns whatever it mutates
func run(g *graph.Graph, s *starts, workers int, sink func(Path)) {
	if workers < 1 {
		workers = 1
	}

	walks := make(chan Path, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				start, ok := s.next()
				if !ok {
					return
				}
				walks <- follow(g, start)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(walks)
	}()

	for p := range walks {
		sink(p)
	}
}
