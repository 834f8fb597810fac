// Package graph is for the de Bruijn graph of reads. Nodes are mers, keyed by
// their mer.Key, and every accepted read is a directed edge from its prefix
// mer to its suffix mer.
//
// All node, edge and degree storage lives in two slices owned by the Graph.
// Edges are referenced by their Handle, an index into the edge slice, and
// nodes are resolved from keys through a single map. The Graph is built
// sequentially with Insert. After that, Claim and Take are safe to call from
// any number of goroutines: each edge can be claimed exactly once.
package graph

import (
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/alberlin232/ShReGeAs/internal/mer"
)

var (
	// ErrInvalidRead is returned when either end of an edge is mer.Invalid
	ErrInvalidRead = mer.ErrInvalidRead

	// ErrDuplicateID is returned when a sequence id is inserted twice
	ErrDuplicateID = errors.New("duplicate sequence id")
)

// Handle is the index of an edge in the graph
type Handle int

// Edge is a read-only view of a single edge
type Edge struct {
	// ID is the sequence id of the read the edge came from
	ID int

	// Source is the read's prefix mer
	Source mer.Key

	// Target is the read's suffix mer
	Target mer.Key

	// Consumed is whether the edge has been claimed by a walk
	Consumed bool
}

// Degree is the count of unclaimed edges into and out of a node
type Degree struct {
	In  int
	Out int
}

// node is a single mer in the graph
type node struct {
	key mer.Key

	in  atomic.Int32
	out atomic.Int32

	// edges leaving this node, in insertion order
	edges []Handle

	// index into edges before which every edge has been consumed
	cursor atomic.Int32
}

// edge is a single read in the graph
type edge struct {
	id       int
	source   int
	target   int
	consumed atomic.Bool
}

// Graph is a de Bruijn graph of mers and reads
type Graph struct {
	nodes []node
	edges []edge

	// index from mer key to node index
	index map[mer.Key]int

	// sequence ids already inserted
	ids map[int]struct{}

	// sorted keys, reset on every new node
	keys []mer.Key
}

// New returns an empty graph
func New() *Graph {
	return &Graph{
		index: make(map[mer.Key]int),
		ids:   make(map[int]struct{}),
	}
}

// Insert adds an edge for the read with the passed sequence id, creating the
// prefix and suffix nodes if they don't exist yet. Nothing is changed if
// either key is mer.Invalid or the id was already inserted
func (g *Graph) Insert(prefix, suffix mer.Key, id int) error {
	if prefix == mer.Invalid || suffix == mer.Invalid {
		return fmt.Errorf("%w: read %d has an invalid mer", ErrInvalidRead, id)
	}
	if _, seen := g.ids[id]; seen {
		return fmt.Errorf("%w: %d", ErrDuplicateID, id)
	}

	src := g.add(prefix)
	dst := g.add(suffix)

	h := Handle(len(g.edges))
	g.edges = append(g.edges, edge{id: id, source: src, target: dst})
	g.ids[id] = struct{}{}

	g.nodes[src].edges = append(g.nodes[src].edges, h)
	g.nodes[src].out.Add(1)
	g.nodes[dst].in.Add(1)

	return nil
}

// add returns the index of the node with key k, creating it if needed
func (g *Graph) add(k mer.Key) int {
	if i, ok := g.index[k]; ok {
		return i
	}

	i := len(g.nodes)
	g.nodes = append(g.nodes, node{key: k})
	g.index[k] = i
	g.keys = nil
	return i
}

// node returns the node for a key. Asking for a key that isn't in the graph
// is a bug in the caller
func (g *Graph) node(k mer.Key) *node {
	i, ok := g.index[k]
	if !ok {
		panic(fmt.Sprintf("graph: no node for key %d", k))
	}
	return &g.nodes[i]
}

// edge returns the edge for a handle
func (g *Graph) edge(h Handle) *edge {
	if h < 0 || int(h) >= len(g.edges) {
		panic(fmt.Sprintf("graph: edge handle %d out of range [0, %d)", h, len(g.edges)))
	}
	return &g.edges[h]
}

// Has returns whether the key is a node in the graph
func (g *Graph) Has(k mer.Key) bool {
	_, ok := g.index[k]
	return ok
}

// Keys returns every node key in ascending order
func (g *Graph) Keys() []mer.Key {
	if g.keys == nil {
		keys := make([]mer.Key, 0, len(g.nodes))
		for i := range g.nodes {
			keys = append(keys, g.nodes[i].key)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		g.keys = keys
	}
	return g.keys
}

// Out returns the handles of the edges leaving a node in insertion order.
// The slice is owned by the graph and must not be modified
func (g *Graph) Out(k mer.Key) []Handle {
	return g.node(k).edges
}

// Adjacency is a node reached from another and the number of edges to it
type Adjacency struct {
	Target mer.Key
	Count  int
}

// Adjacent returns the nodes that edges leaving k lead to, with the number
// of edges to each, in the order each target was first inserted
func (g *Graph) Adjacent(k mer.Key) []Adjacency {
	var adj []Adjacency
	at := make(map[int]int)
	for _, h := range g.node(k).edges {
		t := g.edge(h).target
		if i, ok := at[t]; ok {
			adj[i].Count++
			continue
		}
		at[t] = len(adj)
		adj = append(adj, Adjacency{Target: g.nodes[t].key, Count: 1})
	}
	return adj
}

// Edge returns a snapshot of the edge with handle h
func (g *Graph) Edge(h Handle) Edge {
	e := g.edge(h)
	return Edge{
		ID:       e.id,
		Source:   g.nodes[e.source].key,
		Target:   g.nodes[e.target].key,
		Consumed: e.consumed.Load(),
	}
}

// Degree returns the current in and out counts of a node
func (g *Graph) Degree(k mer.Key) Degree {
	n := g.node(k)
	return Degree{In: int(n.in.Load()), Out: int(n.out.Load())}
}

// NodeCount is the number of nodes in the graph
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount is the number of edges (accepted reads) in the graph
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Totals returns the sum of in and out counts over every node
func (g *Graph) Totals() (in, out int) {
	for i := range g.nodes {
		in += int(g.nodes[i].in.Load())
		out += int(g.nodes[i].out.Load())
	}
	return
}

// Unconsumed returns the number of edges that haven't been claimed
func (g *Graph) Unconsumed() int {
	count := 0
	for i := range g.edges {
		if !g.edges[i].consumed.Load() {
			count++
		}
	}
	return count
}

// Claim marks an edge as consumed. Only the first caller for an edge gets
// true back, and only that caller's claim decrements the degree counts of
// the edge's source and target
func (g *Graph) Claim(h Handle) bool {
	e := g.edge(h)
	if !e.consumed.CompareAndSwap(false, true) {
		return false
	}

	src, dst := &g.nodes[e.source], &g.nodes[e.target]
	if out := src.out.Add(-1); out < 0 {
		panic(fmt.Sprintf("graph: out-degree of %s went negative (%d)", src.key, out))
	}
	if in := dst.in.Add(-1); in < 0 {
		panic(fmt.Sprintf("graph: in-degree of %s went negative (%d)", dst.key, in))
	}
	return true
}

// Take claims the first unconsumed edge leaving node k, in insertion order,
// and returns it. ok is false once every edge leaving k is consumed
func (g *Graph) Take(k mer.Key) (h Handle, ok bool) {
	n := g.node(k)

	for i := int(n.cursor.Load()); i < len(n.edges); i++ {
		h = n.edges[i]
		claimed := g.Claim(h)

		// every edge up to and including i is consumed now
		for {
			c := n.cursor.Load()
			if int(c) > i || n.cursor.CompareAndSwap(c, int32(i+1)) {
				break
			}
		}

		if claimed {
			return h, true
		}
	}
	return 0, false
}
