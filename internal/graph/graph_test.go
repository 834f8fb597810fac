package graph

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/alberlin232/ShReGeAs/internal/mer"
)

// build a graph from reads, failing on any rejected read
func build(t *testing.T, reads ...string) *Graph {
	t.Helper()

	g := New()
	for i, r := range reads {
		p, s, err := mer.Split(r)
		if err != nil {
			t.Fatal(err)
		}
		if err := g.Insert(p, s, i); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

const (
	m1 = "AAAAAAAAAAAAAAA"
	m2 = "CCCCCCCCCCCCCCC"
	m3 = "GGGGGGGGGGGGGGG"
	m4 = "TTTTTTTTTTTTTTT"
)

func TestGraph_Insert(t *testing.T) {
	g := build(t, m1+m2, m2+m3, m2+m4, m1+m2)

	if g.NodeCount() != 4 {
		t.Errorf("NodeCount() = %d, want 4", g.NodeCount())
	}
	if g.EdgeCount() != 4 {
		t.Errorf("EdgeCount() = %d, want 4", g.EdgeCount())
	}

	in, out := g.Totals()
	if in != g.EdgeCount() || out != g.EdgeCount() {
		t.Errorf("Totals() = %d, %d, want both %d", in, out, g.EdgeCount())
	}

	tests := []struct {
		name string
		mer  string
		want Degree
	}{
		{"source with a repeated read", m1, Degree{In: 0, Out: 2}},
		{"branching node", m2, Degree{In: 2, Out: 2}},
		{"sink", m3, Degree{In: 1, Out: 0}},
		{"other sink", m4, Degree{In: 1, Out: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Degree(mer.Encode(tt.mer)); got != tt.want {
				t.Errorf("Degree(%s) = %+v, want %+v", tt.mer, got, tt.want)
			}
		})
	}

	// adjacency is kept in insertion order
	var targets []mer.Key
	for _, h := range g.Out(mer.Encode(m2)) {
		targets = append(targets, g.Edge(h).Target)
	}
	if want := []mer.Key{mer.Encode(m3), mer.Encode(m4)}; !reflect.DeepEqual(targets, want) {
		t.Errorf("Out(m2) targets = %v, want %v", targets, want)
	}
}

func TestGraph_Insert_rejected(t *testing.T) {
	g := New()

	if err := g.Insert(mer.Invalid, mer.Encode(m1), 0); !errors.Is(err, ErrInvalidRead) {
		t.Errorf("invalid prefix err = %v", err)
	}
	if err := g.Insert(mer.Encode(m1), mer.Invalid, 1); !errors.Is(err, ErrInvalidRead) {
		t.Errorf("invalid suffix err = %v", err)
	}
	if g.NodeCount() != 0 || g.EdgeCount() != 0 || g.Has(mer.Encode(m1)) {
		t.Fatalf("rejected reads changed the graph: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}

	if err := g.Insert(mer.Encode(m1), mer.Encode(m2), 7); err != nil {
		t.Fatal(err)
	}
	if err := g.Insert(mer.Encode(m2), mer.Encode(m3), 7); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("duplicate id err = %v", err)
	}
	if g.EdgeCount() != 1 || g.Has(mer.Encode(m3)) {
		t.Error("duplicate id changed the graph")
	}
}

func TestGraph_Keys(t *testing.T) {
	g := build(t, m4+m3, m2+m1)

	want := []mer.Key{mer.Encode(m1), mer.Encode(m2), mer.Encode(m3), mer.Encode(m4)}
	if got := g.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestGraph_Claim(t *testing.T) {
	g := build(t, m1+m2)

	if !g.Claim(0) {
		t.Fatal("first claim failed")
	}
	if g.Claim(0) {
		t.Fatal("second claim succeeded")
	}
	if d := g.Degree(mer.Encode(m1)); d.Out != 0 {
		t.Errorf("source out-degree = %d after claim", d.Out)
	}
	if d := g.Degree(mer.Encode(m2)); d.In != 0 {
		t.Errorf("target in-degree = %d after claim", d.In)
	}
	if !g.Edge(0).Consumed || g.Unconsumed() != 0 {
		t.Error("edge not marked consumed")
	}
}

func TestGraph_Take(t *testing.T) {
	g := build(t, m1+m2, m1+m3, m1+m4)
	k := mer.Encode(m1)

	var got []int
	for {
		h, ok := g.Take(k)
		if !ok {
			break
		}
		got = append(got, g.Edge(h).ID)
	}

	if want := []int{0, 1, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("Take order = %v, want %v", got, want)
	}
}

func TestGraph_Adjacent(t *testing.T) {
	g := build(t, m1+m2, m1+m3, m1+m2, m2+m2)

	tests := []struct {
		name string
		key  string
		want []Adjacency
	}{
		{
			"multiple edges to one target",
			m1,
			[]Adjacency{{mer.Encode(m2), 2}, {mer.Encode(m3), 1}},
		},
		{
			"self loop",
			m2,
			[]Adjacency{{mer.Encode(m2), 1}},
		},
		{
			"no edges out",
			m3,
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Adjacent(mer.Encode(tt.key)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Adjacent() = %v, want %v", got, tt.want)
			}
		})
	}
}

// every edge is claimed exactly once no matter how many goroutines race for it
func TestGraph_Take_concurrent(t *testing.T) {
	g := New()
	src := mer.Encode(m1)
	for i := 0; i < 1000; i++ {
		if err := g.Insert(src, mer.Key(i), i); err != nil {
			t.Fatal(err)
		}
	}

	var mu sync.Mutex
	seen := make(map[int]int)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				h, ok := g.Take(src)
				if !ok {
					return
				}
				mu.Lock()
				seen[g.Edge(h).ID]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != 1000 {
		t.Errorf("%d edges claimed, want 1000", len(seen))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("edge %d claimed %d times", id, n)
		}
	}
	if d := g.Degree(src); d.Out != 0 {
		t.Errorf("out-degree = %d after draining", d.Out)
	}
}

func TestGraph_unknownNode(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected a panic for an unknown node")
		}
	}()
	New().Degree(mer.Encode(m1))
}
