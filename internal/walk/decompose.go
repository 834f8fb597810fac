package walk

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/alberlin232/ShReGeAs/internal/graph"
)

var tracer = otel.Tracer("github.com/alberlin232/ShReGeAs/internal/walk")

// Options for Decompose
type Options struct {
	// Workers is the number of goroutines following walks. With one worker
	// the result only depends on the graph
	Workers int
}

// Result is the graph decomposed into walks. Between them, the walks in
// Paths, Branches and Cycles use every edge of the graph exactly once
type Result struct {
	// Paths are walks from excess-outflow nodes, joined where they met and
	// with every cycle they touch spliced in
	Paths []Path

	// Branches are the parts of joined walks that didn't fit into Paths
	Branches []Path

	// Cycles are closed walks that touch no path, one per component
	Cycles []Path

	// Joins is the number of walks joined into an earlier walk
	Joins int

	// Spliced is the number of cycles spliced into another walk
	Spliced int
}

// All returns every walk: paths, then branches, then cycles
func (r Result) All() []Path {
	all := make([]Path, 0, len(r.Paths)+len(r.Branches)+len(r.Cycles))
	all = append(all, r.Paths...)
	all = append(all, r.Branches...)
	return append(all, r.Cycles...)
}

// Decompose consumes every edge of the graph and returns the walks they form
//
// First, walks are followed from every node with more edges out than in until
// none is left. Each finished walk is joined with the first earlier walk it
// shares a node with.
//
// Then the remaining edges, which are balanced at every node, are followed
// as closed walks and spliced into the walks from the first phase at their
// first shared node.
func Decompose(ctx context.Context, g *graph.Graph, opts Options) Result {
	ctx, span := tracer.Start(ctx, "walk.Decompose", trace.WithAttributes(
		attribute.Int("edges", g.EdgeCount()),
		attribute.Int("workers", opts.Workers),
	))
	defer span.End()

	set := &pathSet{}

	_, open := tracer.Start(ctx, "walk.paths")
	run(g, newStarts(g, excess), opts.Workers, set.add)
	open.SetAttributes(attribute.Int("paths", len(set.paths)), attribute.Int("joins", set.joins))
	open.End()

	_, closed := tracer.Start(ctx, "walk.cycles")
	var cycles []Path
	run(g, newStarts(g, unconsumed), opts.Workers, func(p Path) {
		if p.closed() {
			cycles = append(cycles, p[:len(p)-1])
			return
		}
		// only when workers split a cycle between them
		set.add(p)
	})
	closed.SetAttributes(attribute.Int("cycles", len(cycles)))
	closed.End()

	_, splice := tracer.Start(ctx, "walk.splice")
	all := make([]Path, 0, len(set.paths)+len(set.branches))
	all = append(append(all, set.paths...), set.branches...)
	disconnected, spliced := spliceCycles(all, cycles)
	splice.SetAttributes(attribute.Int("spliced", spliced), attribute.Int("disconnected", len(disconnected)))
	splice.End()

	if left := g.Unconsumed(); left > 0 {
		panic(fmt.Sprintf("walk: %d edges left unconsumed after decomposition", left))
	}

	log.WithFields(log.Fields{
		"paths":    len(set.paths),
		"branches": len(set.branches),
		"cycles":   len(cycles),
		"spliced":  spliced,
	}).Debug("decomposed graph")

	return Result{
		Paths:    all[:len(set.paths):len(set.paths)],
		Branches: all[len(set.paths):],
		Cycles:   disconnected,
		Joins:    set.joins,
		Spliced:  spliced,
	}
}
