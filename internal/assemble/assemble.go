// Package assemble is for running reads through the whole pipeline: graph
// construction, decomposition into walks, contig assembly and merging
package assemble

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/alberlin232/ShReGeAs/internal/contig"
	"github.com/alberlin232/ShReGeAs/internal/graph"
	"github.com/alberlin232/ShReGeAs/internal/mer"
	"github.com/alberlin232/ShReGeAs/internal/walk"
)

var tracer = otel.Tracer("github.com/alberlin232/ShReGeAs/internal/assemble")

// Options for an assembly
type Options struct {
	// Workers is the number of goroutines walking the graph
	Workers int

	// Progress shows a progress bar on stderr while reads are loaded
	Progress bool

	// OnPass is called before every merge pass with the pass number and
	// the number of contigs going into it
	OnPass func(pass, size int)
}

// Stats are counts from every stage of an assembly
type Stats struct {
	Reads    int
	Rejected int
	Nodes    int
	Edges    int
	Paths    int
	Branches int
	Cycles   int
	Joins    int
	Spliced  int
	Walked   int
	Passes   int
	Contigs  int

	// time spent in each stage
	Build     time.Duration
	Decompose time.Duration
	Merge     time.Duration
}

// Build inserts every valid read into a new graph, using the read's index as
// its sequence id. Invalid reads are skipped and counted
func Build(reads []string, progress bool) (g *graph.Graph, rejected int) {
	g = graph.New()

	var bar *pb.ProgressBar
	if progress {
		bar = pb.Full.Start64(int64(len(reads)))
		defer bar.Finish()
	}

	for id, read := range reads {
		if bar != nil {
			bar.Increment()
		}

		prefix, suffix, err := mer.Split(read)
		if err == nil {
			err = g.Insert(prefix, suffix, id)
		}
		if err != nil {
			if !errors.Is(err, mer.ErrInvalidRead) {
				panic(err) // ids are unique indexes
			}
			log.WithField("id", id).Debugf("skipping read: %v", err)
			rejected++
		}
	}
	return
}

// Dump logs every node of g at debug level with its in and out degree and
// the nodes its edges lead to, as "<mer>x<edges>"
func Dump(g *graph.Graph) {
	if !log.IsLevelEnabled(log.DebugLevel) {
		return
	}

	for _, k := range g.Keys() {
		d := g.Degree(k)
		adj := g.Adjacent(k)
		to := make([]string, len(adj))
		for i, a := range adj {
			to[i] = fmt.Sprintf("%sx%d", a.Target, a.Count)
		}
		log.WithFields(log.Fields{
			"node": k.String(),
			"in":   d.In,
			"out":  d.Out,
			"to":   strings.Join(to, " "),
		}).Debug("graph node")
	}
}

// Walks turns every walk of a decomposition into a contig set
func Walks(r walk.Result) *contig.Set {
	set := contig.NewSet()
	for _, p := range r.All() {
		set.Add(contig.Assemble(p))
	}
	return set
}

// Assemble runs reads through the pipeline and returns the final contigs
func Assemble(ctx context.Context, reads []string, opts Options) (*contig.Set, Stats) {
	ctx, span := tracer.Start(ctx, "assemble.Assemble")
	defer span.End()

	stats := Stats{Reads: len(reads)}

	start := time.Now()
	_, build := tracer.Start(ctx, "assemble.build")
	g, rejected := Build(reads, opts.Progress)
	build.SetAttributes(attribute.Int("reads", len(reads)), attribute.Int("rejected", rejected))
	build.End()

	stats.Rejected = rejected
	stats.Nodes = g.NodeCount()
	stats.Edges = g.EdgeCount()
	stats.Build = time.Since(start)
	log.WithFields(log.Fields{
		"reads":    stats.Reads,
		"rejected": stats.Rejected,
		"nodes":    stats.Nodes,
		"edges":    stats.Edges,
		"elapsed":  stats.Build,
	}).Info("built graph")
	Dump(g)

	start = time.Now()
	r := walk.Decompose(ctx, g, walk.Options{Workers: opts.Workers})
	set := Walks(r)

	stats.Paths = len(r.Paths)
	stats.Branches = len(r.Branches)
	stats.Cycles = len(r.Cycles)
	stats.Joins = r.Joins
	stats.Spliced = r.Spliced
	stats.Walked = set.Len()
	stats.Decompose = time.Since(start)
	log.WithFields(log.Fields{
		"paths":    stats.Paths,
		"branches": stats.Branches,
		"cycles":   stats.Cycles,
		"contigs":  stats.Walked,
		"elapsed":  stats.Decompose,
	}).Info("decomposed graph")

	start = time.Now()
	_, merge := tracer.Start(ctx, "assemble.merge")
	final, passes := contig.Merge(set, opts.OnPass)
	merge.SetAttributes(attribute.Int("passes", passes), attribute.Int("contigs", final.Len()))
	merge.End()

	stats.Passes = passes
	stats.Contigs = final.Len()
	stats.Merge = time.Since(start)
	log.WithFields(log.Fields{
		"passes":  stats.Passes,
		"contigs": stats.Contigs,
		"elapsed": stats.Merge,
	}).Info("merged contigs")

	return final, stats
}
