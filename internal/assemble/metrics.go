package assemble

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the counts of an assembly, in their own registry so they can
// be written out after a run
type Metrics struct {
	registry *prometheus.Registry

	reads    *prometheus.CounterVec
	graph    *prometheus.GaugeVec
	walks    *prometheus.GaugeVec
	passes   prometheus.Gauge
	contigs  prometheus.Gauge
	duration *prometheus.GaugeVec
}

// NewMetrics returns metrics registered on a new registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		reads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shregeas",
			Name:      "reads_total",
			Help:      "Reads loaded from the input, by outcome",
		}, []string{"outcome"}),
		graph: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "shregeas",
			Name:      "graph_size",
			Help:      "Nodes and edges in the read graph",
		}, []string{"kind"}),
		walks: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "shregeas",
			Name:      "walks",
			Help:      "Walks found while decomposing the graph, by kind",
		}, []string{"kind"}),
		passes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "shregeas",
			Name:      "merge_passes",
			Help:      "Merge passes run to reach a fixpoint",
		}),
		contigs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "shregeas",
			Name:      "contigs",
			Help:      "Contigs in the final set",
		}),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "shregeas",
			Name:      "stage_seconds",
			Help:      "Time spent in each stage of the assembly",
		}, []string{"stage"}),
	}

	m.registry.MustRegister(m.reads, m.graph, m.walks, m.passes, m.contigs, m.duration)
	return m
}

// Observe records the stats of an assembly
func (m *Metrics) Observe(s Stats) {
	m.reads.WithLabelValues("accepted").Add(float64(s.Reads - s.Rejected))
	m.reads.WithLabelValues("rejected").Add(float64(s.Rejected))

	m.graph.WithLabelValues("nodes").Set(float64(s.Nodes))
	m.graph.WithLabelValues("edges").Set(float64(s.Edges))

	m.walks.WithLabelValues("path").Set(float64(s.Paths))
	m.walks.WithLabelValues("branch").Set(float64(s.Branches))
	m.walks.WithLabelValues("cycle").Set(float64(s.Cycles))
	m.walks.WithLabelValues("join").Set(float64(s.Joins))
	m.walks.WithLabelValues("splice").Set(float64(s.Spliced))

	m.passes.Set(float64(s.Passes))
	m.contigs.Set(float64(s.Contigs))

	m.duration.WithLabelValues("build").Set(s.Build.Seconds())
	m.duration.WithLabelValues("decompose").Set(s.Decompose.Seconds())
	m.duration.WithLabelValues("merge").Set(s.Merge.Seconds())
}

// Gatherer returns the registry the metrics are on
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteFile writes the metrics to path in the Prometheus text format
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
