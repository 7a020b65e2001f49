package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesRead = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scandal_messages_read_total",
		Help: "Total number of mail files parsed into messages with a sender and recipients.",
	})

	MessagesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scandal_messages_skipped_total",
		Help: "Total number of corpus files not turned into edges, labelled by reason.",
	}, []string{"reason"})

	DeliveriesFiltered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scandal_deliveries_filtered_total",
		Help: "Sender/recipient pairs dropped by the filter expression, labelled by outcome.",
	}, []string{"outcome"})

	PairsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scandal_pairs_ingested_total",
		Help: "Total number of sender/recipient pairs fed to the graph builder.",
	})

	GraphVertices = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scandal_graph_vertices",
		Help: "Participants in the current communication graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scandal_graph_edges",
		Help: "Undirected edges in the current communication graph.",
	})

	GraphComponents = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scandal_graph_components",
		Help: "Connected components in the current communication graph.",
	})

	Connectors = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scandal_connectors",
		Help: "Articulation points found in the current communication graph.",
	})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scandal_analysis_duration_seconds",
		Help:    "Wall time of a full corpus read, graph build and connector pass.",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
	})

	Queries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scandal_queries_total",
		Help: "Participant queries answered, labelled by result.",
	}, []string{"result"})

	ReportWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scandal_report_writes_total",
		Help: "Connector report writes, labelled by format and status.",
	}, []string{"format", "status"})
)
