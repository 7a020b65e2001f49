// Package analysis runs the corpus → graph → connectors pipeline and holds
// the resulting read-only snapshot that queries are answered from.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gyaneshwarpardhi/scandal/internal/config"
	"github.com/gyaneshwarpardhi/scandal/internal/corpus"
	"github.com/gyaneshwarpardhi/scandal/internal/filter"
	"github.com/gyaneshwarpardhi/scandal/internal/graph"
	"github.com/gyaneshwarpardhi/scandal/internal/message"
	"github.com/gyaneshwarpardhi/scandal/internal/metrics"
)

var tracer = otel.Tracer("scandal/analysis")

// IngestStats describes how the corpus turned into edges.
type IngestStats struct {
	corpus.Stats
	Deliveries   int `json:"deliveries"`
	Filtered     int `json:"filtered"`
	FilterErrors int `json:"filter_errors"`
	Pairs        int `json:"pairs"`
}

// Analyzer owns the current Snapshot. Each Run builds a brand-new graph and
// swaps it in atomically; a published graph is never modified.
type Analyzer struct {
	snap   atomic.Pointer[Snapshot]
	logger *slog.Logger
}

// New creates an Analyzer with no snapshot. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// Snapshot returns the latest completed analysis, or nil before the first Run.
func (a *Analyzer) Snapshot() *Snapshot {
	return a.snap.Load()
}

// Publish makes s the current snapshot.
func (a *Analyzer) Publish(s *Snapshot) {
	a.snap.Store(s)
	metrics.GraphVertices.Set(float64(s.Result.Vertices))
	metrics.GraphEdges.Set(float64(s.Result.Edges))
	metrics.GraphComponents.Set(float64(s.Result.Components))
	metrics.Connectors.Set(float64(len(s.Result.Connectors)))
}

// Run reads the corpus described by cfg, builds the graph, finds connectors
// and publishes the result. On error the previous snapshot stays current.
func (a *Analyzer) Run(ctx context.Context, cfg *config.Config) (*Snapshot, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "analysis.Run",
		trace.WithAttributes(attribute.String("corpus.root", cfg.Corpus.Root)),
	)
	defer span.End()

	s, err := a.build(ctx, cfg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	s.Duration = time.Since(start)
	metrics.AnalysisDuration.Observe(s.Duration.Seconds())

	span.SetAttributes(
		attribute.String("run_id", s.RunID),
		attribute.Int("graph.vertices", s.Result.Vertices),
		attribute.Int("graph.edges", s.Result.Edges),
		attribute.Int("graph.components", s.Result.Components),
		attribute.Int("connectors", len(s.Result.Connectors)),
	)
	a.Publish(s)
	a.logger.Info("analysis complete",
		"run_id", s.RunID,
		"messages", s.Ingest.Messages,
		"skipped", s.Ingest.Skipped,
		"unreadable", s.Ingest.Unreadable,
		"filtered", s.Ingest.Filtered,
		"vertices", s.Result.Vertices,
		"edges", s.Result.Edges,
		"components", s.Result.Components,
		"connectors", len(s.Result.Connectors),
		"duration", s.Duration,
	)
	return s, nil
}

func (a *Analyzer) build(ctx context.Context, cfg *config.Config) (*Snapshot, error) {
	expr, err := filter.Parse(cfg.Filter)
	if err != nil {
		return nil, fmt.Errorf("filter %q: %w", cfg.Filter, err)
	}
	lowercase := cfg.Corpus.LowercaseAddresses()
	reader := corpus.NewReader(cfg.Corpus.Root, corpus.Options{
		SenderHeader:     cfg.Corpus.SenderHeader,
		RecipientHeaders: cfg.Corpus.RecipientHeaders,
		Lowercase:        lowercase,
	}, a.logger)

	g := graph.NewGraph()
	var ing IngestStats
	st, err := reader.Walk(ctx, func(m *message.Message) error {
		for _, d := range m.Deliveries() {
			ing.Deliveries++
			keep, err := filter.Evaluate(expr, d)
			if err != nil {
				ing.FilterErrors++
				metrics.DeliveriesFiltered.WithLabelValues("error").Inc()
				a.logger.Debug("filter evaluation failed", "path", m.Path, "err", err)
				continue
			}
			if !keep {
				ing.Filtered++
				metrics.DeliveriesFiltered.WithLabelValues("dropped").Inc()
				continue
			}
			p := d.Pair()
			g.AddEdge(p.Sender, p.Recipient)
			ing.Pairs++
		}
		return nil
	})
	ing.Stats = st
	metrics.MessagesRead.Add(float64(st.Messages))
	metrics.MessagesSkipped.WithLabelValues("no_participants").Add(float64(st.Skipped))
	metrics.MessagesSkipped.WithLabelValues("unreadable").Add(float64(st.Unreadable))
	metrics.PairsIngested.Add(float64(ing.Pairs))
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	_, span := tracer.Start(ctx, "graph.Articulation")
	res := graph.Articulation(g)
	span.End()

	s := newSnapshot(g, res, lowercase)
	s.Ingest = ing
	return s, nil
}

// Snapshot is one immutable analysis result.
type Snapshot struct {
	RunID     string                 `json:"run_id"`
	BuiltAt   time.Time              `json:"built_at"`
	Duration  time.Duration          `json:"duration"`
	Ingest    IngestStats            `json:"ingest"`
	Result    *graph.ConnectorResult `json:"-"`
	graph     *graph.Graph
	lowercase bool
}

func newSnapshot(g *graph.Graph, res *graph.ConnectorResult, lowercase bool) *Snapshot {
	return &Snapshot{
		RunID:     uuid.NewString(),
		BuiltAt:   time.Now().UTC(),
		Result:    res,
		graph:     g,
		lowercase: lowercase,
	}
}

// FromPairs analyzes an in-memory pair list, skipping the corpus reader.
func FromPairs(pairs []graph.Pair, lowercase bool) *Snapshot {
	norm := make([]graph.Pair, 0, len(pairs))
	for _, p := range pairs {
		norm = append(norm, graph.Pair{
			Sender:    corpus.Normalize(p.Sender, lowercase),
			Recipient: corpus.Normalize(p.Recipient, lowercase),
		})
	}
	g := graph.Build(norm)
	s := newSnapshot(g, graph.Articulation(g), lowercase)
	s.Ingest.Pairs = len(norm)
	return s
}

// Graph exposes the snapshot's graph. Callers must not mutate it.
func (s *Snapshot) Graph() *graph.Graph { return s.graph }

// Connectors returns the connector list, ascending.
func (s *Snapshot) Connectors() []string { return s.Result.Connectors }

// Normalize applies the same address normalization the corpus reader used.
func (s *Snapshot) Normalize(id string) string {
	return corpus.Normalize(id, s.lowercase)
}

// Query answers a participant query against the snapshot's graph.
func (s *Snapshot) Query(id string) (graph.Stats, bool) {
	st, found := graph.Query(s.graph, s.Normalize(id))
	if found {
		metrics.Queries.WithLabelValues("found").Inc()
	} else {
		metrics.Queries.WithLabelValues("not_found").Inc()
	}
	return st, found
}

// Neighbors returns the participants id has exchanged mail with.
func (s *Snapshot) Neighbors(id string) []string {
	return s.graph.Neighbors(s.Normalize(id))
}
