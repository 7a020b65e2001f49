package api

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gyaneshwarpardhi/scandal/internal/analysis"
	"github.com/gyaneshwarpardhi/scandal/internal/config"
)

// Handler holds all HTTP handler dependencies.
type Handler struct {
	analyzer *analysis.Analyzer
	loader   *config.Loader
	logger   *slog.Logger
	mux      *http.ServeMux
}

// New creates an HTTP handler and registers all routes.
func New(a *analysis.Analyzer, loader *config.Loader, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{analyzer: a, loader: loader, logger: logger, mux: http.NewServeMux()}

	h.mux.HandleFunc("GET /v1/connectors", h.listConnectors)
	h.mux.HandleFunc("GET /v1/participants/{address}", h.participantStats)
	h.mux.HandleFunc("GET /v1/graph", h.graphSummary)
	h.mux.HandleFunc("GET /v1/graph/adjacency/{address}", h.adjacency)
	h.mux.HandleFunc("POST /v1/corpus/reload", h.reloadCorpus)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(logger, h.mux)
}

// snapshot writes 503 and returns nil until the first analysis finishes.
func (h *Handler) snapshot(w http.ResponseWriter) *analysis.Snapshot {
	s := h.analyzer.Snapshot()
	if s == nil {
		writeError(w, http.StatusServiceUnavailable, "analysis has not completed yet")
	}
	return s
}

// GET /v1/connectors
func (h *Handler) listConnectors(w http.ResponseWriter, r *http.Request) {
	s := h.snapshot(w)
	if s == nil {
		return
	}
	writeJSON(w, http.StatusOK, connectorsResponse{
		RunID:      s.RunID,
		Count:      len(s.Connectors()),
		Connectors: s.Connectors(),
	})
}

// GET /v1/participants/{address}: 404 when the address is unknown.
func (h *Handler) participantStats(w http.ResponseWriter, r *http.Request) {
	s := h.snapshot(w)
	if s == nil {
		return
	}
	addr := s.Normalize(r.PathValue("address"))
	st, found := s.Query(addr)
	if !found {
		writeError(w, http.StatusNotFound, "address ("+addr+") not found in the dataset")
		return
	}
	writeJSON(w, http.StatusOK, participantResponse{Address: addr, Stats: st})
}

// GET /v1/graph
func (h *Handler) graphSummary(w http.ResponseWriter, r *http.Request) {
	s := h.snapshot(w)
	if s == nil {
		return
	}
	writeJSON(w, http.StatusOK, graphResponse{
		RunID:      s.RunID,
		BuiltAt:    s.BuiltAt,
		Vertices:   s.Result.Vertices,
		Edges:      s.Result.Edges,
		Components: s.Result.Components,
		Connectors: len(s.Result.Connectors),
		Ingest:     s.Ingest,
	})
}

// GET /v1/graph/adjacency/{address}
func (h *Handler) adjacency(w http.ResponseWriter, r *http.Request) {
	s := h.snapshot(w)
	if s == nil {
		return
	}
	addr := s.Normalize(r.PathValue("address"))
	if !s.Graph().HasVertex(addr) {
		writeError(w, http.StatusNotFound, "address ("+addr+") not found in the dataset")
		return
	}
	writeJSON(w, http.StatusOK, adjacencyResponse{Address: addr, Neighbors: s.Neighbors(addr)})
}

// POST /v1/corpus/reload: re-read config and corpus, build a fresh graph.
// The config is refreshed without callbacks so the corpus is walked once.
func (h *Handler) reloadCorpus(w http.ResponseWriter, r *http.Request) {
	cfg := h.loader.Config()
	if fresh, err := h.loader.Refresh(); err != nil {
		h.logger.Warn("config reload failed, using current config", "err", err)
	} else {
		cfg = fresh
	}
	if err := config.Validate(cfg); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s, err := h.analyzer.Run(r.Context(), cfg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reloaded":   true,
		"run_id":     s.RunID,
		"vertices":   s.Result.Vertices,
		"connectors": len(s.Result.Connectors),
	})
}

// GET /healthz: always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz: 503 until a snapshot has been published.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	s := h.analyzer.Snapshot()
	if s == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "building"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready", "run_id": s.RunID})
}
