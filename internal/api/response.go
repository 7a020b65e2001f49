package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gyaneshwarpardhi/scandal/internal/analysis"
	"github.com/gyaneshwarpardhi/scandal/internal/graph"
)

type connectorsResponse struct {
	RunID      string   `json:"run_id"`
	Count      int      `json:"count"`
	Connectors []string `json:"connectors"`
}

type participantResponse struct {
	Address string `json:"address"`
	graph.Stats
}

type adjacencyResponse struct {
	Address   string   `json:"address"`
	Neighbors []string `json:"neighbors"`
}

type graphResponse struct {
	RunID      string               `json:"run_id"`
	BuiltAt    time.Time            `json:"built_at"`
	Vertices   int                  `json:"vertices"`
	Edges      int                  `json:"edges"`
	Components int                  `json:"components"`
	Connectors int                  `json:"connectors"`
	Ingest     analysis.IngestStats `json:"ingest"`
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the standard error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
