// Package report renders the connector list. The set is always fully
// computed before any write starts, so an I/O failure here never touches it.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gyaneshwarpardhi/scandal/internal/metrics"
)

// Report is the persisted view of one connector pass.
type Report struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Count       int       `json:"count"`
	Connectors  []string  `json:"connectors"`
}

// New wraps a connector list.
func New(runID string, connectors []string) *Report {
	return &Report{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Count:       len(connectors),
		Connectors:  connectors,
	}
}

// Writer renders a Report in one format.
type Writer interface {
	// Format returns the key this writer is registered under.
	Format() string
	Write(w io.Writer, r *Report) error
}

// TextWriter writes the count on the first line, then one connector per line.
type TextWriter struct{}

func (TextWriter) Format() string { return "text" }

func (TextWriter) Write(w io.Writer, r *Report) error {
	if _, err := fmt.Fprintln(w, len(r.Connectors)); err != nil {
		return err
	}
	for _, c := range r.Connectors {
		if _, err := fmt.Fprintln(w, c); err != nil {
			return err
		}
	}
	return nil
}

// JSONWriter writes the whole Report as an indented JSON object.
type JSONWriter struct{}

func (JSONWriter) Format() string { return "json" }

func (JSONWriter) Write(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteTo renders r to w.
func (reg *Registry) WriteTo(w io.Writer, format string, r *Report) error {
	wr, err := reg.Get(format)
	if err != nil {
		return err
	}
	if err := wr.Write(w, r); err != nil {
		metrics.ReportWrites.WithLabelValues(format, "error").Inc()
		return fmt.Errorf("write %s report: %w", format, err)
	}
	metrics.ReportWrites.WithLabelValues(format, "success").Inc()
	return nil
}

// WriteFile renders r to path, or to display when path is "" or "-". The
// file is written beside its destination and renamed into place, so a failed
// write leaves any previous report intact.
func (reg *Registry) WriteFile(path, format string, r *Report, display io.Writer) error {
	if path == "" || path == "-" {
		return reg.WriteTo(display, format, r)
	}
	wr, err := reg.Get(format)
	if err != nil {
		return err
	}

	fail := func(err error) error {
		metrics.ReportWrites.WithLabelValues(format, "error").Inc()
		return fmt.Errorf("write report %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".connectors-*")
	if err != nil {
		return fail(err)
	}
	defer os.Remove(tmp.Name())

	if err := wr.Write(tmp, r); err != nil {
		tmp.Close()
		return fail(err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		return fail(err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fail(err)
	}
	metrics.ReportWrites.WithLabelValues(format, "success").Inc()
	return nil
}
