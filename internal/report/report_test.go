package report_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/scandal/internal/report"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	reg := report.DefaultRegistry()
	r := report.New("run-1", []string{"b@x.com", "c@x.com"})

	require.NoError(t, reg.WriteTo(&buf, "text", r))
	assert.Equal(t, "2\nb@x.com\nc@x.com\n", buf.String())
}

func TestTextFormat_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.DefaultRegistry().WriteTo(&buf, "TEXT", report.New("r", nil)))
	assert.Equal(t, "0\n", buf.String())
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	r := report.New("run-2", []string{"hub@x.com"})
	require.NoError(t, report.DefaultRegistry().WriteTo(&buf, "json", r))

	var got report.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "run-2", got.RunID)
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, []string{"hub@x.com"}, got.Connectors)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "connectors.txt")
	var display bytes.Buffer

	require.NoError(t, report.DefaultRegistry().WriteFile(path, "text", report.New("r", []string{"a", "b"}), &display))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2\na\nb\n", string(data))
	assert.Empty(t, display.String())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestWriteFile_ReadableMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "connectors.txt")
	require.NoError(t, report.DefaultRegistry().WriteFile(path, "text", report.New("r", []string{"a"}), nil))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWriteFile_DisplayStream(t *testing.T) {
	for _, path := range []string{"", "-"} {
		var display bytes.Buffer
		require.NoError(t, report.DefaultRegistry().WriteFile(path, "text", report.New("r", []string{"a"}), &display))
		assert.Equal(t, "1\na\n", display.String())
	}
}

func TestWriteFile_FailureKeepsResult(t *testing.T) {
	connectors := []string{"a", "b"}
	r := report.New("r", connectors)
	path := filepath.Join(t.TempDir(), "missing-dir", "connectors.txt")

	err := report.DefaultRegistry().WriteFile(path, "text", r, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write report")
	assert.Equal(t, []string{"a", "b"}, r.Connectors)
	assert.Equal(t, 2, r.Count)
}

func TestWriteTo_StreamError(t *testing.T) {
	err := report.DefaultRegistry().WriteTo(failingWriter{}, "text", report.New("r", []string{"a"}))
	require.ErrorContains(t, err, "disk full")
}

func TestRegistry(t *testing.T) {
	reg := report.DefaultRegistry()
	assert.Equal(t, []string{"json", "text"}, reg.Formats())

	_, err := reg.Get("xml")
	require.ErrorContains(t, err, `"xml"`)

	assert.Panics(t, func() { reg.Register(report.TextWriter{}) })
}
