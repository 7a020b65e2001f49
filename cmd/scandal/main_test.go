package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupWorkspace writes a path-shaped corpus a-b-c-d and a config pointing at it.
func setupWorkspace(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	root := filepath.Join(dir, "maildir")
	msgs := [][2]string{
		{"a@x.com", "b@x.com"},
		{"b@x.com", "c@x.com"},
		{"c@x.com", "d@x.com"},
	}
	for i, m := range msgs {
		sent := filepath.Join(root, m[0], "sent")
		require.NoError(t, os.MkdirAll(sent, 0o755))
		body := fmt.Sprintf("Message-ID: <%d@x>\r\nFrom: %s\r\nTo: %s\r\nSubject: s\r\n\r\nhi\r\n", i, m[0], m[1])
		require.NoError(t, os.WriteFile(filepath.Join(sent, fmt.Sprintf("%d.", i+1)), []byte(body), 0o600))
	}
	cfg := fmt.Sprintf("version: v1\ncorpus:\n  root: %q\nlog:\n  level: error\n%s", root, extra)
	path := filepath.Join(dir, "scandal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out, &errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestConnectors_Stdout(t *testing.T) {
	cfg := setupWorkspace(t, "")
	out, _, err := execute(t, "", "connectors", "-c", cfg)
	require.NoError(t, err)
	assert.Equal(t, "2\nb@x.com\nc@x.com\n", out)
}

func TestConnectors_FileAndFormat(t *testing.T) {
	cfg := setupWorkspace(t, "")
	dest := filepath.Join(t.TempDir(), "out.json")

	out, _, err := execute(t, "", "connectors", "-c", cfg, "--out", dest, "--format", "json")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"count": 2`)
	assert.Contains(t, string(data), `"b@x.com"`)
}

func TestConnectors_UnknownFormat(t *testing.T) {
	cfg := setupWorkspace(t, "")
	_, errOut, err := execute(t, "", "connectors", "-c", cfg, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, errOut, "xml")
}

func TestQuery_Args(t *testing.T) {
	cfg := setupWorkspace(t, "")
	out, _, err := execute(t, "", "query", "-c", cfg, "B@X.COM", "zed@x.com")
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		"* B@X.COM has sent messages to 2 others",
		"* B@X.COM has received messages from 2 others",
		"* B@X.COM is in a team with 2 individuals",
		"Email address (zed@x.com) not found in the dataset.",
		"",
	}, "\n"), out)
}

func TestQuery_Interactive(t *testing.T) {
	cfg := setupWorkspace(t, "")
	out, _, err := execute(t, "a@x.com\n\nexit\nc@x.com\n", "query", "-c", cfg)
	require.NoError(t, err)

	assert.Contains(t, out, "* a@x.com has sent messages to 1 others")
	assert.Contains(t, out, "* a@x.com is in a team with 2 individuals")
	assert.NotContains(t, out, "c@x.com", "input after EXIT must be ignored")
	assert.NotContains(t, out, promptText, "no prompt without a terminal")
}

func TestRun_ReportThenLoop(t *testing.T) {
	cfg := setupWorkspace(t, "")
	out, _, err := execute(t, "d@x.com\n", "run", "-c", cfg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "2\nb@x.com\nc@x.com\n"), out)
	assert.Contains(t, out, "* d@x.com has received messages from 1 others")
}

func TestRun_ReportFailureStillAnswers(t *testing.T) {
	cfg := setupWorkspace(t, "")
	bad := filepath.Join(t.TempDir(), "missing", "dir", "out.txt")
	out, errOut, err := execute(t, "a@x.com\n", "run", "-c", cfg, "--out", bad)
	require.NoError(t, err)
	assert.Contains(t, errOut, "warning:")
	assert.True(t, strings.HasPrefix(out, "2\nb@x.com\nc@x.com\n"), out)
	assert.Contains(t, out, "* a@x.com has sent messages to 1 others")
}

func TestRun_PrintsAndSaves(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "connectors.txt")
	cfg := setupWorkspace(t, fmt.Sprintf("report:\n  path: %q\n", dest))
	out, _, err := execute(t, "EXIT\n", "run", "-c", cfg)
	require.NoError(t, err)
	assert.Equal(t, "2\nb@x.com\nc@x.com\n", out)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "2\nb@x.com\nc@x.com\n", string(data))
}

func TestQuery_InputLineTooLong(t *testing.T) {
	cfg := setupWorkspace(t, "")
	long := strings.Repeat("x", 70*1024) + "@x.com\n"
	_, errOut, err := execute(t, long, "query", "-c", cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, bufio.ErrTooLong)
	assert.Contains(t, errOut, "error: read query input")
}

func TestGraph(t *testing.T) {
	cfg := setupWorkspace(t, "")
	out, _, err := execute(t, "", "graph", "-c", cfg)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com: b@x.com\nb@x.com: a@x.com c@x.com\nc@x.com: b@x.com d@x.com\nd@x.com: c@x.com\n", out)
}

func TestFilterFromConfig(t *testing.T) {
	cfg := setupWorkspace(t, "filter: 'sender != \"c@x.com\"'\n")
	out, _, err := execute(t, "", "connectors", "-c", cfg)
	require.NoError(t, err)
	assert.Equal(t, "1\nb@x.com\n", out)
}

func TestCorpusOverride(t *testing.T) {
	cfg := setupWorkspace(t, "")
	empty := t.TempDir()
	out, _, err := execute(t, "", "connectors", "-c", cfg, "--corpus", empty)
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)
}

func TestMissingConfig(t *testing.T) {
	_, errOut, err := execute(t, "", "connectors", "-c", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, errOut, "error:")
}
