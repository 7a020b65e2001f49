package report

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maps format names to writers.
// It is safe for concurrent reads; Register should only be called at startup.
type Registry struct {
	mu      sync.RWMutex
	writers map[string]Writer
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{writers: make(map[string]Writer)}
}

// DefaultRegistry has the text and json writers registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(TextWriter{})
	r.Register(JSONWriter{})
	return r
}

// Register adds a writer. Panics on duplicate format to surface misconfiguration early.
func (r *Registry) Register(w Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(w.Format())
	if _, exists := r.writers[key]; exists {
		panic(fmt.Sprintf("report registry: duplicate format %q", key))
	}
	r.writers[key] = w
}

// Get returns the writer for the given format.
func (r *Registry) Get(format string) (Writer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.writers[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("no report writer registered for format %q", format)
	}
	return w, nil
}

// Formats returns all registered format names, sorted.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.writers))
	for k := range r.writers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
