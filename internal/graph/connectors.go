package graph

import "sort"

// ConnectorResult is the outcome of one articulation-point pass.
type ConnectorResult struct {
	// Connectors holds every cut vertex, ascending.
	Connectors []string
	// Components is the number of connected components (DFS roots).
	Components int
	Vertices   int
	Edges      int
}

// FindConnectors returns the participants whose removal would split a
// connected communication cluster, in ascending order.
func FindConnectors(g *Graph) []string {
	return Articulation(g).Connectors
}

// Articulation runs a single depth-first pass over g, labelling each vertex
// with a discovery index and a low-link value, and classifies cut vertices:
//
//   - a non-root v is a cut vertex if some DFS child u has low[u] >= disc[v];
//   - a root is a cut vertex if it has two or more DFS children.
//
// Roots are taken in Vertices() order and neighbours in Neighbors() order, so
// the result is reproducible. The walk uses an explicit stack; its depth is
// bounded by the heap, not the goroutine stack.
func Articulation(g *Graph) *ConnectorResult {
	t := newTraversal(g)
	res := &ConnectorResult{
		Connectors: make([]string, 0),
		Vertices:   g.VertexCount(),
		Edges:      g.EdgeCount(),
	}
	for _, v := range g.Vertices() {
		if t.visited(v) {
			continue
		}
		t.walk(v)
		res.Components++
	}
	for v := range t.cut {
		res.Connectors = append(res.Connectors, v)
	}
	sort.Strings(res.Connectors)
	return res
}

// frame is one simulated call of the recursive DFS(v, parent).
type frame struct {
	vertex    string
	parent    string
	hasParent bool
	cursor    int    // next index into the neighbour list
	child     string // tree child whose subtree was just entered
	inChild   bool
	children  int
}

// traversal carries the state shared by every DFS tree of one pass:
// a single discovery counter and the disc/low maps.
type traversal struct {
	adj       map[string][]string
	discovery map[string]int
	low       map[string]int
	counter   int
	// cut is OR-accumulated: once a vertex qualifies through any child it
	// stays a connector.
	cut   map[string]bool
	stack []frame
}

func newTraversal(g *Graph) *traversal {
	n := g.VertexCount()
	adj := make(map[string][]string, n)
	for _, v := range g.Vertices() {
		adj[v] = g.Neighbors(v)
	}
	return &traversal{
		adj:       adj,
		discovery: make(map[string]int, n),
		low:       make(map[string]int, n),
		counter:   1,
		cut:       make(map[string]bool),
	}
}

func (t *traversal) visited(v string) bool {
	_, ok := t.discovery[v]
	return ok
}

func (t *traversal) enter(v, parent string, hasParent bool) {
	t.discovery[v] = t.counter
	t.low[v] = t.counter
	t.counter++
	t.stack = append(t.stack, frame{vertex: v, parent: parent, hasParent: hasParent})
}

func (t *traversal) walk(root string) {
	t.enter(root, "", false)
	for len(t.stack) > 0 {
		f := &t.stack[len(t.stack)-1]
		v := f.vertex

		if f.inChild {
			u := f.child
			f.inChild = false
			if t.discovery[v] <= t.low[u] {
				if f.hasParent {
					t.cut[v] = true
				}
			} else if t.low[u] < t.low[v] {
				t.low[v] = t.low[u]
			}
		}

		descended := false
		for nbrs := t.adj[v]; f.cursor < len(nbrs); {
			u := nbrs[f.cursor]
			f.cursor++
			if u == v || (f.hasParent && u == f.parent) {
				continue
			}
			if !t.visited(u) {
				f.children++
				f.child = u
				f.inChild = true
				// f is invalid once enter grows the stack.
				t.enter(u, v, true)
				descended = true
				break
			}
			if d := t.discovery[u]; d < t.low[v] {
				t.low[v] = d
			}
		}
		if descended {
			continue
		}

		if !f.hasParent && f.children >= 2 {
			t.cut[v] = true
		}
		t.stack = t.stack[:len(t.stack)-1]
	}
}
