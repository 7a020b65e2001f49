package graph

import "sort"

// Graph is an undirected adjacency structure keyed by participant address.
// Every address that appears in an adjacency set is itself a key, and
// b ∈ adj[a] iff a ∈ adj[b]. Only AddEdge mutates it; once built it is
// treated as read-only.
type Graph struct {
	adj map[string]map[string]struct{} // vertex → neighbour set
}

// NewGraph allocates an empty Graph.
func NewGraph() *Graph {
	return &Graph{adj: make(map[string]map[string]struct{})}
}

// AddEdge records that sender and recipient exchanged at least one message.
// Missing endpoints are created. Repeated calls are no-ops, and a self-loop
// (sender == recipient) is stored as-is.
func (g *Graph) AddEdge(sender, recipient string) {
	g.ensure(sender)[recipient] = struct{}{}
	g.ensure(recipient)[sender] = struct{}{}
}

func (g *Graph) ensure(v string) map[string]struct{} {
	set, ok := g.adj[v]
	if !ok {
		set = make(map[string]struct{})
		g.adj[v] = set
	}
	return set
}

// Neighbors returns the sorted adjacency set of v.
// Unknown vertices yield an empty, non-nil slice.
func (g *Graph) Neighbors(v string) []string {
	set := g.adj[v]
	out := make([]string, 0, len(set))
	for u := range set {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// Adjacent reports whether u is in v's adjacency set.
func (g *Graph) Adjacent(v, u string) bool {
	_, ok := g.adj[v][u]
	return ok
}

// Degree returns the size of v's adjacency set (0 for unknown vertices).
func (g *Graph) Degree(v string) int {
	return len(g.adj[v])
}

// HasVertex reports whether v is known.
func (g *Graph) HasVertex(v string) bool {
	_, ok := g.adj[v]
	return ok
}

// Vertices returns every known vertex in ascending order.
func (g *Graph) Vertices() []string {
	out := make([]string, 0, len(g.adj))
	for v := range g.adj {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int {
	return len(g.adj)
}

// EdgeCount returns the number of distinct undirected edges. A self-loop
// counts once.
func (g *Graph) EdgeCount() int {
	ends, loops := 0, 0
	for v, set := range g.adj {
		ends += len(set)
		if _, ok := set[v]; ok {
			loops++
		}
	}
	return (ends-loops)/2 + loops
}
