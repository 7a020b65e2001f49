package graph

// Pair is one sender → recipient observation taken from a message header.
// Direction is dropped once it reaches the graph.
type Pair struct {
	Sender    string
	Recipient string
}

// Build constructs a Graph from parsed pairs. Pairs with an empty endpoint
// are ignored; the corpus reader never produces them, but callers feeding
// pairs by hand might.
func Build(pairs []Pair) *Graph {
	g := NewGraph()
	for _, p := range pairs {
		if p.Sender == "" || p.Recipient == "" {
			continue
		}
		g.AddEdge(p.Sender, p.Recipient)
	}
	return g
}
