package graph

// Stats is the communication footprint of one participant.
//
// Sent-to and received-from are both derived from the undirected adjacency,
// so for any vertex without a self-loop they are equal.
type Stats struct {
	SentTo       int `json:"sent_to"`
	ReceivedFrom int `json:"received_from"`
	TeamSize     int `json:"team_size"`
}

// Query computes the footprint of id by scanning every adjacency set.
// found is false when id is not a vertex and nothing refers to it; that is a
// normal answer, not an error.
func Query(g *Graph, id string) (s Stats, found bool) {
	s.SentTo = g.Degree(id)

	team := make(map[string]struct{})
	for _, set := range g.adj {
		if _, ok := set[id]; !ok {
			continue
		}
		s.ReceivedFrom++
		for u := range set {
			team[u] = struct{}{}
		}
	}
	s.TeamSize = len(team)

	if s == (Stats{}) && !g.HasVertex(id) {
		return s, false
	}
	return s, true
}
