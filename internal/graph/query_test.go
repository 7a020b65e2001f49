package graph_test

import (
	"testing"

	"github.com/gyaneshwarpardhi/scandal/internal/graph"
)

func TestQuery(t *testing.T) {
	path := buildGraph(t, [2]string{"A", "B"}, [2]string{"B", "C"}, [2]string{"C", "D"})

	cases := []struct {
		name      string
		g         *graph.Graph
		id        string
		want      graph.Stats
		wantFound bool
	}{
		{
			name:      "path endpoint",
			g:         path,
			id:        "A",
			want:      graph.Stats{SentTo: 1, ReceivedFrom: 1, TeamSize: 2},
			wantFound: true,
		},
		{
			// Vertices referring to B are A {B} and C {B, D}.
			name:      "path interior",
			g:         path,
			id:        "B",
			want:      graph.Stats{SentTo: 2, ReceivedFrom: 2, TeamSize: 2},
			wantFound: true,
		},
		{
			name:      "unknown",
			g:         path,
			id:        "nobody@nowhere.com",
			want:      graph.Stats{},
			wantFound: false,
		},
		{
			name:      "self-loop only",
			g:         buildGraph(t, [2]string{"me", "me"}),
			id:        "me",
			want:      graph.Stats{SentTo: 1, ReceivedFrom: 1, TeamSize: 1},
			wantFound: true,
		},
		{
			name: "star centre",
			g: buildGraph(t,
				[2]string{"c", "l1"}, [2]string{"c", "l2"}, [2]string{"c", "l3"}),
			id:        "c",
			want:      graph.Stats{SentTo: 3, ReceivedFrom: 3, TeamSize: 1},
			wantFound: true,
		},
		{
			name: "star leaf",
			g: buildGraph(t,
				[2]string{"c", "l1"}, [2]string{"c", "l2"}, [2]string{"c", "l3"}),
			id:        "l1",
			want:      graph.Stats{SentTo: 1, ReceivedFrom: 1, TeamSize: 3},
			wantFound: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, found := graph.Query(tc.g, tc.id)
			if found != tc.wantFound {
				t.Errorf("found = %v, want %v", found, tc.wantFound)
			}
			if got != tc.want {
				t.Errorf("Query(%q) = %+v, want %+v", tc.id, got, tc.want)
			}
		})
	}
}
