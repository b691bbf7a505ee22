// Package subgraph builds the read-only views handed to the graph renderer.
package subgraph

import (
	"hash/fnv"

	"github.com/agenthands/deepmemory/internal/core/model"
)

// DefaultSeed is the layout seed used when no center is selected.
const DefaultSeed = 42

type Request struct {
	Center string
	Hops   int
	// Seed is passed through to the renderer's layout; extraction ignores it.
	Seed int64
}

type View struct {
	model.Graph
	Center string `json:"center,omitempty"`
	Hops   int    `json:"hops"`
	Seed   int64  `json:"seed"`
	// Focused is false when the full graph was returned, including the case
	// of a center that no longer exists.
	Focused bool `json:"focused"`
}

// Extract returns the k-hop neighbourhood of req.Center. Without a center, or
// with a center that is not among nodes, the full graph comes back unchanged.
//
// With Hops == 1 only edges incident to the center are listed, even though
// edges between two neighbours are part of the induced subgraph.
func Extract(nodes []model.Node, edges []model.Edge, req Request) View {
	view := View{
		Graph:  model.Graph{Nodes: nodes, Edges: edges},
		Center: req.Center,
		Hops:   req.Hops,
		Seed:   req.Seed,
	}
	if req.Center == "" {
		return view
	}

	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n.ID] = true
	}
	if !known[req.Center] {
		return view
	}

	hops := req.Hops
	if hops < 0 {
		hops = 0
	}

	adj := make(map[string][]string)
	for _, e := range edges {
		if !known[e.Source] || !known[e.Target] || e.Source == e.Target {
			continue
		}
		adj[e.Source] = append(adj[e.Source], e.Target)
		adj[e.Target] = append(adj[e.Target], e.Source)
	}

	within := reachable(adj, req.Center, hops)

	sub := model.Graph{Nodes: []model.Node{}, Edges: []model.Edge{}}
	for _, n := range nodes {
		if within[n.ID] {
			sub.Nodes = append(sub.Nodes, n)
		}
	}
	for _, e := range edges {
		if !within[e.Source] || !within[e.Target] {
			continue
		}
		if hops == 1 && !e.Touches(req.Center) {
			continue
		}
		sub.Edges = append(sub.Edges, e)
	}

	view.Graph = sub
	view.Hops = hops
	view.Focused = true
	return view
}

// reachable runs a breadth-first search limited to maxDepth hops.
func reachable(adj map[string][]string, start string, maxDepth int) map[string]bool {
	seen := map[string]bool{start: true}
	frontier := []string{start}

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, u := range frontier {
			for _, v := range adj[u] {
				if !seen[v] {
					seen[v] = true
					next = append(next, v)
				}
			}
		}
		frontier = next
	}
	return seen
}

// LayoutSeed gives every center its own stable layout.
func LayoutSeed(center string) int64 {
	if center == "" {
		return DefaultSeed
	}
	h := fnv.New32a()
	h.Write([]byte(center))
	return int64(h.Sum32() % 10000)
}
