package community

import (
	"sort"

	"github.com/agenthands/deepmemory/internal/core/model"
)

// Circle is a group of people who tend to appear together.
type Circle []model.Node

type CircleDetector interface {
	Detect(nodes []model.Node, edges []model.Edge) ([]Circle, error)
}

// NewDetector picks the algorithm by name; anything unrecognised gets label
// propagation.
func NewDetector(name string) CircleDetector {
	if name == "components" {
		return &ComponentDetector{}
	}
	return NewLabelPropagationDetector()
}

// ComponentDetector groups people by connected component.
type ComponentDetector struct{}

func (d *ComponentDetector) Detect(nodes []model.Node, edges []model.Edge) ([]Circle, error) {
	people, _ := members(nodes)
	adj := make(map[string][]string)

	for _, e := range edges {
		// Only consider edges where both people are in the provided node list
		if _, ok := people[e.Source]; !ok {
			continue
		}
		if _, ok := people[e.Target]; !ok {
			continue
		}
		adj[e.Source] = append(adj[e.Source], e.Target)
		adj[e.Target] = append(adj[e.Target], e.Source)
	}

	visited := make(map[string]bool)
	var circles []Circle

	for _, n := range nodes {
		if n.IsRoot() || visited[n.ID] {
			continue
		}
		ids := []string{}
		d.dfs(n.ID, adj, visited, &ids)

		// A single person is not a circle
		if len(ids) >= 2 {
			circles = append(circles, collect(nodes, ids))
		}
	}

	sortCircles(circles)
	return circles, nil
}

func (d *ComponentDetector) dfs(u string, adj map[string][]string, visited map[string]bool, component *[]string) {
	visited[u] = true
	*component = append(*component, u)
	for _, v := range adj[u] {
		if !visited[v] {
			d.dfs(v, adj, visited, component)
		}
	}
}

// members indexes every node except root_me. Every person is linked to the
// root, so keeping it would merge all circles into one.
func members(nodes []model.Node) (map[string]model.Node, []string) {
	people := make(map[string]model.Node, len(nodes))
	order := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n.IsRoot() {
			continue
		}
		if _, dup := people[n.ID]; dup {
			continue
		}
		people[n.ID] = n
		order = append(order, n.ID)
	}
	return people, order
}

// collect returns the nodes whose ids are in ids, in node-list order.
func collect(nodes []model.Node, ids []string) Circle {
	in := make(map[string]bool, len(ids))
	for _, id := range ids {
		in[id] = true
	}
	var c Circle
	for _, n := range nodes {
		if in[n.ID] {
			c = append(c, n)
			delete(in, n.ID)
		}
	}
	return c
}

// sortCircles orders by size descending, then by first member id.
func sortCircles(circles []Circle) {
	sort.SliceStable(circles, func(i, j int) bool {
		if len(circles[i]) != len(circles[j]) {
			return len(circles[i]) > len(circles[j])
		}
		return circles[i][0].ID < circles[j][0].ID
	})
}
