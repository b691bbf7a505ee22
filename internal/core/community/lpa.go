package community

import (
	"sort"

	"github.com/agenthands/deepmemory/internal/core/model"
)

// LabelPropagationDetector finds circles with the label propagation
// algorithm, weighting each neighbour by the number of shared events.
type LabelPropagationDetector struct {
	MaxIterations int
}

func NewLabelPropagationDetector() *LabelPropagationDetector {
	return &LabelPropagationDetector{
		MaxIterations: 20,
	}
}

func (d *LabelPropagationDetector) Detect(nodes []model.Node, edges []model.Edge) ([]Circle, error) {
	people, order := members(nodes)
	if len(order) == 0 {
		return nil, nil
	}

	adj := make(map[string]map[string]int) // person -> neighbour -> weight
	for _, id := range order {
		adj[id] = make(map[string]int)
	}

	for _, e := range edges {
		if _, ok := people[e.Source]; !ok {
			continue
		}
		if _, ok := people[e.Target]; !ok {
			continue
		}
		if e.Source == e.Target {
			continue
		}
		w := e.Weight
		if w < 1 {
			w = 1
		}
		adj[e.Source][e.Target] += w
		adj[e.Target][e.Source] += w
	}

	// Each person starts in their own circle
	labels := make(map[string]string, len(order))
	for _, id := range order {
		labels[id] = id
	}

	for iter := 0; iter < d.MaxIterations; iter++ {
		changeCount := 0

		for _, u := range order {
			neighbours := adj[u]
			if len(neighbours) == 0 {
				continue
			}

			labelCounts := make(map[string]int)
			maxCount := 0
			for v, weight := range neighbours {
				label := labels[v]
				labelCounts[label] += weight
				if labelCounts[label] > maxCount {
					maxCount = labelCounts[label]
				}
			}

			var candidates []string
			for label, count := range labelCounts {
				if count == maxCount {
					candidates = append(candidates, label)
				}
			}

			// Ties go to the lexicographically largest label
			sort.Strings(candidates)
			bestLabel := candidates[len(candidates)-1]

			if labels[u] != bestLabel {
				labels[u] = bestLabel
				changeCount++
			}
		}

		if changeCount == 0 {
			break
		}
	}

	groups := make(map[string][]string)
	var labelOrder []string
	for _, id := range order {
		l := labels[id]
		if _, seen := groups[l]; !seen {
			labelOrder = append(labelOrder, l)
		}
		groups[l] = append(groups[l], id)
	}

	var circles []Circle
	for _, l := range labelOrder {
		if len(groups[l]) >= 2 {
			circles = append(circles, collect(nodes, groups[l]))
		}
	}

	sortCircles(circles)
	return circles, nil
}
