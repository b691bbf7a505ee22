package community

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/deepmemory/internal/core/model"
)

func people(ids ...string) []model.Node {
	nodes := make([]model.Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, model.Node{ID: id, Name: id})
	}
	return nodes
}

func link(a, b string, w int) model.Edge {
	return model.Edge{Source: a, Target: b, Weight: w}
}

func TestLPA_DisconnectedComponents(t *testing.T) {
	// Two triangles with nothing between them
	nodes := people("1", "2", "3", "4", "5", "6")
	edges := []model.Edge{
		link("1", "2", 1), link("2", "3", 1), link("3", "1", 1),
		link("4", "5", 1), link("5", "6", 1), link("6", "4", 1),
	}

	circles, err := NewLabelPropagationDetector().Detect(nodes, edges)
	require.NoError(t, err)

	require.Len(t, circles, 2)
	assert.Len(t, circles[0], 3)
	assert.Len(t, circles[1], 3)
}

func TestLPA_BridgeNode(t *testing.T) {
	// Two triangles joined by the edge 3-4; intra-circle edges outweigh the bridge
	nodes := people("1", "2", "3", "4", "5", "6")
	edges := []model.Edge{
		link("1", "2", 1), link("2", "3", 1), link("3", "1", 1),
		link("3", "4", 1),
		link("4", "5", 1), link("5", "6", 1), link("6", "4", 1),
	}

	circles, err := NewLabelPropagationDetector().Detect(nodes, edges)
	require.NoError(t, err)
	assert.Len(t, circles, 2)
}

func TestLPA_LargeClique(t *testing.T) {
	nodes := people("1", "2", "3", "4", "5")
	var edges []model.Edge
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			edges = append(edges, link(nodes[i].ID, nodes[j].ID, 1))
		}
	}

	circles, err := NewLabelPropagationDetector().Detect(nodes, edges)
	require.NoError(t, err)

	require.Len(t, circles, 1)
	assert.Len(t, circles[0], 5)
}

func TestLPA_IgnoresRoot(t *testing.T) {
	// Everyone knows root_me; without the exclusion this would be one circle
	nodes := people(model.RootID, "alice", "bob", "carol", "dave")
	edges := []model.Edge{
		link("alice", model.RootID, 5), link("bob", model.RootID, 5),
		link("carol", model.RootID, 5), link("dave", model.RootID, 5),
		link("alice", "bob", 2),
		link("carol", "dave", 2),
	}

	circles, err := NewLabelPropagationDetector().Detect(nodes, edges)
	require.NoError(t, err)

	require.Len(t, circles, 2)
	for _, c := range circles {
		for _, n := range c {
			assert.NotEqual(t, model.RootID, n.ID)
		}
	}
}

func TestLPA_Empty(t *testing.T) {
	circles, err := NewLabelPropagationDetector().Detect(people(model.RootID), nil)
	require.NoError(t, err)
	assert.Empty(t, circles)
}
