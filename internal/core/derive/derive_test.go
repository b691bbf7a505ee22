package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/deepmemory/internal/core/model"
)

func edgeMap(edges []model.Edge) map[model.PairKey]model.Edge {
	m := make(map[model.PairKey]model.Edge, len(edges))
	for _, e := range edges {
		m[e.Key()] = e
	}
	return m
}

func TestEdges_Scenario(t *testing.T) {
	events := []model.Event{
		{ID: "1", Date: "2024-01-01", RelatedNodes: []string{"root_me", "alice"}},
		{ID: "2", Date: "2024-02-01", RelatedNodes: []string{"root_me", "alice", "bob"}},
	}

	edges := Edges(events, nil)
	require.Len(t, edges, 3)
	m := edgeMap(edges)

	meAlice := m[model.NewPairKey("root_me", "alice")]
	assert.Equal(t, 2, meAlice.Weight)
	assert.Equal(t, "2024-02-01", meAlice.LastInteraction)

	meBob := m[model.NewPairKey("root_me", "bob")]
	assert.Equal(t, 1, meBob.Weight)
	assert.Equal(t, "2024-02-01", meBob.LastInteraction)

	aliceBob := m[model.NewPairKey("alice", "bob")]
	assert.Equal(t, 1, aliceBob.Weight)
	assert.Equal(t, "2024-02-01", aliceBob.LastInteraction)

	for _, e := range edges {
		assert.True(t, e.Source <= e.Target, "edge %v not canonical", e)
	}
}

func TestEdges_Idempotent(t *testing.T) {
	events := []model.Event{
		{Date: "2023-05-04", RelatedNodes: []string{"carol", "alice", "bob"}},
		{Date: "2024-03-01", RelatedNodes: []string{"root_me", "bob"}},
	}
	current := []model.Edge{{Source: "bob", Target: "root_me", RelationType: "Brother"}}

	first := Edges(events, current)
	second := Edges(events, first)
	assert.Equal(t, first, second)
}

func TestEdges_LabelPreservation(t *testing.T) {
	events := []model.Event{
		{Date: "2024-01-01", RelatedNodes: []string{"a", "b"}},
		{Date: "2024-01-02", RelatedNodes: []string{"a", "b"}},
		{Date: "2024-01-03", RelatedNodes: []string{"a", "b"}},
	}
	current := Edges(events, []model.Edge{{Source: "b", Target: "a", RelationType: "Mentor", Weight: 3}})
	ab := edgeMap(current)[model.NewPairKey("a", "b")]
	require.Equal(t, 3, ab.Weight)
	require.Equal(t, "Mentor", ab.RelationType)

	events = append(events, model.Event{Date: "2024-01-04", RelatedNodes: []string{"b", "a"}})
	ab = edgeMap(Edges(events, current))[model.NewPairKey("a", "b")]
	assert.Equal(t, 4, ab.Weight)
	assert.Equal(t, "Mentor", ab.RelationType)
	assert.Equal(t, "2024-01-04", ab.LastInteraction)
}

func TestEdges_ManualOnlyEdgeSurvives(t *testing.T) {
	edges, changed := AddEdge(nil, "zoe", "alice", "Cousin", "2024-06-01")
	require.True(t, changed)

	events := []model.Event{{Date: "2024-01-01", RelatedNodes: []string{"root_me", "bob"}}}
	out := Edges(events, edges)

	m := edgeMap(out)
	manual, ok := m[model.NewPairKey("alice", "zoe")]
	require.True(t, ok)
	assert.Equal(t, 1, manual.Weight)
	assert.Equal(t, "Cousin", manual.RelationType)
	assert.Equal(t, "2024-06-01", manual.LastInteraction)
	assert.True(t, manual.Manual)
}

func TestEdges_DerivedEdgeWithoutEventsIsDropped(t *testing.T) {
	current := []model.Edge{{Source: "alice", Target: "root_me", Weight: 4, LastInteraction: "2023-01-01"}}

	out := Edges(nil, current)
	assert.Empty(t, out)
}

func TestEdges_ManualEdgeBackedByEventsIsRecounted(t *testing.T) {
	current := []model.Edge{{Source: "alice", Target: "root_me", Weight: 1, RelationType: "Friend", Manual: true, LastInteraction: "2024-09-09"}}
	events := []model.Event{
		{Date: "2024-01-01", RelatedNodes: []string{"alice"}},
		{Date: "2024-02-01", RelatedNodes: []string{"alice", "root_me"}},
	}

	out := Edges(events, current)
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].Weight)
	assert.Equal(t, "2024-02-01", out[0].LastInteraction)
	assert.Equal(t, "Friend", out[0].RelationType)
	assert.True(t, out[0].Manual)
}

func TestEdges_BothOrderingsCollapse(t *testing.T) {
	current := []model.Edge{
		{Source: "bob", Target: "alice", RelationType: ""},
		{Source: "alice", Target: "bob", RelationType: "Roommate"},
	}
	events := []model.Event{{Date: "2024-01-01", RelatedNodes: []string{"alice", "bob"}}}

	out := Edges(events, current)
	m := edgeMap(out)
	assert.Len(t, out, 3)
	assert.Equal(t, "Roommate", m[model.NewPairKey("alice", "bob")].RelationType)
}

func TestEdges_ParticipantEdgeCases(t *testing.T) {
	events := []model.Event{
		{Date: "2024-01-01", RelatedNodes: []string{"root_me"}},
		{Date: "2024-01-02", RelatedNodes: []string{}},
		{Date: "2024-01-03", RelatedNodes: []string{"alice", "alice", ""}},
	}

	out := Edges(events, nil)
	require.Len(t, out, 1)
	assert.Equal(t, model.Edge{Source: "alice", Target: "root_me", Weight: 1, LastInteraction: "2024-01-03"}, out[0])
}

func TestEdges_LexicalMaxDate(t *testing.T) {
	events := []model.Event{
		{Date: "2024-12-31", RelatedNodes: []string{"alice"}},
		{Date: "2024-02-01", RelatedNodes: []string{"alice"}},
	}
	out := Edges(events, nil)
	require.Len(t, out, 1)
	assert.Equal(t, "2024-12-31", out[0].LastInteraction)
}

func TestAddEdge(t *testing.T) {
	edges, changed := AddEdge(nil, "b", "a", "Friend", "2024-01-01")
	require.True(t, changed)
	require.Len(t, edges, 1)
	assert.Equal(t, "a", edges[0].Source)
	assert.Equal(t, "b", edges[0].Target)
	assert.Equal(t, 1, edges[0].Weight)

	// relabel does not bump weight and does not duplicate
	edges[0].Weight = 5
	edges, changed = AddEdge(edges, "a", "b", "Best friend", "2024-02-02")
	require.True(t, changed)
	require.Len(t, edges, 1)
	assert.Equal(t, 5, edges[0].Weight)
	assert.Equal(t, "Best friend", edges[0].RelationType)
	assert.Equal(t, "2024-01-01", edges[0].LastInteraction)

	_, changed = AddEdge(edges, "a", "a", "Self", "2024-01-01")
	assert.False(t, changed)
}

func TestRemoveEdge(t *testing.T) {
	edges := []model.Edge{
		{Source: "a", Target: "b"},
		{Source: "b", Target: "a"},
		{Source: "a", Target: "c"},
	}
	out, removed := RemoveEdge(edges, "b", "a")
	assert.True(t, removed)
	require.Len(t, out, 1)
	assert.Equal(t, "c", out[0].Target)

	_, removed = RemoveEdge(out, "x", "y")
	assert.False(t, removed)
}

func TestSetAttribute(t *testing.T) {
	edges := []model.Edge{{Source: "a", Target: "b", Weight: 1}}

	edges, ok, err := SetAttribute(edges, "b", "a", AttrRelationType, "Sibling")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Sibling", edges[0].RelationType)

	edges, ok, err = SetAttribute(edges, "a", "b", AttrWeight, float64(7))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 7, edges[0].Weight)

	_, ok, err = SetAttribute(edges, "a", "z", AttrRelationType, "x")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = SetAttribute(edges, "a", "b", "colour", "red")
	var attrErr *AttributeError
	assert.ErrorAs(t, err, &attrErr)

	_, _, err = SetAttribute(edges, "a", "b", AttrWeight, 1.5)
	assert.Error(t, err)

	edges, ok, err = SetAttribute(edges, "a", "b", AttrLastInteraction, "2024-07-04")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2024-07-04", edges[0].LastInteraction)

	for _, bad := range []interface{}{"July 4th", "2024-7-4", "2024-13-01", ""} {
		_, _, err = SetAttribute(edges, "a", "b", AttrLastInteraction, bad)
		assert.ErrorAs(t, err, &attrErr, "%v", bad)
	}
	assert.Equal(t, "2024-07-04", edges[0].LastInteraction)
}
