//go:build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agenthands/deepmemory/internal/core"
	"github.com/agenthands/deepmemory/internal/core/model"
	"github.com/agenthands/deepmemory/internal/driver"
	"github.com/agenthands/deepmemory/internal/store"
)

// TestMemgraphLifecycle runs the full node/event lifecycle against a live
// Memgraph. It resets the DeepMemory collections, so point it at a scratch
// database.
func TestMemgraphLifecycle(t *testing.T) {
	_ = godotenv.Load("../../.env")

	uri := os.Getenv("MEMGRAPH_URI")
	if uri == "" {
		t.Skip("Skipping integration test: MEMGRAPH_URI not set")
	}

	ctx := context.Background()
	log := zap.NewNop()

	d, err := driver.NewMemgraphDriver(ctx, uri, os.Getenv("MEMGRAPH_USER"), os.Getenv("MEMGRAPH_PASSWORD"), log)
	require.NoError(t, err)

	st := store.New(store.NewMemgraphBackend(ctx, d, log), log)
	defer st.Close()

	m := core.NewManager(st, log)
	require.NoError(t, m.Reset(ctx))

	for _, id := range []string{"alice", "bob"} {
		_, err := m.SaveNode(ctx, model.Node{ID: id, Name: id})
		require.NoError(t, err)
	}

	_, err = m.SaveEvent(ctx, model.Event{
		ID:           "ev-1",
		Title:        "Hiking",
		Date:         "2024-05-01",
		Content:      "Mount Si",
		Images:       []string{"uploads/hike.jpg"},
		RelatedNodes: []string{model.RootID, "alice", "bob"},
	})
	require.NoError(t, err)
	_, err = m.SaveEvent(ctx, model.Event{
		ID:           "ev-2",
		Date:         "2024-06-10",
		RelatedNodes: []string{model.RootID, "alice"},
	})
	require.NoError(t, err)

	e, err := m.Relation(ctx, model.RootID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, e.Weight)
	assert.Equal(t, "2024-06-10", e.LastInteraction)

	_, err = m.UpdateEdgeAttribute(ctx, "alice", "bob", "relation_type", "Sister")
	require.NoError(t, err)

	// Records round-trip through the database with their order and lists intact.
	events, err := m.AllEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "ev-2", events[0].ID)
	assert.Equal(t, []string{"uploads/hike.jpg"}, events[1].Images)

	require.NoError(t, m.DeleteNode(ctx, "bob"))

	edges, err := m.Edges(ctx)
	require.NoError(t, err)
	assert.Len(t, edges, 1)

	view, err := m.Graph(ctx, "alice", 1, 0)
	require.NoError(t, err)
	assert.True(t, view.Focused)
	assert.Len(t, view.Nodes, 2)

	require.NoError(t, m.Reset(ctx))
	stats, err := m.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Stats{Nodes: 1}, stats)
}
