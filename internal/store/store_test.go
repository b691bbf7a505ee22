package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agenthands/deepmemory/internal/core/model"
)

func TestStore_TypedRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend(), zap.NewNop())

	nodes := []model.Node{model.NewRootNode("2024-01-01")}
	require.NoError(t, s.SaveNodes(ctx, nodes))

	got, err := s.Nodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, nodes, got)

	events := []model.Event{{ID: "e1", Date: "2024-01-01", RelatedNodes: []string{"root_me", "alice"}, Images: []string{}}}
	require.NoError(t, s.SaveEvents(ctx, events))
	gotEvents, err := s.Events(ctx)
	require.NoError(t, err)
	assert.Equal(t, events, gotEvents)
}

func TestStore_MalformedRecordsAreEmpty(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Save(ctx, Edges, []Record{{"source": "a", "weight": "lots"}}))

	s := New(backend, zap.NewNop())
	edges, err := s.Edges(ctx)
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend(), zap.NewNop())

	err := s.UpdateEdges(ctx, func(edges []model.Edge) ([]model.Edge, error) {
		return append(edges, model.Edge{Source: "a", Target: "b", Weight: 1}), nil
	})
	require.NoError(t, err)

	err = s.UpdateEdges(ctx, func(edges []model.Edge) ([]model.Edge, error) {
		return nil, ErrNoChange
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.UpdateEdges(ctx, func(edges []model.Edge) ([]model.Edge, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	edges, err := s.Edges(ctx)
	require.NoError(t, err)
	assert.Len(t, edges, 1)
}

func TestStore_Drop(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend(), zap.NewNop())
	require.NoError(t, s.SaveNodes(ctx, []model.Node{model.NewRootNode("2024-01-01")}))
	require.NoError(t, s.SaveEdges(ctx, []model.Edge{{Source: "a", Target: "b"}}))

	require.NoError(t, s.Drop(ctx))

	nodes, err := s.Nodes(ctx)
	require.NoError(t, err)
	assert.Empty(t, nodes)
	edges, err := s.Edges(ctx)
	require.NoError(t, err)
	assert.Empty(t, edges)
}
