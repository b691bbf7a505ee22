package core

import (
	"context"
	"fmt"

	"github.com/agenthands/deepmemory/internal/core/community"
	"github.com/agenthands/deepmemory/internal/core/derive"
	"github.com/agenthands/deepmemory/internal/core/model"
	"github.com/agenthands/deepmemory/internal/core/subgraph"
)

// Graph returns the k-hop view around center for the renderer. A zero seed
// is replaced with the center's own layout seed.
func (m *Manager) Graph(ctx context.Context, center string, hops int, seed int64) (subgraph.View, error) {
	nodes, err := m.Store.Nodes(ctx)
	if err != nil {
		return subgraph.View{}, err
	}
	edges, err := m.Store.Edges(ctx)
	if err != nil {
		return subgraph.View{}, err
	}
	if seed == 0 {
		seed = subgraph.LayoutSeed(center)
	}
	return subgraph.Extract(nodes, edges, subgraph.Request{Center: center, Hops: hops, Seed: seed}), nil
}

// Relation returns the direct edge between a and b.
func (m *Manager) Relation(ctx context.Context, a, b string) (model.Edge, error) {
	edges, err := m.Store.Edges(ctx)
	if err != nil {
		return model.Edge{}, err
	}
	i := derive.Find(edges, model.NewPairKey(a, b))
	if i < 0 {
		return model.Edge{}, fmt.Errorf("%w: %s - %s", ErrEdgeNotFound, a, b)
	}
	return edges[i], nil
}

func (m *Manager) Stats(ctx context.Context) (model.Stats, error) {
	nodes, err := m.Store.Nodes(ctx)
	if err != nil {
		return model.Stats{}, err
	}
	edges, err := m.Store.Edges(ctx)
	if err != nil {
		return model.Stats{}, err
	}
	events, err := m.Store.Events(ctx)
	if err != nil {
		return model.Stats{}, err
	}
	return model.Stats{Nodes: len(nodes), Edges: len(edges), Events: len(events)}, nil
}

// FriendCircles groups people by how they appear together.
func (m *Manager) FriendCircles(ctx context.Context) ([]community.Circle, error) {
	nodes, err := m.Store.Nodes(ctx)
	if err != nil {
		return nil, err
	}
	edges, err := m.Store.Edges(ctx)
	if err != nil {
		return nil, err
	}
	circles, err := m.Circles.Detect(nodes, edges)
	if err != nil {
		return nil, fmt.Errorf("failed to detect circles: %w", err)
	}
	if circles == nil {
		circles = []community.Circle{}
	}
	return circles, nil
}
