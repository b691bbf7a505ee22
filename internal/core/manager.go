// Package core owns every mutation of the social graph. Each operation that
// changes nodes or events finishes with Recompute, so the stored edges always
// reflect the event history.
package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agenthands/deepmemory/internal/core/community"
	"github.com/agenthands/deepmemory/internal/core/derive"
	"github.com/agenthands/deepmemory/internal/core/model"
	"github.com/agenthands/deepmemory/internal/store"
)

type Manager struct {
	Store   *store.Store
	Log     *zap.Logger
	Circles community.CircleDetector

	// AvatarDir receives cropped faces on memory commit. Empty disables cropping.
	AvatarDir string

	UUIDGenerator func() string
	Clock         func() time.Time
}

func NewManager(st *store.Store, log *zap.Logger) *Manager {
	return &Manager{
		Store:         st,
		Log:           log,
		Circles:       community.NewLabelPropagationDetector(),
		UUIDGenerator: func() string { return uuid.New().String() },
		Clock:         time.Now,
	}
}

func (m *Manager) today() string {
	return m.Clock().Format(model.DateLayout)
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalid, err)
}

// EnsureRoot seeds the root node into a store that has none, e.g. on first
// start.
func (m *Manager) EnsureRoot(ctx context.Context) error {
	return m.Store.UpdateNodes(ctx, func(nodes []model.Node) ([]model.Node, error) {
		for _, n := range nodes {
			if n.IsRoot() {
				return nil, store.ErrNoChange
			}
		}
		m.Log.Info("seeding root node")
		return append([]model.Node{model.NewRootNode(m.today())}, nodes...), nil
	})
}

// Reset wipes all collections and leaves only the root node.
func (m *Manager) Reset(ctx context.Context) error {
	if err := m.Store.Drop(ctx); err != nil {
		return fmt.Errorf("failed to reset: %w", err)
	}
	if err := m.Store.SaveNodes(ctx, []model.Node{model.NewRootNode(m.today())}); err != nil {
		return fmt.Errorf("failed to reset nodes: %w", err)
	}
	if err := m.Store.SaveEdges(ctx, []model.Edge{}); err != nil {
		return fmt.Errorf("failed to reset edges: %w", err)
	}
	if err := m.Store.SaveEvents(ctx, []model.Event{}); err != nil {
		return fmt.Errorf("failed to reset events: %w", err)
	}
	m.Log.Info("factory reset complete")
	return nil
}

// Recompute derives the edge set from the current events and saves it.
func (m *Manager) Recompute(ctx context.Context) error {
	events, err := m.Store.Events(ctx)
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}
	err = m.Store.UpdateEdges(ctx, func(current []model.Edge) ([]model.Edge, error) {
		return derive.Edges(events, current), nil
	})
	if err != nil {
		return fmt.Errorf("failed to save derived edges: %w", err)
	}
	return nil
}

// Nodes

func (m *Manager) Nodes(ctx context.Context) ([]model.Node, error) {
	return m.Store.Nodes(ctx)
}

func (m *Manager) Node(ctx context.Context, id string) (model.Node, error) {
	nodes, err := m.Store.Nodes(ctx)
	if err != nil {
		return model.Node{}, err
	}
	for _, n := range nodes {
		if n.ID == id {
			return n, nil
		}
	}
	return model.Node{}, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
}

// CreateNode saves n under a freshly generated id.
func (m *Manager) CreateNode(ctx context.Context, n model.Node) (model.Node, error) {
	n.ID = m.UUIDGenerator()
	return m.SaveNode(ctx, n)
}

// SaveNode upserts n by id. Type defaults to person and CreatedAt to today.
func (m *Manager) SaveNode(ctx context.Context, n model.Node) (model.Node, error) {
	if n.Type == "" {
		n.Type = model.NodeTypePerson
	}
	if n.CreatedAt == "" {
		n.CreatedAt = m.today()
	}
	if err := model.Validate(n); err != nil {
		return model.Node{}, invalid(err)
	}

	err := m.Store.UpdateNodes(ctx, func(nodes []model.Node) ([]model.Node, error) {
		for i := range nodes {
			if nodes[i].ID == n.ID {
				nodes[i] = n
				return nodes, nil
			}
		}
		return append(nodes, n), nil
	})
	if err != nil {
		return model.Node{}, fmt.Errorf("failed to save node: %w", err)
	}
	return n, nil
}

// DeleteNode removes the node, every edge touching it and its participation
// in events, then recomputes. Events themselves are kept. The cascade runs
// even when the node is already gone, so a retried delete completes it; the
// call still reports ErrNodeNotFound in that case.
func (m *Manager) DeleteNode(ctx context.Context, id string) error {
	if id == model.RootID {
		return ErrRootNode
	}

	found := false
	err := m.Store.UpdateNodes(ctx, func(nodes []model.Node) ([]model.Node, error) {
		out := nodes[:0]
		for _, n := range nodes {
			if n.ID == id {
				found = true
				continue
			}
			out = append(out, n)
		}
		if !found {
			return nil, store.ErrNoChange
		}
		return out, nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete node: %w", err)
	}

	removedEdges := 0
	err = m.Store.UpdateEdges(ctx, func(edges []model.Edge) ([]model.Edge, error) {
		out := edges[:0]
		for _, e := range edges {
			if e.Touches(id) {
				removedEdges++
				continue
			}
			out = append(out, e)
		}
		if removedEdges == 0 {
			return nil, store.ErrNoChange
		}
		return out, nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove edges of node: %w", err)
	}

	stripped := 0
	err = m.Store.UpdateEvents(ctx, func(events []model.Event) ([]model.Event, error) {
		for i, e := range events {
			if !e.Involves(id) {
				continue
			}
			kept := make([]string, 0, len(e.RelatedNodes))
			for _, p := range e.RelatedNodes {
				if p != id {
					kept = append(kept, p)
				}
			}
			events[i].RelatedNodes = kept
			stripped++
		}
		if stripped == 0 {
			return nil, store.ErrNoChange
		}
		return events, nil
	})
	if err != nil {
		return fmt.Errorf("failed to strip node from events: %w", err)
	}

	m.Log.Info("node deleted",
		zap.String("id", id),
		zap.Int("edges", removedEdges),
		zap.Int("events", stripped))

	if err := m.Recompute(ctx); err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return nil
}

// Events

func (m *Manager) Event(ctx context.Context, id string) (model.Event, error) {
	events, err := m.Store.Events(ctx)
	if err != nil {
		return model.Event{}, err
	}
	for _, e := range events {
		if e.ID == id {
			return e, nil
		}
	}
	return model.Event{}, fmt.Errorf("%w: %s", ErrEventNotFound, id)
}

// SaveEvent upserts e by id and recomputes. An empty id gets a generated
// one; submitting the same id twice replaces instead of duplicating.
func (m *Manager) SaveEvent(ctx context.Context, e model.Event) (model.Event, error) {
	if e.ID == "" {
		e.ID = m.UUIDGenerator()
	}
	e = normalizeEvent(e)
	if err := model.Validate(e); err != nil {
		return model.Event{}, invalid(err)
	}

	err := m.Store.UpdateEvents(ctx, func(events []model.Event) ([]model.Event, error) {
		for i := range events {
			if events[i].ID == e.ID {
				events[i] = e
				return events, nil
			}
		}
		return append(events, e), nil
	})
	if err != nil {
		return model.Event{}, fmt.Errorf("failed to save event: %w", err)
	}

	if err := m.Recompute(ctx); err != nil {
		return model.Event{}, err
	}
	return e, nil
}

// UpdateEvent merges the set fields of patch into the event and recomputes.
func (m *Manager) UpdateEvent(ctx context.Context, id string, patch model.EventPatch) (model.Event, error) {
	if err := model.Validate(patch); err != nil {
		return model.Event{}, invalid(err)
	}

	var updated model.Event
	err := m.Store.UpdateEvents(ctx, func(events []model.Event) ([]model.Event, error) {
		for i := range events {
			if events[i].ID != id {
				continue
			}
			e := normalizeEvent(patch.Apply(events[i]))
			if err := model.Validate(e); err != nil {
				return nil, invalid(err)
			}
			events[i] = e
			updated = e
			return events, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	})
	if err != nil {
		return model.Event{}, err
	}

	if err := m.Recompute(ctx); err != nil {
		return model.Event{}, err
	}
	return updated, nil
}

func (m *Manager) DeleteEvent(ctx context.Context, id string) error {
	err := m.Store.UpdateEvents(ctx, func(events []model.Event) ([]model.Event, error) {
		for i := range events {
			if events[i].ID == id {
				return append(events[:i], events[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	})
	if err != nil {
		return err
	}
	return m.Recompute(ctx)
}

// AllEvents returns every event, newest first.
func (m *Manager) AllEvents(ctx context.Context) ([]model.Event, error) {
	events, err := m.Store.Events(ctx)
	if err != nil {
		return nil, err
	}
	sortByDateDesc(events)
	return events, nil
}

// EventsForNode returns the events id took part in, newest first.
func (m *Manager) EventsForNode(ctx context.Context, id string) ([]model.Event, error) {
	events, err := m.Store.Events(ctx)
	if err != nil {
		return nil, err
	}
	out := []model.Event{}
	for _, e := range events {
		if e.Involves(id) {
			out = append(out, e)
		}
	}
	sortByDateDesc(out)
	return out, nil
}

func sortByDateDesc(events []model.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date > events[j].Date
	})
}

// normalizeEvent keeps journal_text mirroring content. An event carrying only
// journal_text has it promoted to content.
func normalizeEvent(e model.Event) model.Event {
	if e.Content == "" {
		e.Content = e.JournalText
	}
	e.JournalText = e.Content
	if e.Images == nil {
		e.Images = []string{}
	}
	e.RelatedNodes = e.Participants()
	return e
}

// Edges

func (m *Manager) Edges(ctx context.Context) ([]model.Edge, error) {
	return m.Store.Edges(ctx)
}

// AddEdge creates or relabels the edge between source and target and marks
// it manual. Self-loops are ignored.
func (m *Manager) AddEdge(ctx context.Context, source, target, label string) (bool, error) {
	changed := false
	err := m.Store.UpdateEdges(ctx, func(edges []model.Edge) ([]model.Edge, error) {
		edges, changed = derive.AddEdge(edges, source, target, label, m.today())
		if !changed {
			return nil, store.ErrNoChange
		}
		return edges, nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to add edge: %w", err)
	}
	return changed, nil
}

// RemoveEdge deletes the edge. A pair still connected by an event comes back
// on the next recompute.
func (m *Manager) RemoveEdge(ctx context.Context, source, target string) (bool, error) {
	removed := false
	err := m.Store.UpdateEdges(ctx, func(edges []model.Edge) ([]model.Edge, error) {
		edges, removed = derive.RemoveEdge(edges, source, target)
		if !removed {
			return nil, store.ErrNoChange
		}
		return edges, nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to remove edge: %w", err)
	}
	return removed, nil
}

// UpdateEdgeAttribute sets one field on an existing edge. A missing edge is a
// no-op reported as false.
func (m *Manager) UpdateEdgeAttribute(ctx context.Context, source, target, attr string, value interface{}) (bool, error) {
	updated := false
	err := m.Store.UpdateEdges(ctx, func(edges []model.Edge) ([]model.Edge, error) {
		var err error
		edges, updated, err = derive.SetAttribute(edges, source, target, attr, value)
		var attrErr *derive.AttributeError
		if errors.As(err, &attrErr) {
			return nil, invalid(err)
		}
		if err != nil {
			return nil, err
		}
		if !updated {
			return nil, store.ErrNoChange
		}
		return edges, nil
	})
	if err != nil {
		return false, err
	}
	return updated, nil
}
