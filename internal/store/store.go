package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/agenthands/deepmemory/internal/core/model"
)

// ErrNoChange can be returned from an update function to skip the write.
var ErrNoChange = errors.New("no change")

// Store is the typed view over a Backend. Reads and writes of one collection
// are serialised by Update*, which makes read-modify-write atomic within this
// process. There is no transaction spanning collections.
type Store struct {
	backend Backend
	log     *zap.Logger
	locks   map[Collection]*sync.Mutex
}

func New(backend Backend, log *zap.Logger) *Store {
	locks := make(map[Collection]*sync.Mutex, len(Collections))
	for _, c := range Collections {
		locks[c] = &sync.Mutex{}
	}
	return &Store{backend: backend, log: log, locks: locks}
}

func (s *Store) Backend() Backend {
	return s.backend
}

func (s *Store) Nodes(ctx context.Context) ([]model.Node, error) {
	return load[model.Node](ctx, s, Nodes)
}

func (s *Store) Edges(ctx context.Context) ([]model.Edge, error) {
	return load[model.Edge](ctx, s, Edges)
}

func (s *Store) Events(ctx context.Context) ([]model.Event, error) {
	return load[model.Event](ctx, s, Events)
}

func (s *Store) SaveNodes(ctx context.Context, nodes []model.Node) error {
	return locked(s, Nodes, func() error { return save(ctx, s, Nodes, nodes) })
}

func (s *Store) SaveEdges(ctx context.Context, edges []model.Edge) error {
	return locked(s, Edges, func() error { return save(ctx, s, Edges, edges) })
}

func (s *Store) SaveEvents(ctx context.Context, events []model.Event) error {
	return locked(s, Events, func() error { return save(ctx, s, Events, events) })
}

func (s *Store) UpdateNodes(ctx context.Context, fn func([]model.Node) ([]model.Node, error)) error {
	return update(ctx, s, Nodes, fn)
}

func (s *Store) UpdateEdges(ctx context.Context, fn func([]model.Edge) ([]model.Edge, error)) error {
	return update(ctx, s, Edges, fn)
}

func (s *Store) UpdateEvents(ctx context.Context, fn func([]model.Event) ([]model.Event, error)) error {
	return update(ctx, s, Events, fn)
}

// Drop removes all three collections.
func (s *Store) Drop(ctx context.Context) error {
	for _, c := range Collections {
		err := locked(s, c, func() error { return s.backend.Drop(ctx, c) })
		if err != nil {
			return fmt.Errorf("failed to drop %s: %w", c, err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.backend.Close()
}

func locked(s *Store, c Collection, fn func() error) error {
	mu := s.locks[c]
	mu.Lock()
	defer mu.Unlock()
	return fn()
}

func update[T any](ctx context.Context, s *Store, c Collection, fn func([]T) ([]T, error)) error {
	return locked(s, c, func() error {
		items, err := load[T](ctx, s, c)
		if err != nil {
			return err
		}
		items, err = fn(items)
		if errors.Is(err, ErrNoChange) {
			return nil
		}
		if err != nil {
			return err
		}
		return save(ctx, s, c, items)
	})
}

func load[T any](ctx context.Context, s *Store, c Collection) ([]T, error) {
	records, err := s.backend.Load(ctx, c)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", c, err)
	}
	items := []T{}
	if err := json.Unmarshal(data, &items); err != nil {
		s.log.Warn("collection has malformed records, treating as empty",
			zap.String("collection", string(c)), zap.Error(err))
		return []T{}, nil
	}
	return items, nil
}

func save[T any](ctx context.Context, s *Store, c Collection, items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c, err)
	}
	records := []Record{}
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to encode %s: %w", c, err)
	}
	if err := s.backend.Save(ctx, c, records); err != nil {
		return err
	}
	s.log.Debug("collection saved", zap.String("collection", string(c)), zap.Int("records", len(records)))
	return nil
}
