package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/agenthands/deepmemory/internal/config"
	"github.com/agenthands/deepmemory/internal/driver"
)

type Collection string

const (
	Nodes  Collection = "nodes"
	Edges  Collection = "edges"
	Events Collection = "events"
)

var Collections = []Collection{Nodes, Edges, Events}

// Record is one flat field mapping of a collection.
type Record map[string]interface{}

// Backend persists whole collections. Load returns an empty slice when the
// collection is absent or cannot be parsed; Save overwrites the collection.
type Backend interface {
	Load(ctx context.Context, c Collection) ([]Record, error)
	Save(ctx context.Context, c Collection, records []Record) error
	Drop(ctx context.Context, c Collection) error
	Close() error
}

var ErrUnknownBackend = errors.New("unknown store backend")

// Open builds the backend selected in the configuration.
func Open(ctx context.Context, cfg config.StoreConfig, mg config.MemgraphConfig, log *zap.Logger) (Backend, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "file":
		return NewFileBackend(cfg.Dir, cfg.Format, log)
	case "badger":
		return NewBadgerBackend(cfg.BadgerPath, log)
	case "sqlite":
		return NewSQLiteBackend(cfg.SQLitePath, log)
	case "memgraph":
		d, err := driver.NewMemgraphDriver(ctx, mg.URI, mg.User, mg.Password, log)
		if err != nil {
			return nil, err
		}
		return NewMemgraphBackend(ctx, d, log), nil
	case "memory":
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
}

func copyRecords(in []Record) []Record {
	out := make([]Record, len(in))
	for i, r := range in {
		c := make(Record, len(r))
		for k, v := range r {
			c[k] = v
		}
		out[i] = c
	}
	return out
}
