package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// BadgerBackend stores each collection as one JSON array under its own key.
type BadgerBackend struct {
	db  *badger.DB
	log *zap.Logger
}

func NewBadgerBackend(path string, log *zap.Logger) (*BadgerBackend, error) {
	return NewBadgerBackendWithOptions(badger.DefaultOptions(path), log)
}

func NewBadgerBackendWithOptions(opts badger.Options, log *zap.Logger) (*BadgerBackend, error) {
	opts.Logger = nil // badger's own logger is too chatty

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	return &BadgerBackend{db: db, log: log}, nil
}

func badgerKey(c Collection) []byte {
	return []byte("collection/" + string(c))
}

func (b *BadgerBackend) Load(ctx context.Context, c Collection) ([]Record, error) {
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(c))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c, err)
	}

	var records []Record
	if err := json.Unmarshal(val, &records); err != nil {
		b.log.Warn("collection unreadable, treating as empty", zap.String("collection", string(c)), zap.Error(err))
		return []Record{}, nil
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func (b *BadgerBackend) Save(ctx context.Context, c Collection, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c, err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(c), data)
	})
}

func (b *BadgerBackend) Drop(ctx context.Context, c Collection) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(badgerKey(c))
	})
}

func (b *BadgerBackend) Close() error {
	return b.db.Close()
}
