package store

import (
	"context"
	"sync"
)

// MemoryBackend keeps collections in process memory.
type MemoryBackend struct {
	mu   sync.Mutex
	data map[Collection][]Record
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[Collection][]Record)}
}

func (b *MemoryBackend) Load(ctx context.Context, c Collection) ([]Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return copyRecords(b.data[c]), nil
}

func (b *MemoryBackend) Save(ctx context.Context, c Collection, records []Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[c] = copyRecords(records)
	return nil
}

func (b *MemoryBackend) Drop(ctx context.Context, c Collection) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, c)
	return nil
}

func (b *MemoryBackend) Close() error {
	return nil
}
