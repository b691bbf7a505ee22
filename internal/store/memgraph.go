package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/agenthands/deepmemory/internal/driver"
)

// MemgraphBackend maps every record to a DeepMemoryRecord node.
type MemgraphBackend struct {
	Driver driver.GraphDriver
	log    *zap.Logger
}

func NewMemgraphBackend(ctx context.Context, d driver.GraphDriver, log *zap.Logger) *MemgraphBackend {
	if err := d.BuildIndices(ctx); err != nil {
		log.Warn("failed to build indices", zap.Error(err))
	}
	return &MemgraphBackend{Driver: d, log: log}
}

func (b *MemgraphBackend) Load(ctx context.Context, c Collection) ([]Record, error) {
	res, err := b.Driver.ExecuteQuery(ctx, driver.LoadCollectionQuery, map[string]interface{}{
		"collection": string(c),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", c, err)
	}

	records := make([]Record, 0, len(res.Records))
	for _, rec := range res.Records {
		raw, ok := rec.Get("props")
		props, isMap := raw.(map[string]interface{})
		if !ok || !isMap {
			b.log.Warn("collection unreadable, treating as empty", zap.String("collection", string(c)))
			return []Record{}, nil
		}
		r := make(Record, len(props))
		for k, v := range props {
			if k == "collection" || k == "position" {
				continue
			}
			r[k] = v
		}
		records = append(records, r)
	}
	return records, nil
}

func (b *MemgraphBackend) Save(ctx context.Context, c Collection, records []Record) error {
	rows := make([]interface{}, 0, len(records))
	for i, r := range records {
		row := make(map[string]interface{}, len(r)+1)
		for k, v := range r {
			if v == nil {
				continue
			}
			row[k] = v
		}
		row["position"] = int64(i)
		rows = append(rows, row)
	}

	_, err := b.Driver.ExecuteQuery(ctx, driver.ReplaceCollectionQuery, map[string]interface{}{
		"collection": string(c),
		"records":    rows,
	})
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", c, err)
	}
	return nil
}

func (b *MemgraphBackend) Drop(ctx context.Context, c Collection) error {
	_, err := b.Driver.ExecuteQuery(ctx, driver.DropCollectionQuery, map[string]interface{}{
		"collection": string(c),
	})
	if err != nil {
		return fmt.Errorf("failed to drop %s: %w", c, err)
	}
	return nil
}

func (b *MemgraphBackend) Close() error {
	return b.Driver.Close(context.Background())
}
