package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// FileBackend keeps each collection in one human-readable document under dir.
// Files may be edited or deleted by hand.
type FileBackend struct {
	dir    string
	format string
	log    *zap.Logger
}

func NewFileBackend(dir, format string, log *zap.Logger) (*FileBackend, error) {
	switch format {
	case "":
		format = "json"
	case "json", "yaml":
	default:
		return nil, fmt.Errorf("unsupported file format %q", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &FileBackend{dir: dir, format: format, log: log}, nil
}

func (b *FileBackend) Path(c Collection) string {
	return filepath.Join(b.dir, string(c)+"."+b.format)
}

func (b *FileBackend) Load(ctx context.Context, c Collection) ([]Record, error) {
	data, err := os.ReadFile(b.Path(c))
	if errors.Is(err, fs.ErrNotExist) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c, err)
	}

	var records []Record
	if b.format == "yaml" {
		err = yaml.Unmarshal(data, &records)
	} else {
		err = json.Unmarshal(data, &records)
	}
	if err != nil {
		b.log.Warn("collection unreadable, treating as empty",
			zap.String("collection", string(c)), zap.String("path", b.Path(c)), zap.Error(err))
		return []Record{}, nil
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func (b *FileBackend) Save(ctx context.Context, c Collection, records []Record) error {
	if records == nil {
		records = []Record{}
	}

	data, err := b.encode(records)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c, err)
	}

	tmp, err := os.CreateTemp(b.dir, string(c)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", c, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", c, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", c, err)
	}
	if err := os.Rename(tmp.Name(), b.Path(c)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", c, err)
	}
	return nil
}

func (b *FileBackend) encode(records []Record) ([]byte, error) {
	if b.format == "yaml" {
		return yaml.Marshal(records)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *FileBackend) Drop(ctx context.Context, c Collection) error {
	err := os.Remove(b.Path(c))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", c, err)
	}
	return nil
}

func (b *FileBackend) Close() error {
	return nil
}
