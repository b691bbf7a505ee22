package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS records (
	collection TEXT NOT NULL,
	position   INTEGER NOT NULL,
	body       TEXT NOT NULL,
	PRIMARY KEY (collection, position)
)`

// SQLiteBackend keeps one row per record; Save replaces a collection inside a
// single transaction.
type SQLiteBackend struct {
	db  *sql.DB
	log *zap.Logger
}

func NewSQLiteBackend(path string, log *zap.Logger) (*SQLiteBackend, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer; also keeps ":memory:" on a single connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return &SQLiteBackend{db: db, log: log}, nil
}

func (b *SQLiteBackend) Load(ctx context.Context, c Collection) ([]Record, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT body FROM records WHERE collection = ? ORDER BY position`, string(c))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", c, err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", c, err)
		}
		var r Record
		if err := json.Unmarshal([]byte(body), &r); err != nil {
			b.log.Warn("collection unreadable, treating as empty", zap.String("collection", string(c)), zap.Error(err))
			return []Record{}, nil
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c, err)
	}
	return records, nil
}

func (b *SQLiteBackend) Save(ctx context.Context, c Collection, records []Record) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE collection = ?`, string(c)); err != nil {
		return fmt.Errorf("failed to clear %s: %w", c, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records (collection, position, body) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		body, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to encode %s record %d: %w", c, i, err)
		}
		if _, err := stmt.ExecContext(ctx, string(c), i, string(body)); err != nil {
			return fmt.Errorf("failed to insert %s record %d: %w", c, i, err)
		}
	}

	return tx.Commit()
}

func (b *SQLiteBackend) Drop(ctx context.Context, c Collection) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM records WHERE collection = ?`, string(c)); err != nil {
		return fmt.Errorf("failed to drop %s: %w", c, err)
	}
	return nil
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
