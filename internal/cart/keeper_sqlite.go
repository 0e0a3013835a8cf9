package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteKeeper persists cart snapshots in a local sqlite database, one
// JSON row per session and vertical.
type SQLiteKeeper struct {
	db *sql.DB
}

// NewSQLiteKeeper creates or opens the snapshot database.
func NewSQLiteKeeper(path string) (*SQLiteKeeper, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	k := &SQLiteKeeper{db: db}
	if err := k.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return k, nil
}

func (k *SQLiteKeeper) Close() error {
	return k.db.Close()
}

func (k *SQLiteKeeper) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cart_snapshots (
		session_id TEXT NOT NULL,
		vertical   TEXT NOT NULL,
		items_json TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (session_id, vertical)
	);
	`
	_, err := k.db.Exec(schema)
	return err
}

// Save overwrites the snapshot for the session's vertical with the full
// current collection.
func (k *SQLiteKeeper) Save(ctx context.Context, sessionID string, v Vertical, items []Item) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = k.db.ExecContext(ctx, `
		INSERT INTO cart_snapshots (session_id, vertical, items_json, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (session_id, vertical)
		DO UPDATE SET items_json = excluded.items_json, updated_at = CURRENT_TIMESTAMP
	`, sessionID, string(v), string(payload))
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load returns the most recently saved collection, or nil when the
// session has no snapshot for the vertical.
func (k *SQLiteKeeper) Load(ctx context.Context, sessionID string, v Vertical) ([]Item, error) {
	var payload string
	err := k.db.QueryRowContext(ctx, `
		SELECT items_json FROM cart_snapshots WHERE session_id = ? AND vertical = ?
	`, sessionID, string(v)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var items []Item
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return items, nil
}
