// =============================================================================
// Grocery List Converter - Submission Store
// =============================================================================
//
// This module persists records submitted through the demo form in a SQLite
// database (pure-Go driver, no cgo).
//
// TABLE:
//   submissions(seq, id, category, item, quantity, submitted_at)
//   seq keeps insertion order; id is a random UUID handed back to clients.
//
// =============================================================================

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ginjaninja78/grocery-list-converter/internal/types"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Submission is one stored form submission.
type Submission struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Item        string    `json:"item"`
	Quantity    int       `json:"quantity"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// GroceryItem returns the record part of the submission.
func (s Submission) GroceryItem() types.GroceryItem {
	return types.GroceryItem{Category: s.Category, Item: s.Item, Quantity: s.Quantity}
}

// DB is a handle on the submission database. It is safe for concurrent use.
type DB struct {
	conn *sql.DB
	now  func() time.Time
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*DB, error) {
	memory := path == MemoryPath
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if memory {
		// Every pooled connection would otherwise see its own empty database.
		conn.SetMaxOpenConns(1)
	} else if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	db := &DB{conn: conn, now: time.Now}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

// Close releases the database.
func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS submissions (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  category TEXT NOT NULL,
  item TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  submitted_at TEXT NOT NULL
);`
	if _, err := d.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Save stores one record and returns it with its assigned id and timestamp.
func (d *DB) Save(ctx context.Context, item types.GroceryItem) (Submission, error) {
	sub := Submission{
		ID:          uuid.NewString(),
		Category:    item.Category,
		Item:        item.Item,
		Quantity:    item.Quantity,
		SubmittedAt: d.now().UTC(),
	}

	_, err := d.conn.ExecContext(ctx,
		`INSERT INTO submissions (id, category, item, quantity, submitted_at) VALUES (?, ?, ?, ?, ?)`,
		sub.ID, sub.Category, sub.Item, sub.Quantity, sub.SubmittedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Submission{}, fmt.Errorf("failed to save submission: %w", err)
	}

	return sub, nil
}

// List returns every submission in insertion order.
func (d *DB) List(ctx context.Context) ([]Submission, error) {
	rows, err := d.conn.QueryContext(ctx,
		`SELECT id, category, item, quantity, submitted_at FROM submissions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	out := []Submission{}
	for rows.Next() {
		var (
			sub Submission
			at  string
		)
		if err := rows.Scan(&sub.ID, &sub.Category, &sub.Item, &sub.Quantity, &at); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		sub.SubmittedAt, err = time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("bad timestamp on submission %s: %w", sub.ID, err)
		}
		out = append(out, sub)
	}

	return out, rows.Err()
}

// Count returns the number of stored submissions.
func (d *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := d.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return n, nil
}
