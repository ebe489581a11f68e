package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ucsboard/internal/domain"
	"ucsboard/internal/repository"

	_ "modernc.org/sqlite"
)

// maxNameLength bounds saved tree names
const maxNameLength = 128

// Repository implements repository.Store using SQLite
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

var _ repository.Store = (*Repository)(nil)

// New creates a new SQLite repository. dbPath may be ":memory:".
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps ":memory:" databases alive and serializes writes
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db, now: time.Now}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func dsn(dbPath string) string {
	if dbPath == ":memory:" {
		return dbPath
	}
	return dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS trees (
		name TEXT PRIMARY KEY,
		data JSON NOT NULL,
		checksum TEXT NOT NULL,
		node_count INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_trees_updated ON trees(updated_at);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Save stores rec under name, replacing any previous record with that name.
// The record is validated first; an invalid record is never written.
func (r *Repository) Save(ctx context.Context, name string, rec domain.Record) (repository.TreeInfo, error) {
	name, err := normalizeName(name)
	if err != nil {
		return repository.TreeInfo{}, err
	}
	if err := rec.Validate(); err != nil {
		return repository.TreeInfo{}, err
	}

	data, err := json.Marshal(rec.Clone())
	if err != nil {
		return repository.TreeInfo{}, fmt.Errorf("failed to marshal tree %s: %w", name, err)
	}

	now := formatTime(r.now())
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO trees (name, data, checksum, node_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			data = excluded.data,
			checksum = excluded.checksum,
			node_count = excluded.node_count,
			updated_at = excluded.updated_at
	`, name, string(data), checksum(data), len(rec.Nodes), now, now)
	if err != nil {
		return repository.TreeInfo{}, fmt.Errorf("failed to save tree %s: %w", name, err)
	}

	return r.info(ctx, name)
}

// Load returns the record saved under name
func (r *Repository) Load(ctx context.Context, name string) (domain.Record, error) {
	name, err := normalizeName(name)
	if err != nil {
		return domain.Record{}, err
	}

	var row treeRow
	err = r.db.QueryRowContext(ctx, `SELECT `+treeColumns+`, data FROM trees WHERE name = ?`, name).
		Scan(append(row.scanArgs(), &row.Data)...)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Record{}, fmt.Errorf("%w: tree %q", domain.ErrNotFound, name)
	}
	if err != nil {
		return domain.Record{}, fmt.Errorf("failed to query tree %s: %w", name, err)
	}

	return row.toRecord()
}

// List returns all saved trees ordered by name
func (r *Repository) List(ctx context.Context) ([]repository.TreeInfo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+treeColumns+` FROM trees ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query trees: %w", err)
	}
	defer rows.Close()

	trees := []repository.TreeInfo{}
	for rows.Next() {
		var row treeRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan tree: %w", err)
		}
		info, err := row.toInfo()
		if err != nil {
			return nil, err
		}
		trees = append(trees, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trees: %w", err)
	}
	return trees, nil
}

// Delete removes the tree saved under name
func (r *Repository) Delete(ctx context.Context, name string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM trees WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete tree %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete tree %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: tree %q", domain.ErrNotFound, name)
	}
	return nil
}

func (r *Repository) info(ctx context.Context, name string) (repository.TreeInfo, error) {
	var row treeRow
	err := r.db.QueryRowContext(ctx, `SELECT `+treeColumns+` FROM trees WHERE name = ?`, name).
		Scan(row.scanArgs()...)
	if err != nil {
		return repository.TreeInfo{}, fmt.Errorf("failed to query tree %s: %w", name, err)
	}
	return row.toInfo()
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: tree name is required", domain.ErrInvalidInput)
	}
	if len(name) > maxNameLength {
		return "", fmt.Errorf("%w: tree name longer than %d bytes", domain.ErrInvalidInput, maxNameLength)
	}
	return name, nil
}
