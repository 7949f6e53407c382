// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// SQLite keeps everything in a single file on disk: no network, no
// separate server process. It is the backend to reach for when a MongoDB
// instance is not around.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/aanand-mishra/friends-api/internal/storage"
	"github.com/aanand-mishra/friends-api/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

const selectColumns = "SELECT id, first_name, last_name, age FROM friends"

// SQLite is the concrete implementation of storage.Storage.
// A single *sql.DB is a connection pool and safe for concurrent use.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database file at path and prepares the schema.
func New(ctx context.Context, path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite.New: create dir: %w", err)
		}
	}

	// sql.Open only validates the driver name and DSN; the first real
	// connection happens on the first query.
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}
	// SQLite allows one writer at a time; a single connection queues
	// writers in the pool instead of failing with "database is locked".
	db.SetMaxOpenConns(1)

	s, err := NewWithDB(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an already opened *sql.DB and creates the friends table
// if it does not exist yet.
//
// Schema:
//
//	id         — opaque uuid assigned on insert
//	first_name — TEXT, never empty
//	last_name  — TEXT, never empty
//	age        — INTEGER in [1, 120]
func NewWithDB(ctx context.Context, db *sql.DB) (*SQLite, error) {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS friends (
			id         TEXT    PRIMARY KEY,
			first_name TEXT    NOT NULL,
			last_name  TEXT    NOT NULL,
			age        INTEGER NOT NULL CHECK (age BETWEEN 1 AND 120)
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFriend(row rowScanner) (types.Friend, error) {
	var friend types.Friend
	err := row.Scan(
		&friend.ID,
		&friend.FirstName,
		&friend.LastName,
		&friend.Age,
	)
	return friend, err
}

// CreateFriend inserts a new row. Placeholders keep user input out of
// the SQL text.
func (s *SQLite) CreateFriend(ctx context.Context, friend types.Friend) (types.Friend, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"INSERT INTO friends (id, first_name, last_name, age) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return types.Friend{}, fmt.Errorf("CreateFriend: prepare: %w", err)
	}
	defer stmt.Close()

	friend.ID = uuid.NewString()

	if _, err := stmt.ExecContext(ctx, friend.ID, friend.FirstName, friend.LastName, friend.Age); err != nil {
		return types.Friend{}, fmt.Errorf("CreateFriend: exec: %w", err)
	}

	return friend, nil
}

// GetFriendByID fetches exactly one row matched by id.
func (s *SQLite) GetFriendByID(ctx context.Context, id string) (types.Friend, error) {
	friend, err := scanFriend(s.Db.QueryRowContext(ctx, selectColumns+" WHERE id = ? LIMIT 1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Friend{}, storage.ErrNotFound
		}
		return types.Friend{}, fmt.Errorf("GetFriendByID: scan: %w", err)
	}

	return friend, nil
}

// GetFriends returns all rows in insertion order.
func (s *SQLite) GetFriends(ctx context.Context) ([]types.Friend, error) {
	rows, err := s.Db.QueryContext(ctx, selectColumns+" ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("GetFriends: query: %w", err)
	}
	defer rows.Close()

	// Non-nil so an empty table encodes as [] rather than null.
	friends := make([]types.Friend, 0)

	for rows.Next() {
		friend, err := scanFriend(rows)
		if err != nil {
			return nil, fmt.Errorf("GetFriends: scan row: %w", err)
		}
		friends = append(friends, friend)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetFriends: rows iteration: %w", err)
	}

	return friends, nil
}

// UpdateFriendByID replaces the friend's fields and re-reads the row inside
// the same transaction, so the caller gets exactly what was stored.
func (s *SQLite) UpdateFriendByID(ctx context.Context, id string, friend types.Friend) (types.Friend, error) {
	tx, err := s.Db.BeginTx(ctx, nil)
	if err != nil {
		return types.Friend{}, fmt.Errorf("UpdateFriendByID: begin: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"UPDATE friends SET first_name = ?, last_name = ?, age = ? WHERE id = ?",
		friend.FirstName, friend.LastName, friend.Age, id,
	)
	if err != nil {
		return types.Friend{}, fmt.Errorf("UpdateFriendByID: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return types.Friend{}, fmt.Errorf("UpdateFriendByID: rows affected: %w", err)
	}
	if affected == 0 {
		return types.Friend{}, storage.ErrNotFound
	}

	updated, err := scanFriend(tx.QueryRowContext(ctx, selectColumns+" WHERE id = ? LIMIT 1", id))
	if err != nil {
		return types.Friend{}, fmt.Errorf("UpdateFriendByID: scan: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return types.Friend{}, fmt.Errorf("UpdateFriendByID: commit: %w", err)
	}

	return updated, nil
}

// DeleteFriendByID removes a row and returns it as it was before removal.
func (s *SQLite) DeleteFriendByID(ctx context.Context, id string) (types.Friend, error) {
	tx, err := s.Db.BeginTx(ctx, nil)
	if err != nil {
		return types.Friend{}, fmt.Errorf("DeleteFriendByID: begin: %w", err)
	}
	defer tx.Rollback()

	removed, err := scanFriend(tx.QueryRowContext(ctx, selectColumns+" WHERE id = ? LIMIT 1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Friend{}, storage.ErrNotFound
		}
		return types.Friend{}, fmt.Errorf("DeleteFriendByID: scan: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM friends WHERE id = ?", id); err != nil {
		return types.Friend{}, fmt.Errorf("DeleteFriendByID: exec: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return types.Friend{}, fmt.Errorf("DeleteFriendByID: commit: %w", err)
	}

	return removed, nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.Db.PingContext(ctx)
}

func (s *SQLite) Close(_ context.Context) error {
	return s.Db.Close()
}
