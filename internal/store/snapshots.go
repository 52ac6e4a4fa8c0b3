package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound reports a missing snapshot
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is the last successfully fetched payload of one sheet
type Snapshot struct {
	SheetName string
	Payload   []byte
	FetchedAt time.Time
}

// Snapshots is the sheet_snapshots repository
type Snapshots struct {
	db *DB
}

// NewSnapshots creates a repository over a migrated database
func NewSnapshots(db *DB) *Snapshots {
	return &Snapshots{db: db}
}

// Save inserts or replaces the snapshot for a sheet
func (s *Snapshots) Save(ctx context.Context, snap Snapshot) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO sheet_snapshots (sheet_name, payload, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT (sheet_name) DO UPDATE SET
			payload = excluded.payload,
			fetched_at = excluded.fetched_at
	`), snap.SheetName, string(snap.Payload), snap.FetchedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", snap.SheetName, err)
	}
	return nil
}

// Get returns the snapshot for a sheet, or ErrNotFound
func (s *Snapshots) Get(ctx context.Context, sheetName string) (Snapshot, error) {
	var payload, fetchedAt string
	err := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT payload, fetched_at FROM sheet_snapshots WHERE sheet_name = ?
	`), sheetName).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("get snapshot %s: %w", sheetName, err)
	}

	at, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse snapshot time %q: %w", fetchedAt, err)
	}
	return Snapshot{SheetName: sheetName, Payload: []byte(payload), FetchedAt: at}, nil
}

// List returns every snapshot ordered by sheet name, without payloads
func (s *Snapshots) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT sheet_name, fetched_at FROM sheet_snapshots ORDER BY sheet_name`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var name, fetchedAt string
		if err := rows.Scan(&name, &fetchedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		at, err := time.Parse(time.RFC3339, fetchedAt)
		if err != nil {
			return nil, fmt.Errorf("parse snapshot time %q: %w", fetchedAt, err)
		}
		out = append(out, Snapshot{SheetName: name, FetchedAt: at})
	}
	return out, rows.Err()
}
