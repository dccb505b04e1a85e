package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const (
	// migration quries
	createDispatchesTableSQL = `
  CREATE TABLE IF NOT EXISTS dispatches (
  id TEXT PRIMARY KEY,
  identity TEXT NOT NULL,
  rows TEXT NOT NULL,
  row_count INTEGER NOT NULL,
  dispatched_at DATETIME NOT NULL,
  error TEXT NOT NULL DEFAULT ''
  )`

	createVerificationsTableSQL = `
  CREATE TABLE IF NOT EXISTS verifications (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  dispatch_id TEXT NOT NULL,
  verified_at DATETIME NOT NULL,
  outcome TEXT NOT NULL,
  still_pending TEXT NOT NULL,
  FOREIGN KEY (dispatch_id) REFERENCES dispatches(id)
  )`

	createDispatchesIdentityIndexSQL = `CREATE INDEX IF NOT EXISTS idx_dispatches_identity ON dispatches (identity, dispatched_at)`

	// dispatch queries
	insertDispatchSQL = `INSERT INTO dispatches (id, identity, rows, row_count, dispatched_at, error) VALUES (?, ?, ?, ?, ?, ?)`

	// verification queries
	insertVerificationSQL = `INSERT INTO verifications (dispatch_id, verified_at, outcome, still_pending) VALUES (?, ?, ?, ?)`

	// newest verification per dispatch
	listDispatchesSQL = `
  SELECT d.id, d.identity, d.rows, d.dispatched_at, d.error,
         v.verified_at, v.outcome, v.still_pending
  FROM dispatches d
  LEFT JOIN verifications v ON v.id = (
    SELECT MAX(id) FROM verifications WHERE dispatch_id = d.id
  )
  WHERE (? = '' OR d.identity = ?)
  ORDER BY d.dispatched_at DESC
  LIMIT ?`
)

type (
	// one confirm request as it left the client
	Dispatch struct {
		ID           uuid.UUID
		Identity     IdentityCode
		Rows         []RowRef
		DispatchedAt time.Time
		Error        string
	}

	// what the reconciling fetch saw afterwards
	Verification struct {
		DispatchID   uuid.UUID
		VerifiedAt   time.Time
		Outcome      string
		StillPending []RowRef
	}

	JournalEntry struct {
		Dispatch     Dispatch
		Verification *Verification
	}
)

// Journal keeps an audit trail of confirmations. It is write-only as far as
// the workflow is concerned; record state always comes from the backend.
type Journal interface {
	RecordDispatch(ctx context.Context, d Dispatch) error
	RecordVerification(ctx context.Context, v Verification) error
}

type nopJournal struct{}

func (nopJournal) RecordDispatch(context.Context, Dispatch) error         { return nil }
func (nopJournal) RecordVerification(context.Context, Verification) error { return nil }

type Repo struct {
	db *sql.DB
}

func NewRepo(dbPath string) (*Repo, error) {
	// ensure directory exists
	err := os.MkdirAll(filepath.Dir(dbPath), os.ModePerm)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// open database
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// reconciling fetches write from timer goroutines
	db.SetMaxOpenConns(1)

	// verify connection with database
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := &Repo{db: db}

	// run migrations
	if err := repo.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

func (r *Repo) Close() error {
	return r.db.Close()
}

// runs migrations on initial start
func (r *Repo) runMigrations() error {
	tables := []string{
		createDispatchesTableSQL,
		createVerificationsTableSQL,
		createDispatchesIdentityIndexSQL,
	}

	for _, tableSQL := range tables {
		if _, err := r.db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// +------------------------+
// |                        |
// |    Dispatch Queries    |
// |                        |
// +------------------------+

func (r *Repo) RecordDispatch(ctx context.Context, d Dispatch) error {
	rows, err := encodeRows(d.Rows)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, insertDispatchSQL,
		d.ID.String(), d.Identity.String(), rows, len(d.Rows), d.DispatchedAt.UTC(), d.Error)
	if err != nil {
		return fmt.Errorf("error inserting dispatch: %w", err)
	}
	return nil
}

func (r *Repo) RecordVerification(ctx context.Context, v Verification) error {
	pending, err := encodeRows(v.StillPending)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, insertVerificationSQL,
		v.DispatchID.String(), v.VerifiedAt.UTC(), v.Outcome, pending)
	if err != nil {
		return fmt.Errorf("error inserting verification: %w", err)
	}
	return nil
}

// lists the newest dispatches, all identities when identity is empty
func (r *Repo) ListDispatches(ctx context.Context, identity string, limit int) ([]JournalEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, listDispatchesSQL, identity, identity, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing dispatches: %w", err)
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var (
			id, ident, rowsJSON, dispatchErr string
			dispatchedAt                     time.Time
			verifiedAt                       sql.NullTime
			outcome, pendingJSON             sql.NullString
		)
		if err := rows.Scan(&id, &ident, &rowsJSON, &dispatchedAt, &dispatchErr,
			&verifiedAt, &outcome, &pendingJSON); err != nil {
			return nil, fmt.Errorf("error scanning dispatch: %w", err)
		}

		dispatchID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid dispatch id %q: %w", id, err)
		}
		dispatched, err := decodeRows(rowsJSON)
		if err != nil {
			return nil, err
		}

		entry := JournalEntry{Dispatch: Dispatch{
			ID:           dispatchID,
			Identity:     IdentityCode(ident),
			Rows:         dispatched,
			DispatchedAt: dispatchedAt,
			Error:        dispatchErr,
		}}

		if verifiedAt.Valid {
			pending, err := decodeRows(pendingJSON.String)
			if err != nil {
				return nil, err
			}
			entry.Verification = &Verification{
				DispatchID:   dispatchID,
				VerifiedAt:   verifiedAt.Time,
				Outcome:      outcome.String,
				StillPending: pending,
			}
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func encodeRows(rows []RowRef) (string, error) {
	if rows == nil {
		rows = []RowRef{}
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("error encoding rows: %w", err)
	}
	return string(b), nil
}

func decodeRows(s string) ([]RowRef, error) {
	if s == "" {
		return nil, nil
	}
	var rows []RowRef
	if err := json.Unmarshal([]byte(s), &rows); err != nil {
		return nil, fmt.Errorf("error decoding rows: %w", err)
	}
	return rows, nil
}
