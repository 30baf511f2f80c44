/*
Package sqlite provides a SQLite-backed ledger.Store.

PURPOSE:
  Keeps day statuses across restarts. The ledger rules are unchanged: this
  package only stores one row per date and never interprets it.

KEY TABLES:
  day_status: date (YYYY-MM-DD, primary key), kind, value, updated_at
  seed_state: a single row (id = 1) with through, cleared, updated_at

VALUES:
  Advance and payment amounts are stored as decimal strings, never floats.
  Rest and work rows have a NULL value.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety and a single open connection, so an
  in-memory database is shared by every query.

WAL MODE:
  File databases are opened with WAL (Write-Ahead Logging) so readers do
  not block the writer.

USAGE:
  st, err := sqlite.New("./data/daybook.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

  l := ledger.New(st, ledger.DefaultRates())

MIGRATION:
  Versioned SQL files under migrations/ are applied with golang-migrate on
  New().

SEE ALSO:
  - ledger/store.go: Store interface
  - ledger/store/memory.go: In-memory implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/daybook/calendar"
	"github.com/warp/daybook/ledger"
)

// Store implements ledger.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ ledger.Store = (*Store)(nil)

// New opens (and migrates) the database at dbPath.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// =============================================================================
// LEDGER STORE (ledger.Store interface)
// =============================================================================

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const upsertQuery = `
	INSERT INTO day_status (date, kind, value, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(date) DO UPDATE SET
		kind = excluded.kind,
		value = excluded.value,
		updated_at = excluded.updated_at
`

// Get returns the status of a day.
func (s *Store) Get(ctx context.Context, date calendar.Date) (ledger.Status, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		kind  string
		value decimal.NullDecimal
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT kind, value FROM day_status WHERE date = ?",
		date.String(),
	).Scan(&kind, &value)
	if err == sql.ErrNoRows {
		return ledger.Status{}, false, nil
	}
	if err != nil {
		return ledger.Status{}, false, fmt.Errorf("failed to get day %s: %w", date, err)
	}

	return ledger.Status{Kind: ledger.Kind(kind), Value: value}, true, nil
}

// Put sets the status of a day, replacing any previous one.
func (s *Store) Put(ctx context.Context, date calendar.Date, status ledger.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.put(ctx, s.db, date, status)
}

func (s *Store) put(ctx context.Context, db execer, date calendar.Date, status ledger.Status) error {
	_, err := db.ExecContext(ctx, upsertQuery,
		date.String(),
		string(status.Kind),
		status.Value,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to put day %s: %w", date, err)
	}
	return nil
}

// PutBatch sets many days in one transaction.
func (s *Store) PutBatch(ctx context.Context, entries []ledger.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	for _, e := range entries {
		if err := s.put(ctx, sqlTx, e.Date, e.Status); err != nil {
			return err
		}
	}

	return sqlTx.Commit()
}

// Delete unsets a day.
func (s *Store) Delete(ctx context.Context, date calendar.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM day_status WHERE date = ?", date.String()); err != nil {
		return fmt.Errorf("failed to delete day %s: %w", date, err)
	}
	return nil
}

// Clear unsets every day.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM day_status"); err != nil {
		return fmt.Errorf("failed to clear days: %w", err)
	}
	return nil
}

// Load returns every entry ordered by date. The canonical date form sorts
// lexically in calendar order.
func (s *Store) Load(ctx context.Context) ([]ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT date, kind, value FROM day_status ORDER BY date ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query days: %w", err)
	}
	defer rows.Close()

	entries := []ledger.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func scanEntry(rows *sql.Rows) (ledger.Entry, error) {
	var (
		date  string
		kind  string
		value decimal.NullDecimal
	)
	if err := rows.Scan(&date, &kind, &value); err != nil {
		return ledger.Entry{}, fmt.Errorf("failed to scan day: %w", err)
	}

	d, err := calendar.ParseDate(date)
	if err != nil {
		return ledger.Entry{}, fmt.Errorf("corrupt day row: %w", err)
	}
	return ledger.Entry{
		Date:   d,
		Status: ledger.Status{Kind: ledger.Kind(kind), Value: value},
	}, nil
}

// =============================================================================
// SEED STATE
// =============================================================================

// SeedState returns the single seed_state row, ok=false before the first
// seed or clear.
func (s *Store) SeedState(ctx context.Context) (ledger.SeedState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		through sql.NullString
		cleared bool
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT through, cleared FROM seed_state WHERE id = 1",
	).Scan(&through, &cleared)
	if err == sql.ErrNoRows {
		return ledger.SeedState{}, false, nil
	}
	if err != nil {
		return ledger.SeedState{}, false, fmt.Errorf("failed to get seed state: %w", err)
	}

	state := ledger.SeedState{Cleared: cleared}
	if through.Valid {
		d, err := calendar.ParseDate(through.String)
		if err != nil {
			return ledger.SeedState{}, false, fmt.Errorf("corrupt seed state: %w", err)
		}
		state.Through = d
	}
	return state, true, nil
}

// PutSeedState replaces the seed_state row.
func (s *Store) PutSeedState(ctx context.Context, state ledger.SeedState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var through sql.NullString
	if !state.Through.IsZero() {
		through = sql.NullString{String: state.Through.String(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO seed_state (id, through, cleared, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			through = excluded.through,
			cleared = excluded.cleared,
			updated_at = excluded.updated_at
	`, through, state.Cleared, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to put seed state: %w", err)
	}
	return nil
}

// Len returns the number of stored days.
func (s *Store) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM day_status").Scan(&n)
	return n, err
}
