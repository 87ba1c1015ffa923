// Package store provides the SQLite-backed budget categories served at GET /budget.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/theirongolddev/budgetview/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

var (
	// ErrNotFound means no category has the given title.
	ErrNotFound = errors.New("store: category not found")
	// ErrDuplicate means a category with the given title already exists.
	ErrDuplicate = errors.New("store: category already exists")
	// ErrEmptyTitle means a category was given a blank title.
	ErrEmptyTitle = errors.New("store: empty title")
)

// DefaultSlices seed an empty database.
var DefaultSlices = []model.BudgetSlice{
	{Title: "Eat out", Budget: 30},
	{Title: "Rent", Budget: 350},
	{Title: "Grocery", Budget: 90},
	{Title: "Utilities", Budget: 75},
	{Title: "Transport", Budget: 60},
	{Title: "Entertainment", Budget: 40},
	{Title: "Savings", Budget: 200},
}

// Entry is one stored category.
type Entry struct {
	ID        int64
	Position  int
	Title     string
	Budget    float64
	UpdatedAt time.Time
}

// Slice returns the entry as a budget slice.
func (e Entry) Slice() model.BudgetSlice {
	return model.BudgetSlice{Title: e.Title, Budget: e.Budget}
}

// Store is the budget database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at dbPath.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// List returns every category in position order.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, position, title, budget, updated_at FROM budget_slices ORDER BY position, id")
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var updated string
		if err := rows.Scan(&e.ID, &e.Position, &e.Title, &e.Budget, &updated); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, updated); err == nil {
			e.UpdatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Slices returns the categories as budget slices in position order.
func (s *Store) Slices(ctx context.Context) ([]model.BudgetSlice, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.BudgetSlice, len(entries))
	for i, e := range entries {
		out[i] = e.Slice()
	}
	return out, nil
}

// Count returns the number of categories.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM budget_slices").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting categories: %w", err)
	}
	return n, nil
}

// Add appends a category after the last position.
func (s *Store) Add(ctx context.Context, slice model.BudgetSlice) (Entry, error) {
	slice.Title = strings.TrimSpace(slice.Title)
	if slice.Title == "" {
		return Entry{}, ErrEmptyTitle
	}
	if err := slice.Validate(); err != nil {
		return Entry{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, err
	}
	defer func() { _ = tx.Rollback() }()

	e, err := insert(ctx, tx, slice, time.Now().UTC())
	if err != nil {
		return Entry{}, err
	}
	return e, tx.Commit()
}

func insert(ctx context.Context, tx *sql.Tx, slice model.BudgetSlice, now time.Time) (Entry, error) {
	var exists int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM budget_slices WHERE title = ?", slice.Title).Scan(&exists); err != nil {
		return Entry{}, err
	}
	if exists > 0 {
		return Entry{}, fmt.Errorf("%w: %q", ErrDuplicate, slice.Title)
	}

	var pos int
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position) + 1, 0) FROM budget_slices").Scan(&pos); err != nil {
		return Entry{}, err
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO budget_slices (position, title, budget, updated_at) VALUES (?, ?, ?, ?)",
		pos, slice.Title, slice.Budget, now.Format(time.RFC3339))
	if err != nil {
		return Entry{}, fmt.Errorf("inserting %q: %w", slice.Title, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Entry{}, err
	}
	return Entry{ID: id, Position: pos, Title: slice.Title, Budget: slice.Budget, UpdatedAt: now.Truncate(time.Second)}, nil
}

// SetBudget changes the budget of the category titled title.
func (s *Store) SetBudget(ctx context.Context, title string, budget float64) error {
	slice := model.BudgetSlice{Title: strings.TrimSpace(title), Budget: budget}
	if err := slice.Validate(); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE budget_slices SET budget = ?, updated_at = ? WHERE title = ?",
		slice.Budget, time.Now().UTC().Format(time.RFC3339), slice.Title)
	if err != nil {
		return fmt.Errorf("updating %q: %w", slice.Title, err)
	}
	return requireRow(res, slice.Title)
}

// Delete removes the category titled title.
func (s *Store) Delete(ctx context.Context, title string) error {
	title = strings.TrimSpace(title)
	res, err := s.db.ExecContext(ctx, "DELETE FROM budget_slices WHERE title = ?", title)
	if err != nil {
		return fmt.Errorf("deleting %q: %w", title, err)
	}
	return requireRow(res, title)
}

func requireRow(res sql.Result, title string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, title)
	}
	return nil
}

// SeedDefaults inserts DefaultSlices when the database is empty. It reports
// whether anything was inserted.
func (s *Store) SeedDefaults(ctx context.Context) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM budget_slices").Scan(&n); err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	now := time.Now().UTC()
	for _, sl := range DefaultSlices {
		if _, err := insert(ctx, tx, sl, now); err != nil {
			return false, err
		}
	}
	return true, tx.Commit()
}
