package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"carteira/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists the ledger in a local SQLite database. Save keeps
// the blob semantics of the file store: the whole ledger is replaced in
// one transaction.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (core.Ledger, error) {
	var l core.Ledger

	row := s.db.QueryRowContext(ctx, `SELECT theme, user_name FROM settings WHERE id = 1`)
	if err := row.Scan(&l.Settings.Theme, &l.Settings.UserName); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.WarnContext(ctx, "Settings row unreadable, using seed", "error", err)
		}
		return s.seed(ctx), nil
	}
	l.Settings = l.Settings.Normalized()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, amount_cents, tx_date, method, category
		 FROM transactions ORDER BY position`)
	if err != nil {
		slog.WarnContext(ctx, "Transactions unreadable, using seed", "error", err)
		return s.seed(ctx), nil
	}
	defer rows.Close()

	for rows.Next() {
		var (
			tx       core.Transaction
			dateStr  string
			category sql.NullString
		)
		if err := rows.Scan(&tx.ID, &tx.Kind, &tx.Amount.Cents, &dateStr, &tx.Method, &category); err != nil {
			slog.WarnContext(ctx, "Transaction row unreadable, using seed", "error", err)
			return s.seed(ctx), nil
		}
		date, err := core.ParseDate(dateStr)
		if err != nil {
			slog.WarnContext(ctx, "Transaction date unparsable, using seed", "error", err)
			return s.seed(ctx), nil
		}
		tx.Date = date
		if category.Valid {
			tx.Category = core.Category(category.String)
		}
		l.Transactions = append(l.Transactions, tx)
	}
	if err := rows.Err(); err != nil {
		slog.WarnContext(ctx, "Transaction scan failed, using seed", "error", err)
		return s.seed(ctx), nil
	}

	return l, nil
}

func (s *SQLiteStore) Save(ctx context.Context, l core.Ledger) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	for i, t := range l.Transactions {
		var category any
		if t.Category != "" {
			category = string(t.Category)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (id, position, kind, amount_cents, tx_date, method, category)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.ID, i, string(t.Kind), t.Amount.Cents, t.Date.String(), string(t.Method), category)
		if err != nil {
			return &PersistenceError{Op: "save", Err: err}
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO settings (id, theme, user_name) VALUES (1, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET theme = excluded.theme, user_name = excluded.user_name`,
		l.Settings.Theme, l.Settings.UserName)
	if err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	return nil
}

func (s *SQLiteStore) seed(ctx context.Context) core.Ledger {
	l := core.SeedLedger()
	if err := s.Save(ctx, l); err != nil {
		slog.WarnContext(ctx, "Could not persist seed ledger", "error", err)
	}
	return l
}
