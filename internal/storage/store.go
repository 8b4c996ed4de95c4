package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore owns the ledger database: the connection, the query layer,
// and the file itself (for backup and restore).
type SQLiteStore struct {
	db   *sql.DB
	path string
	*Queries
}

func Open(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
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

	return &SQLiteStore{
		db:      db,
		path:    dbPath,
		Queries: New(db),
	}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the location of the database file.
func (s *SQLiteStore) Path() string {
	return s.path
}

// InTx runs fn against a transaction-bound query set. Every multi-step
// mutation (insert plus accrual, credential replace, bulk clear) goes
// through here so a failure mid-way rolls everything back.
func (s *SQLiteStore) InTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(s.Queries.WithTx(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.ErrorContext(ctx, "Rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Backup copies the database file to dst. A WAL checkpoint first forces
// pending pages into the main file so the copy is complete.
func (s *SQLiteStore) Backup(ctx context.Context, dst string) error {
	if _, err := s.db.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		slog.WarnContext(ctx, "WAL checkpoint before backup failed", "error", err)
	}
	if err := copyFile(s.path, dst); err != nil {
		return fmt.Errorf("backup database: %w", err)
	}
	slog.InfoContext(ctx, "Database backup written", "path", dst)
	return nil
}

// Restore replaces the live database file with src and reopens the
// connection. The previous contents are gone afterwards.
func (s *SQLiteStore) Restore(ctx context.Context, src string) error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database before restore: %w", err)
	}
	if err := copyFile(src, s.path); err != nil {
		return fmt.Errorf("restore database: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("reopen restored database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("ping restored database: %w", err)
	}
	if err := RunMigrations(s.path); err != nil {
		db.Close()
		return fmt.Errorf("migrate restored database: %w", err)
	}

	s.db = db
	s.Queries = New(db)
	slog.InfoContext(ctx, "Database restored", "path", s.path, "source", src)
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
