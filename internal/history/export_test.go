package history

import (
	"database/sql"
	"errors"
	"time"
)

// DB exposes the internal *sql.DB for test helpers in history_test.
// This file only compiles during `go test`.
func (s *Store) DB() *sql.DB {
	return s.db
}

// SetNow replaces the package clock and returns a func restoring it.
func SetNow(fn func() time.Time) (restore func()) {
	prev := timeNow
	timeNow = fn
	return func() { timeNow = prev }
}

// ErrInjected is returned by FailExecMatching.
var ErrInjected = errors.New("injected failure")

// FailExecMatching makes every Exec whose query satisfies match fail with
// ErrInjected.
func (s *Store) FailExecMatching(match func(query string) bool) {
	s.hooks.exec = func(db execer, query string, args ...any) (sql.Result, error) {
		if match(query) {
			return nil, ErrInjected
		}
		return db.Exec(query, args...)
	}
}

// FailCommit makes every transaction commit fail with ErrInjected.
func (s *Store) FailCommit() {
	s.hooks.commit = func(tx *sql.Tx) error {
		_ = tx.Rollback()
		return ErrInjected
	}
}

// Migrate re-runs the schema migration against an open store.
func (s *Store) Migrate() error {
	return s.migrate()
}
