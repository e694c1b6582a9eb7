package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound reports that the requested record does not exist.
	ErrNotFound = errors.New("store: record not found")

	// ErrConcurrentUpdate reports that the record's concurrency token no
	// longer matched at commit time. Callers should re-read and retry.
	ErrConcurrentUpdate = errors.New("store: record was modified concurrently")

	// ErrUniqueViolation reports a unique-constraint conflict, e.g. a
	// duplicate lookup name.
	ErrUniqueViolation = errors.New("store: unique constraint violated")
)

// classify maps driver-level failures onto the store's sentinel errors while
// preserving the original error for logging.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", ErrUniqueViolation, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
