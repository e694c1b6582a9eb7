package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// OpenSQLite opens a sqlite-backed bun handle. Connections are capped at one
// so in-memory databases behave: each sqlite connection to :memory: is a
// separate database otherwise.
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqldb.SetMaxOpenConns(1)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// OpenPostgres opens a Postgres-backed bun handle via lib/pq.
func OpenPostgres(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// CreateSchema creates tables for the given models when absent. This is the
// dev/test bootstrap path; durable schema management lives outside this
// repository.
func CreateSchema(ctx context.Context, db *bun.DB, models ...any) error {
	for _, m := range models {
		if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", m, err)
		}
	}
	return nil
}
