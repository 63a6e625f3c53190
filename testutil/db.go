// Package testutil holds shared database helpers for integration tests.
//
// Integration tests are opt-in: every helper keys on the TEST_DATABASE_URL
// environment variable and skips the calling test when it is unset, so the
// unit-test suite runs green on machines with no Postgres.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver "pgx"
)

// dsnEnv names the environment variable holding the test database URL.
const dsnEnv = "TEST_DATABASE_URL"

// NewPool opens a *pgxpool.Pool against the test database, verifying
// connectivity with a ping. The pool closes when the test and all its
// subtests finish.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), dsn(t))
	if err != nil {
		t.Fatalf("testutil.NewPool: open pool: %v", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}

	t.Cleanup(pool.Close)
	return pool
}

// NewSQLDB opens a *sql.DB against the test database via the pgx
// database/sql driver. goose works on *sql.DB, so migration tests go
// through here rather than NewPool. The handle closes when the test
// finishes.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", dsn(t))
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: open: %v", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Fatalf("testutil.NewSQLDB: ping: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// MustOpenSQLDB opens a *sql.DB for dsn, panicking on failure. It exists
// for TestMain, which has no *testing.T to fail or skip with; the caller
// decides whether an empty dsn means "skip setup" before calling.
// The caller owns the returned handle.
func MustOpenSQLDB(dsn string) *sql.DB {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		panic("testutil.MustOpenSQLDB: open: " + err.Error())
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		panic("testutil.MustOpenSQLDB: ping: " + err.Error())
	}
	return db
}

// dsn returns the test database URL, skipping the test when unset.
func dsn(t *testing.T) string {
	t.Helper()
	v := os.Getenv(dsnEnv)
	if v == "" {
		t.Skipf("%s not set; skipping integration test", dsnEnv)
	}
	return v
}
