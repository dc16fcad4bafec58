// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package migrations

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	_ = mock // goose talks to the DB on its own; every call is unexpected

	err = Migrate(context.Background(), db, nil)
	if err == nil {
		t.Fatal("expected error from Migrate, got nil")
	}

	if !strings.Contains(err.Error(), "migration error") {
		t.Errorf("expected wrapped migration error, got: %v", err)
	}
}

func TestMigrate_NilDB(t *testing.T) {
	var db *sql.DB

	err := Migrate(context.Background(), db, nil)
	if err == nil {
		t.Fatal("expected error when db is nil, got nil")
	}

	if !errors.Is(err, ErrNilDB) {
		t.Errorf("expected ErrNilDB, got: %v", err)
	}
}

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&count)
	require.NoError(t, err)

	return count == 1
}

func TestMigrate_CreatesTables(t *testing.T) {
	db := openSQLite(t)

	require.NoError(t, Migrate(context.Background(), db, nil))

	assert.True(t, tableExists(t, db, "users"))
	assert.True(t, tableExists(t, db, "transactions"))
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, db, nil))
	_, err := db.Exec(`INSERT INTO users (u_name, p_word) VALUES ('alice', 'hash')`)
	require.NoError(t, err)

	// second start-up against the same file must keep the data
	require.NoError(t, Migrate(ctx, db, nil))

	var count int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM users`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestMigrate_PreexistingTablesAreKept(t *testing.T) {
	db := openSQLite(t)

	// tables created by a build that had no goose bookkeeping
	_, err := db.Exec(`CREATE TABLE users (u_name TEXT NOT NULL UNIQUE, p_word TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO users (u_name, p_word) VALUES ('bob', 'hash')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(context.Background(), db, nil))

	var count int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM users`).Scan(&count))
	assert.Equal(t, 1, count)
	assert.True(t, tableExists(t, db, "transactions"))
}

func TestMigrate_SchemaConstraints(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, Migrate(context.Background(), db, nil))

	tests := []struct {
		name  string
		query string
	}{
		{name: "empty username", query: `INSERT INTO users (u_name, p_word) VALUES ('', 'hash')`},
		{name: "zero amount", query: `INSERT INTO transactions (u_from, u_to, t_date, t_amount) VALUES ('a', 'b', '2026-01-01 00:00:00', 0)`},
		{name: "negative amount", query: `INSERT INTO transactions (u_from, u_to, t_date, t_amount) VALUES ('a', 'b', '2026-01-01 00:00:00', -5)`},
		{name: "self transfer", query: `INSERT INTO transactions (u_from, u_to, t_date, t_amount) VALUES ('a', 'a', '2026-01-01 00:00:00', 5)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.Exec(tt.query)
			assert.Error(t, err)
		})
	}
}
