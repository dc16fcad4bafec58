package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-user-ledger/internal/config"
	"github.com/MKhiriev/go-user-ledger/internal/logger"
	"github.com/MKhiriev/go-user-ledger/models"
)

func testDBConfig(path string) config.DB {
	return config.DB{Path: path, BusyTimeout: time.Second, MaxOpenConns: 1}
}

// newTestSQLiteDB opens and migrates a fresh database file in a temp dir.
func newTestSQLiteDB(t *testing.T) (*DB, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ledger.db")
	db, err := NewConnectSQLite(context.Background(), testDBConfig(path), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate(context.Background()))

	return db, path
}

func TestNewConnectSQLite_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	db, err := NewConnectSQLite(context.Background(), testDBConfig(path), logger.Nop())
	require.NoError(t, err)
	defer db.Close()

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.False(t, info.IsDir())
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestNewConnectSQLite_EmptyPath(t *testing.T) {
	_, err := NewConnectSQLite(context.Background(), testDBConfig(""), logger.Nop())
	assert.ErrorIs(t, err, ErrOpeningDatabase)
}

func TestNewConnectSQLite_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "ledger.db")

	_, err := NewConnectSQLite(context.Background(), testDBConfig(path), logger.Nop())
	assert.ErrorIs(t, err, ErrOpeningDatabase)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestNewConnectSQLite_NotADatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.db")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("not a database "), 300), 0o600))

	_, err := NewConnectSQLite(context.Background(), testDBConfig(path), logger.Nop())
	assert.ErrorIs(t, err, ErrOpeningDatabase)
	assert.ErrorIs(t, err, ErrNotADatabase)
}

func TestNewConnectSQLite_InMemory(t *testing.T) {
	cfg := testDBConfig(inMemoryPath)
	cfg.MaxOpenConns = 4

	db, err := NewConnectSQLite(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, 1, db.Stats().MaxOpenConnections)
	require.NoError(t, db.Migrate(context.Background()))

	// the schema must be visible on the single pooled connection
	repo := NewUserRepository(db, logger.Nop())
	require.NoError(t, repo.CreateUser(context.Background(), models.User{Username: "alice", PasswordHash: "h"}))
	_, err = repo.FindUserByUsername(context.Background(), "alice")
	assert.NoError(t, err)
}

func TestSqliteDSN(t *testing.T) {
	dsn := sqliteDSN(config.DB{Path: "/tmp/ledger.db", BusyTimeout: 1500 * time.Millisecond})
	assert.Equal(t, "/tmp/ledger.db?_busy_timeout=1500&_txlock=immediate", dsn)
}

func TestMigrate_Reopen(t *testing.T) {
	db, path := newTestSQLiteDB(t)

	users := NewUserRepository(db, logger.Nop())
	require.NoError(t, users.CreateUser(context.Background(), models.User{Username: "alice", PasswordHash: "h"}))
	require.NoError(t, db.Close())

	reopened, err := NewConnectSQLite(context.Background(), testDBConfig(path), logger.Nop())
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.Migrate(context.Background()))

	found, err := NewUserRepository(reopened, logger.Nop()).FindUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Username)
}

// ── Repositories against a real database ────────────────────────────────────

func TestSQLite_UserRepository(t *testing.T) {
	db, _ := newTestSQLiteDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db, logger.Nop())

	require.NoError(t, repo.CreateUser(ctx, models.User{Username: "alice", PasswordHash: "first"}))

	err := repo.CreateUser(ctx, models.User{Username: "alice", PasswordHash: "second"})
	assert.ErrorIs(t, err, ErrLoginAlreadyExists)

	err = repo.CreateUser(ctx, models.User{Username: "", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrConstraintViolation)

	found, err := repo.FindUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "first", found.PasswordHash)

	_, err = repo.FindUserByUsername(ctx, "bob")
	assert.ErrorIs(t, err, ErrNoUserWasFound)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT count(*) FROM users WHERE u_name = 'alice'`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSQLite_CreateTransfer(t *testing.T) {
	db, _ := newTestSQLiteDB(t)
	ctx := context.Background()
	storages := NewStorages(db, logger.Nop())

	require.NoError(t, storages.UserRepository.CreateUser(ctx, models.User{Username: "A", PasswordHash: "h"}))
	require.NoError(t, storages.UserRepository.CreateUser(ctx, models.User{Username: "B", PasswordHash: "h"}))

	start := time.Now().UTC().Truncate(time.Second)
	transfer, err := storages.TransferRepository.CreateTransfer(ctx, models.TransferRequest{From: "A", To: "B", Amount: 100}, true)
	end := time.Now().UTC()
	require.NoError(t, err)

	assert.Equal(t, "A", transfer.From)
	assert.Equal(t, "B", transfer.To)
	assert.Equal(t, int64(100), transfer.Amount)
	assert.Positive(t, transfer.ID)
	assert.False(t, transfer.Timestamp.Before(start), "timestamp %v before %v", transfer.Timestamp, start)
	assert.False(t, transfer.Timestamp.After(end), "timestamp %v after %v", transfer.Timestamp, end)

	var (
		from, to, date string
		amount         int64
	)
	require.NoError(t, db.QueryRowContext(ctx, `SELECT u_from, u_to, t_date, t_amount FROM transactions`).Scan(&from, &to, &date, &amount))
	assert.Equal(t, "A", from)
	assert.Equal(t, "B", to)
	assert.Equal(t, int64(100), amount)
	assert.Equal(t, transfer.Timestamp.Format(models.TransferTimeLayout), date)
}

func TestSQLite_CreateTransfer_RejectedLeavesNoRow(t *testing.T) {
	db, _ := newTestSQLiteDB(t)
	ctx := context.Background()
	storages := NewStorages(db, logger.Nop())

	require.NoError(t, storages.UserRepository.CreateUser(ctx, models.User{Username: "A", PasswordHash: "h"}))

	_, err := storages.TransferRepository.CreateTransfer(ctx, models.TransferRequest{From: "A", To: "ghost", Amount: 1}, true)
	assert.ErrorIs(t, err, ErrPartyNotFound)

	_, err = storages.TransferRepository.CreateTransfer(ctx, models.TransferRequest{From: "A", To: "B", Amount: 0}, false)
	assert.ErrorIs(t, err, ErrConstraintViolation)

	_, err = storages.TransferRepository.CreateTransfer(ctx, models.TransferRequest{From: "A", To: "A", Amount: 1}, false)
	assert.ErrorIs(t, err, ErrConstraintViolation)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT count(*) FROM transactions`).Scan(&count))
	assert.Zero(t, count)
}

func TestSQLite_TimestampsAreMonotonic(t *testing.T) {
	db, _ := newTestSQLiteDB(t)
	ctx := context.Background()
	repo := NewTransferRepository(db, logger.Nop())

	// a row stamped in the future simulates a clock that stepped back
	future := time.Now().UTC().Add(time.Hour).Format(models.TransferTimeLayout)
	_, err := db.ExecContext(ctx, `INSERT INTO transactions (u_from, u_to, t_date, t_amount) VALUES ('X', 'Y', ?, 1)`, future)
	require.NoError(t, err)

	transfer, err := repo.CreateTransfer(ctx, models.TransferRequest{From: "A", To: "B", Amount: 5}, false)
	require.NoError(t, err)
	assert.Equal(t, future, transfer.Timestamp.Format(models.TransferTimeLayout))
	assert.True(t, transfer.Timestamp.After(time.Now()))
}

func TestSQLite_ListTransfersAndBalance(t *testing.T) {
	db, _ := newTestSQLiteDB(t)
	ctx := context.Background()
	repo := NewTransferRepository(db, logger.Nop())

	requests := []models.TransferRequest{
		{From: "A", To: "B", Amount: 100},
		{From: "B", To: "C", Amount: 30},
		{From: "C", To: "A", Amount: 10},
	}
	for _, request := range requests {
		_, err := repo.CreateTransfer(ctx, request, false)
		require.NoError(t, err)
	}

	all, err := repo.ListTransfers(ctx, models.TransferFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID)
		assert.False(t, all[i].Timestamp.Before(all[i-1].Timestamp))
	}

	forB, err := repo.ListTransfers(ctx, models.TransferFilter{Username: "B"})
	require.NoError(t, err)
	assert.Len(t, forB, 2)

	fromC, err := repo.ListTransfers(ctx, models.TransferFilter{From: "C", Limit: 1})
	require.NoError(t, err)
	require.Len(t, fromC, 1)
	assert.Equal(t, "A", fromC[0].To)

	future, err := repo.ListTransfers(ctx, models.TransferFilter{Since: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, future)

	balances := map[string]int64{"A": -90, "B": 70, "C": 20, "nobody": 0}
	for user, want := range balances {
		got, err := repo.Balance(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, want, got, user)
	}
}

func TestSQLite_BusyWriter(t *testing.T) {
	db, path := newTestSQLiteDB(t)
	ctx := context.Background()

	cfg := testDBConfig(path)
	cfg.BusyTimeout = 0
	other, err := NewConnectSQLite(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	defer other.Close()

	// hold the write lock on the first handle
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	_, err = NewTransferRepository(other, logger.Nop()).CreateTransfer(ctx, models.TransferRequest{From: "A", To: "B", Amount: 1}, false)
	assert.ErrorIs(t, err, ErrDatabaseBusy)
}
