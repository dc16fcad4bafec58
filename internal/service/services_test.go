package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-user-ledger/internal/config"
	"github.com/MKhiriev/go-user-ledger/internal/logger"
	"github.com/MKhiriev/go-user-ledger/internal/store"
)

// newSQLiteServices wires services to a fresh database file, the same way
// the application does.
func newSQLiteServices(t *testing.T) (*Services, *store.DB) {
	t.Helper()
	ctx := context.Background()

	cfg := config.DB{Path: filepath.Join(t.TempDir(), "ledger.db"), BusyTimeout: time.Second, MaxOpenConns: 1}
	db, err := store.NewConnectSQLite(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(ctx))

	return NewServices(store.NewStorages(db, logger.Nop()), testAppConfig(), logger.Nop()), db
}

func countRows(t *testing.T, db *store.DB, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRowContext(context.Background(), query, args...).Scan(&n))
	return n
}

func TestSQLite_RegisterThenVerify(t *testing.T) {
	services, _ := newSQLiteServices(t)
	ctx := context.Background()

	pairs := map[string]string{
		"alice":         "correct horse battery",
		"bob":           "p@ssw0rd!",
		"кирилл":        "пароль-пароль",
		"with space":    "        ",
		"emoji-user-🙂": "🙂🙂🙂🙂🙂🙂🙂🙂",
	}

	for username, password := range pairs {
		require.NoError(t, services.CredentialStore.Register(ctx, username, password), username)
	}

	for username, password := range pairs {
		ok, err := services.CredentialStore.Verify(ctx, username, password)
		require.NoError(t, err)
		assert.True(t, ok, username)

		ok, err = services.CredentialStore.Verify(ctx, username, password+"x")
		require.NoError(t, err)
		assert.False(t, ok, username)
	}

	ok, err := services.CredentialStore.Verify(ctx, "nobody", "whatever1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLite_DuplicateRegistration(t *testing.T) {
	services, db := newSQLiteServices(t)
	ctx := context.Background()

	require.NoError(t, services.CredentialStore.Register(ctx, "alice", "password1"))

	err := services.CredentialStore.Register(ctx, "alice", "password2")
	assert.ErrorIs(t, err, ErrDuplicateUser)
	assert.Equal(t, 1, countRows(t, db, `SELECT count(*) FROM users WHERE u_name = ?`, "alice"))

	// the first password stays valid
	ok, err := services.CredentialStore.Verify(ctx, "alice", "password1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSQLite_IdenticalPasswordsHashDifferently(t *testing.T) {
	services, db := newSQLiteServices(t)
	ctx := context.Background()

	require.NoError(t, services.CredentialStore.Register(ctx, "alice", "same-password"))
	require.NoError(t, services.CredentialStore.Register(ctx, "bob", "same-password"))

	var hashA, hashB string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT p_word FROM users WHERE u_name = 'alice'`).Scan(&hashA))
	require.NoError(t, db.QueryRowContext(ctx, `SELECT p_word FROM users WHERE u_name = 'bob'`).Scan(&hashB))

	assert.NotEqual(t, hashA, hashB)
	assert.NotContains(t, hashA, "same-password")

	for _, user := range []string{"alice", "bob"} {
		ok, err := services.CredentialStore.Verify(ctx, user, "same-password")
		require.NoError(t, err)
		assert.True(t, ok, user)
	}
}

func TestSQLite_RecordTransfer(t *testing.T) {
	services, db := newSQLiteServices(t)
	ctx := context.Background()

	require.NoError(t, services.CredentialStore.Register(ctx, "A", "password1"))
	require.NoError(t, services.CredentialStore.Register(ctx, "B", "password1"))

	start := time.Now().UTC().Truncate(time.Second)
	transfer, err := services.LedgerStore.RecordTransfer(ctx, "A", "B", 100)
	end := time.Now().UTC()
	require.NoError(t, err)

	assert.False(t, transfer.Timestamp.Before(start))
	assert.False(t, transfer.Timestamp.After(end))
	assert.Equal(t, start.Format(time.DateOnly), transfer.Timestamp.Format(time.DateOnly))

	assert.Equal(t, 1, countRows(t, db, `SELECT count(*) FROM transactions WHERE u_from = 'A' AND u_to = 'B' AND t_amount = 100`))
	assert.Equal(t, 1, countRows(t, db, `SELECT count(*) FROM transactions`))
}

func TestSQLite_RejectedTransfersLeaveLedgerUnchanged(t *testing.T) {
	services, db := newSQLiteServices(t)
	ctx := context.Background()

	require.NoError(t, services.CredentialStore.Register(ctx, "A", "password1"))
	require.NoError(t, services.CredentialStore.Register(ctx, "B", "password1"))
	_, err := services.LedgerStore.RecordTransfer(ctx, "A", "B", 1)
	require.NoError(t, err)

	rejected := []struct {
		from, to string
		amount   int64
		wantErr  error
	}{
		{"A", "B", 0, ErrInvalidAmount},
		{"A", "B", -100, ErrInvalidAmount},
		{"A", "A", 100, ErrSelfTransfer},
		{"A", "ghost", 100, ErrUnknownUser},
		{"ghost", "B", 100, ErrUnknownUser},
	}

	for _, r := range rejected {
		_, err := services.LedgerStore.RecordTransfer(ctx, r.from, r.to, r.amount)
		assert.ErrorIs(t, err, r.wantErr)
	}

	assert.Equal(t, 1, countRows(t, db, `SELECT count(*) FROM transactions`))
}

func TestSQLite_HistoryAndBalance(t *testing.T) {
	services, _ := newSQLiteServices(t)
	ctx := context.Background()

	for _, u := range []string{"A", "B", "C"} {
		require.NoError(t, services.CredentialStore.Register(ctx, u, "password1"))
	}

	_, err := services.LedgerStore.RecordTransfer(ctx, "A", "B", 100)
	require.NoError(t, err)
	_, err = services.LedgerStore.RecordTransfer(ctx, "B", "C", 25)
	require.NoError(t, err)

	balance, err := services.LedgerStore.Balance(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, int64(75), balance)

	_, err = services.LedgerStore.Balance(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUnknownUser)
}
