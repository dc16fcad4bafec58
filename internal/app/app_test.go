package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-user-ledger/internal/config"
	"github.com/MKhiriev/go-user-ledger/internal/logger"
	"github.com/MKhiriev/go-user-ledger/internal/service"
	"github.com/MKhiriev/go-user-ledger/internal/store"
)

func testConfig(path string) *config.StructuredConfig {
	enforce := true
	exponent := int32(2)
	return &config.StructuredConfig{
		App: config.App{
			BcryptCost:        bcrypt.MinCost,
			MinPasswordLength: 8,
			EnforceParties:    &enforce,
			CurrencyExponent:  &exponent,
		},
		Storage: config.Storage{
			DB: config.DB{Path: path, BusyTimeout: time.Second, MaxOpenConns: 1},
		},
	}
}

func TestNewApp_Success(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	a, err := NewApp(ctx, testConfig(path), logger.Nop())
	require.NoError(t, err)

	require.NoError(t, a.Services.CredentialStore.Register(ctx, "alice", "password1"))
	require.NoError(t, a.Close())

	// data survives a restart
	a, err = NewApp(ctx, testConfig(path), logger.Nop())
	require.NoError(t, err)
	defer a.Close()

	ok, err := a.Services.CredentialStore.Verify(ctx, "alice", "password1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewApp_StorageFailure(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.db")
	require.NoError(t, os.WriteFile(garbage, []byte(fmt.Sprintf("%4096s", "not a database")), 0o600))

	tests := []struct {
		name string
		cfg  *config.StructuredConfig
	}{
		{name: "nil config", cfg: nil},
		{name: "empty path", cfg: testConfig("")},
		{name: "missing directory", cfg: testConfig(filepath.Join(dir, "missing", "ledger.db"))},
		{name: "not a database", cfg: testConfig(garbage)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewApp(context.Background(), tt.cfg, logger.Nop())
			assert.Nil(t, a)
			assert.ErrorIs(t, err, service.ErrStorageFailure)
			assert.Equal(t, service.KindStorageFailure, service.KindOf(err))
		})
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "duplicate", err: service.ErrDuplicateUser, want: MsgUserAlreadyExists},
		{name: "invalid credential", err: service.ErrInvalidCredential, want: MsgInvalidCredential},
		{name: "invalid amount", err: service.ErrInvalidAmount, want: MsgInvalidAmount},
		{name: "self transfer", err: service.ErrSelfTransfer, want: MsgSelfTransfer},
		{name: "unknown user", err: service.ErrUnknownUser, want: MsgUnknownUser},
		{name: "hashing", err: service.ErrHashingFailure, want: MsgHashingFailure},
		{name: "storage", err: fmt.Errorf("%w: %w", service.ErrStorageFailure, errors.New("SQL logic error")), want: MsgStorageFailure},
		{name: "busy", err: fmt.Errorf("%w: %w", service.ErrStorageFailure, store.ErrDatabaseBusy), want: MsgStorageBusy},
		{name: "unclassified", err: errors.New("boom"), want: MsgStorageFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err))
		})
	}
}
