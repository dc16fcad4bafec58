package service

import (
	"context"

	"github.com/MKhiriev/go-user-ledger/models"
)

// CredentialStore registers users and checks their passwords.
type CredentialStore interface {
	// Register stores username with a salted hash of password.
	Register(ctx context.Context, username, password string) error
	// Verify reports whether password matches the one registered for
	// username. An unknown user is not an error: Verify returns false.
	Verify(ctx context.Context, username, password string) (bool, error)
	// Authenticate is Verify that returns the user on success and
	// ErrInvalidCredential on any mismatch.
	Authenticate(ctx context.Context, username, password string) (models.User, error)
}

// LedgerStore records transfers between users and reads them back.
type LedgerStore interface {
	// RecordTransfer appends one transfer stamped by the store.
	RecordTransfer(ctx context.Context, from, to string, amount int64) (models.Transfer, error)
	// ListTransfers returns matching transfers in ledger order.
	ListTransfers(ctx context.Context, filter models.TransferFilter) ([]models.Transfer, error)
	// Balance returns incoming minus outgoing amounts of username.
	Balance(ctx context.Context, username string) (int64, error)
}

// LedgerStoreWrapper defines middleware composition for LedgerStore.
// Implementations wrap an existing LedgerStore to add behavior such as
// validating.
type LedgerStoreWrapper interface {
	Wrap(LedgerStore) LedgerStore
}
