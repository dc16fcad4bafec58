package store

import (
	"context"
	"database/sql"

	"github.com/MKhiriev/go-user-ledger/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists and looks up registered users.
type UserRepository interface {
	// CreateUser inserts one row into users. A taken username yields
	// [ErrLoginAlreadyExists].
	CreateUser(ctx context.Context, user models.User) error
	// FindUserByUsername returns the stored user or [ErrNoUserWasFound].
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
}

// TransferRepository appends to and reads from the transfer ledger.
type TransferRepository interface {
	// CreateTransfer atomically appends a transfer whose timestamp is
	// assigned by the database. With enforceParties set, both parties must
	// be registered users or [ErrPartyNotFound] is returned and nothing is
	// written.
	CreateTransfer(ctx context.Context, request models.TransferRequest, enforceParties bool) (models.Transfer, error)
	// ListTransfers returns the transfers matching filter in ledger order.
	ListTransfers(ctx context.Context, filter models.TransferFilter) ([]models.Transfer, error)
	// Balance returns incoming minus outgoing amounts of username.
	Balance(ctx context.Context, username string) (int64, error)
}

// ErrorClassificator decides whether a failed database operation may succeed
// if attempted again.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// DBTX is the subset of database/sql used by repositories.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
