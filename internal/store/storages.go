package store

import "github.com/MKhiriev/go-user-ledger/internal/logger"

// Storages groups every repository built on one shared [DB] handle.
type Storages struct {
	UserRepository     UserRepository
	TransferRepository TransferRepository
}

// NewStorages builds all repositories on top of db.
func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		UserRepository:     NewUserRepository(db, log),
		TransferRepository: NewTransferRepository(db, log),
	}
}
