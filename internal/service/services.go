package service

import (
	"github.com/MKhiriev/go-user-ledger/internal/config"
	"github.com/MKhiriev/go-user-ledger/internal/logger"
	"github.com/MKhiriev/go-user-ledger/internal/store"
)

type Services struct {
	CredentialStore CredentialStore
	LedgerStore     LedgerStore
}

func NewServices(storages *store.Storages, cfg config.App, logger *logger.Logger) *Services {
	return &Services{
		CredentialStore: NewCredentialService(storages.UserRepository, cfg, logger),
		LedgerStore: NewLedgerValidationService().Wrap(
			NewLedgerService(storages.UserRepository, storages.TransferRepository, cfg, logger),
		),
	}
}
