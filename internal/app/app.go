package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-user-ledger/internal/config"
	"github.com/MKhiriev/go-user-ledger/internal/logger"
	"github.com/MKhiriev/go-user-ledger/internal/service"
	"github.com/MKhiriev/go-user-ledger/internal/store"
)

// App owns the storage handle and the services built on it.
type App struct {
	Services *service.Services

	db     *store.DB
	logger *logger.Logger
}

// NewApp opens and migrates the database described by cfg and builds the
// services. Every failure is reported as service.ErrStorageFailure; no handle
// is leaked on error.
func NewApp(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: %w", service.ErrStorageFailure, errors.New("config is nil"))
	}

	db, err := store.NewConnectSQLite(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Err(err).Str("func", "app.NewApp").Msg("error opening database")
		return nil, fmt.Errorf("%w: %w", service.ErrStorageFailure, err)
	}

	if err = db.Migrate(ctx); err != nil {
		log.Err(err).Str("func", "app.NewApp").Msg("error migrating database")
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", service.ErrStorageFailure, err)
	}

	storages := store.NewStorages(db, log)

	return &App{
		Services: service.NewServices(storages, cfg.App, log),
		db:       db,
		logger:   log,
	}, nil
}

// Close releases the database handle.
func (a *App) Close() error {
	if err := a.db.Close(); err != nil {
		a.logger.Err(err).Str("func", "*App.Close").Msg("error closing database")
		return fmt.Errorf("%w: %w", service.ErrStorageFailure, err)
	}

	return nil
}
