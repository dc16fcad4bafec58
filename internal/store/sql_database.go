package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MKhiriev/go-user-ledger/internal/logger"
	"github.com/MKhiriev/go-user-ledger/migrations"
)

// DB is the shared storage handle. Its lifetime is owned by the application
// layer, which passes it explicitly to every repository.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate applies the embedded schema. It is idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	if err := migrations.Migrate(ctx, db.DB, db.logger); err != nil {
		return fmt.Errorf("%w: %w", ErrMigratingDatabase, err)
	}

	return nil
}

// WithTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. Panics are rethrown.
//
// Typical use:
//
//	err := db.WithTx(ctx, func(ctx context.Context, tx DBTX) error {
//	    _, err := tx.ExecContext(ctx, "INSERT ...")
//	    return err
//	})
func (db *DB) WithTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, db.wrapTemporary(err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("%w: %w", ErrCommitingTransaction, db.wrapTemporary(commitErr))
		}
	}()

	err = fn(ctx, tx)
	return err
}

// wrapTemporary marks err with [ErrDatabaseBusy] when the classifier deems
// it retryable, so that callers can tell lock contention from hard failures.
func (db *DB) wrapTemporary(err error) error {
	if db.errorClassificator != nil && db.errorClassificator.Classify(err) == Retryable {
		return fmt.Errorf("%w: %w", ErrDatabaseBusy, err)
	}
	return err
}
