// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-user-ledger/internal/logger"
	"github.com/MKhiriev/go-user-ledger/models"
)

// transferRepository is the SQLite-backed implementation of [TransferRepository].
// Rows in the "transactions" table are append-only: the repository never
// updates or deletes them.
type transferRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewTransferRepository constructs a [TransferRepository] backed by the
// provided database connection and logger.
func NewTransferRepository(db *DB, logger *logger.Logger) TransferRepository {
	logger.Debug().Msg("creating transfer repository")
	return &transferRepository{
		db:     db,
		logger: logger,
	}
}

// CreateTransfer appends one transfer inside a single write transaction.
//
// When enforceParties is set, the existence of both parties is checked in the
// same transaction as the insert, so a concurrently registering writer cannot
// slip between the check and the write.
//
// Error handling:
//   - missing payer or payee → [ErrPartyNotFound].
//   - CHECK/NOT NULL violation → [ErrConstraintViolation].
//   - lock contention beyond the busy timeout → [ErrDatabaseBusy].
//   - other driver errors → [ErrExecutingQuery] / [ErrScanningRow].
func (r *transferRepository) CreateTransfer(ctx context.Context, request models.TransferRequest, enforceParties bool) (models.Transfer, error) {
	log := logger.FromContext(ctx)

	var created models.Transfer
	err := r.db.WithTx(ctx, func(ctx context.Context, tx DBTX) error {
		if enforceParties {
			var fromExists, toExists bool
			if err := tx.QueryRowContext(ctx, checkTransferParties, request.From, request.To).Scan(&fromExists, &toExists); err != nil {
				log.Err(err).Str("func", "*transferRepository.CreateTransfer").Msg("error checking transfer parties")
				return fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.wrapTemporary(err))
			}
			if !fromExists || !toExists {
				log.Debug().Str("func", "*transferRepository.CreateTransfer").
					Str("from", request.From).Bool("from_exists", fromExists).
					Str("to", request.To).Bool("to_exists", toExists).
					Msg("transfer party not found")
				return ErrPartyNotFound
			}
		}

		transfer, err := scanTransfer(tx.QueryRowContext(ctx, createTransfer, request.From, request.To, request.Amount))
		if err != nil {
			log.Err(err).Str("func", "*transferRepository.CreateTransfer").Msg("error inserting transfer")
			if isConstraintViolation(err) {
				return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
			}
			return fmt.Errorf("%w: %w", ErrScanningRow, r.db.wrapTemporary(err))
		}

		created = transfer
		return nil
	})
	if err != nil {
		return models.Transfer{}, err
	}

	log.Debug().Str("func", "*transferRepository.CreateTransfer").
		Int64("id", created.ID).
		Time("timestamp", created.Timestamp).
		Msg("transfer recorded")

	return created, nil
}

// ListTransfers returns the transfers matching filter ordered by timestamp,
// then by rowid.
func (r *transferRepository) ListTransfers(ctx context.Context, filter models.TransferFilter) ([]models.Transfer, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListTransfersQuery(ctx, filter)
	if err != nil {
		log.Err(err).Str("func", "*transferRepository.ListTransfers").Msg("error building query")
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*transferRepository.ListTransfers").Msg("error querying transfers")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.wrapTemporary(err))
	}
	defer rows.Close()

	transfers := make([]models.Transfer, 0)
	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			log.Err(err).Str("func", "*transferRepository.ListTransfers").Msg("error scanning transfer")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		transfers = append(transfers, transfer)
	}
	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "*transferRepository.ListTransfers").Msg("error iterating transfers")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, r.db.wrapTemporary(err))
	}

	return transfers, nil
}

// Balance returns the sum of incoming minus outgoing amounts of username.
// A user without transfers has a zero balance.
func (r *transferRepository) Balance(ctx context.Context, username string) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildBalanceQuery(ctx, username)
	if err != nil {
		log.Err(err).Str("func", "*transferRepository.Balance").Msg("error building query")
		return 0, err
	}

	var balance int64
	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&balance); err != nil {
		log.Err(err).Str("func", "*transferRepository.Balance").Str("username", username).Msg("error querying balance")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.wrapTemporary(err))
	}

	return balance, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransfer(row rowScanner) (models.Transfer, error) {
	var (
		transfer models.Transfer
		date     string
	)
	if err := row.Scan(&transfer.ID, &transfer.From, &transfer.To, &date, &transfer.Amount); err != nil {
		return models.Transfer{}, err
	}

	timestamp, err := parseTransferTime(date)
	if err != nil {
		return models.Transfer{}, err
	}
	transfer.Timestamp = timestamp

	return transfer, nil
}

// parseTransferTime reads a t_date value. Rows written by this package use
// [models.TransferTimeLayout]; RFC 3339 is accepted for rows written by
// other tools.
func parseTransferTime(value string) (time.Time, error) {
	if t, err := time.ParseInLocation(models.TransferTimeLayout, value, time.UTC); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid transfer timestamp %q: %w", value, err)
	}

	return t.UTC(), nil
}
