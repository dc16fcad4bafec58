// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-user-ledger/internal/config"
	"github.com/MKhiriev/go-user-ledger/internal/logger"
	"github.com/MKhiriev/go-user-ledger/internal/store"
	"github.com/MKhiriev/go-user-ledger/models"
)

// ledgerService is the storage-facing LedgerStore. It translates repository
// errors into the service taxonomy; input validation is layered on top by
// ledgerValidationService.
type ledgerService struct {
	userRepository     store.UserRepository
	transferRepository store.TransferRepository

	// enforceParties requires both sides of a transfer to be registered users.
	enforceParties bool

	logger *logger.Logger
}

// NewLedgerService constructs a LedgerStore on top of the given repositories.
func NewLedgerService(userRepository store.UserRepository, transferRepository store.TransferRepository, cfg config.App, logger *logger.Logger) LedgerStore {
	return &ledgerService{
		userRepository:     userRepository,
		transferRepository: transferRepository,
		enforceParties:     cfg.IsEnforceParties(),
		logger:             logger,
	}
}

// RecordTransfer appends one transfer. The timestamp is assigned by the store.
//
// Returns:
//   - ErrUnknownUser if party enforcement is on and a party is not registered.
//   - ErrStorageFailure on any other storage error; nothing is written.
func (l *ledgerService) RecordTransfer(ctx context.Context, from, to string, amount int64) (models.Transfer, error) {
	log := logger.FromContext(ctx)

	transfer, err := l.transferRepository.CreateTransfer(ctx, models.TransferRequest{From: from, To: to, Amount: amount}, l.enforceParties)
	if errors.Is(err, store.ErrPartyNotFound) {
		log.Info().Str("func", "*ledgerService.RecordTransfer").Str("from", from).Str("to", to).Msg("transfer party is not registered")
		return models.Transfer{}, fmt.Errorf("%w: %w", ErrUnknownUser, err)
	}
	if err != nil {
		log.Err(err).Str("func", "*ledgerService.RecordTransfer").Str("from", from).Str("to", to).Msg("transfer recording ended with error")
		return models.Transfer{}, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	log.Info().Str("func", "*ledgerService.RecordTransfer").
		Int64("id", transfer.ID).
		Str("from", transfer.From).
		Str("to", transfer.To).
		Int64("amount", transfer.Amount).
		Msg("transfer recorded")

	return transfer, nil
}

// ListTransfers returns the transfers matching filter ordered by timestamp.
func (l *ledgerService) ListTransfers(ctx context.Context, filter models.TransferFilter) ([]models.Transfer, error) {
	log := logger.FromContext(ctx)

	transfers, err := l.transferRepository.ListTransfers(ctx, filter)
	if err != nil {
		log.Err(err).Str("func", "*ledgerService.ListTransfers").Msg("error listing transfers")
		return nil, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	return transfers, nil
}

// Balance returns incoming minus outgoing amounts of username. With party
// enforcement on, an unregistered username yields ErrUnknownUser.
func (l *ledgerService) Balance(ctx context.Context, username string) (int64, error) {
	log := logger.FromContext(ctx)

	if username == "" {
		return 0, ErrUnknownUser
	}

	if l.enforceParties {
		_, err := l.userRepository.FindUserByUsername(ctx, username)
		if errors.Is(err, store.ErrNoUserWasFound) {
			return 0, fmt.Errorf("%w: %w", ErrUnknownUser, err)
		}
		if err != nil {
			log.Err(err).Str("func", "*ledgerService.Balance").Str("username", username).Msg("user search by username failed")
			return 0, fmt.Errorf("%w: %w", ErrStorageFailure, err)
		}
	}

	balance, err := l.transferRepository.Balance(ctx, username)
	if err != nil {
		log.Err(err).Str("func", "*ledgerService.Balance").Str("username", username).Msg("error computing balance")
		return 0, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	return balance, nil
}
