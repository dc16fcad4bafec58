// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-user-ledger/internal/validators"
	"github.com/MKhiriev/go-user-ledger/models"
)

// LedgerValidationService rejects malformed transfers before they reach the
// wrapped LedgerStore.
type LedgerValidationService struct {
	inner     LedgerStore
	validator validators.Validator
}

func NewLedgerValidationService() LedgerStoreWrapper {
	return &LedgerValidationService{
		// password policy is irrelevant for transfers
		validator: validators.NewLedgerValidator(0),
	}
}

// RecordTransfer checks, in order: both parties present, amount positive,
// parties distinct.
func (v *LedgerValidationService) RecordTransfer(ctx context.Context, from, to string, amount int64) (models.Transfer, error) {
	err := v.validator.Validate(ctx, models.TransferRequest{From: from, To: to, Amount: amount})
	switch {
	case err == nil:
		return v.inner.RecordTransfer(ctx, from, to, amount)
	case errors.Is(err, validators.ErrEmptyParty):
		return models.Transfer{}, fmt.Errorf("%w: %w", ErrUnknownUser, err)
	case errors.Is(err, validators.ErrInvalidAmount):
		return models.Transfer{}, fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	case errors.Is(err, validators.ErrSelfTransfer):
		return models.Transfer{}, fmt.Errorf("%w: %w", ErrSelfTransfer, err)
	default:
		return models.Transfer{}, fmt.Errorf("error during transfer validation: %w", err)
	}
}

func (v *LedgerValidationService) ListTransfers(ctx context.Context, filter models.TransferFilter) ([]models.Transfer, error) {
	return v.inner.ListTransfers(ctx, filter)
}

func (v *LedgerValidationService) Balance(ctx context.Context, username string) (int64, error) {
	return v.inner.Balance(ctx, username)
}

func (v *LedgerValidationService) Wrap(inner LedgerStore) LedgerStore {
	v.inner = inner
	return v
}
