// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-user-ledger/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldUsername targets the login of a registering user.
	FieldUsername = "username"

	// FieldPassword targets the plaintext password of a registering user.
	FieldPassword = "password"

	// FieldParties targets the payer and payee of a transfer.
	FieldParties = "parties"

	// FieldAmount targets the transferred amount.
	FieldAmount = "amount"

	// FieldDistinctParties requires payer and payee to differ.
	FieldDistinctParties = "distinct_parties"
)

// MaxUsernameLength is the longest accepted username, in bytes.
const MaxUsernameLength = 64

// LedgerValidator validates models.Credentials and models.TransferRequest.
type LedgerValidator struct {
	minPasswordLength int
}

// NewLedgerValidator returns a Validator that requires passwords of at least
// minPasswordLength characters.
func NewLedgerValidator(minPasswordLength int) Validator {
	return &LedgerValidator{minPasswordLength: minPasswordLength}
}

// Validate dispatches on the dynamic type of obj. Value and pointer forms of
// models.Credentials and models.TransferRequest are accepted; anything else
// yields ErrUnsupportedType.
func (v *LedgerValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Credentials:
		return v.validateCredentials(ctx, value, fields...)
	case *models.Credentials:
		return v.validateCredentials(ctx, *value, fields...)

	case models.TransferRequest:
		return v.validateTransferRequest(ctx, value, fields...)
	case *models.TransferRequest:
		return v.validateTransferRequest(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// validateCredentials checks registration input.
//
// Default validated fields: Username, Password.
// The username must contain a non-space character and is stored as given.
func (v *LedgerValidator) validateCredentials(ctx context.Context, credentials models.Credentials, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUsername, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldUsername:
			if strings.TrimSpace(credentials.Username) == "" {
				return ErrEmptyUsername
			}
			if len(credentials.Username) > MaxUsernameLength {
				return ErrUsernameTooLong
			}
		case FieldPassword:
			if credentials.Password == "" {
				return ErrEmptyPassword
			}
			if utf8.RuneCountInString(credentials.Password) < v.minPasswordLength {
				return ErrPasswordTooShort
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateTransferRequest checks a transfer before it reaches storage.
//
// Default validated fields, in order: Parties, Amount, DistinctParties.
func (v *LedgerValidator) validateTransferRequest(ctx context.Context, request models.TransferRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldParties, FieldAmount, FieldDistinctParties}
	}

	for _, f := range fields {
		switch f {
		case FieldParties:
			if request.From == "" || request.To == "" {
				return ErrEmptyParty
			}
		case FieldAmount:
			if request.Amount <= 0 {
				return ErrInvalidAmount
			}
		case FieldDistinctParties:
			if request.From == request.To {
				return ErrSelfTransfer
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
