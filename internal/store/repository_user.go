// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-user-ledger/internal/logger"
	"github.com/MKhiriev/go-user-ledger/models"
)

// userRepository is the SQLite-backed implementation of [UserRepository].
// It handles user account creation and lookup against the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, operation-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new user record.
//
// Error handling:
//   - SQLite UNIQUE constraint violation → [ErrLoginAlreadyExists].
//   - Any other constraint violation → [ErrConstraintViolation].
//   - Lock contention beyond the busy timeout → [ErrDatabaseBusy].
//   - Any other driver-level error → [ErrExecutingStatement].
func (r *userRepository) CreateUser(ctx context.Context, user models.User) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, createUser, user.Username, user.PasswordHash); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Str("username", user.Username).Msg("error inserting user")

		switch {
		case isUniqueViolation(err):
			return ErrLoginAlreadyExists
		case isConstraintViolation(err):
			return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
		default:
			return fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.wrapTemporary(err))
		}
	}

	return nil
}

// FindUserByUsername retrieves the user whose u_name equals username.
//
// Error handling:
//   - [sql.ErrNoRows] → [ErrNoUserWasFound].
//   - Any other error → [ErrExecutingQuery].
func (r *userRepository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	log := logger.FromContext(ctx)

	var foundUser models.User
	err := r.db.QueryRowContext(ctx, findUserByUsername, username).Scan(&foundUser.Username, &foundUser.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug().Str("func", "*userRepository.FindUserByUsername").Str("username", username).Msg("user not found")
		return models.User{}, ErrNoUserWasFound
	}
	if err != nil {
		log.Err(err).Str("func", "*userRepository.FindUserByUsername").Str("username", username).Msg("error querying user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.wrapTemporary(err))
	}

	return foundUser, nil
}
