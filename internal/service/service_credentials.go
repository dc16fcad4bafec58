// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-user-ledger/internal/config"
	"github.com/MKhiriev/go-user-ledger/internal/logger"
	"github.com/MKhiriev/go-user-ledger/internal/store"
	"github.com/MKhiriev/go-user-ledger/internal/utils"
	"github.com/MKhiriev/go-user-ledger/internal/validators"
	"github.com/MKhiriev/go-user-ledger/models"
)

// dummyPassword is hashed once per service and compared against when the
// requested user does not exist.
const dummyPassword = "go-user-ledger:no-such-user"

// credentialService is the concrete implementation of CredentialStore.
// Passwords are hashed with bcrypt before they reach the UserRepository;
// plaintext and hashes never appear in log entries.
type credentialService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// hasher derives and compares bcrypt hashes with the configured cost.
	hasher *utils.PasswordHasher

	// validator checks registration input before any hashing is done.
	validator validators.Validator

	// dummyHash is compared against for unknown users so that Verify takes
	// roughly the same time whether or not the user exists.
	dummyHash     string
	dummyHashOnce sync.Once

	logger *logger.Logger
}

// NewCredentialService constructs a CredentialStore wired to the given
// UserRepository. Cost and password policy come from cfg.
//
// The returned service is safe for concurrent use.
func NewCredentialService(userRepository store.UserRepository, cfg config.App, logger *logger.Logger) CredentialStore {
	return &credentialService{
		userRepository: userRepository,
		hasher:         utils.NewPasswordHasher(cfg.BcryptCost),
		validator:      validators.NewLedgerValidator(cfg.MinPasswordLength),
		logger:         logger,
	}
}

// Register creates a new user account.
//
// Returns:
//   - ErrInvalidCredential if the username or password violates the policy.
//   - ErrHashingFailure if bcrypt rejects the cost or the password.
//   - ErrDuplicateUser if the username is taken.
//   - ErrStorageFailure on any other storage error.
func (c *credentialService) Register(ctx context.Context, username, password string) error {
	log := logger.FromContext(ctx)

	credentials := models.Credentials{Username: username, Password: password}
	if err := c.validator.Validate(ctx, credentials); err != nil {
		log.Debug().Err(err).Str("func", "*credentialService.Register").Str("username", username).Msg("invalid credentials provided")
		return fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}

	hash, err := c.hasher.Hash(password)
	if err != nil {
		log.Err(err).Str("func", "*credentialService.Register").Int("cost", c.hasher.Cost()).Msg("error hashing password")
		return fmt.Errorf("%w: %w", ErrHashingFailure, err)
	}

	err = c.userRepository.CreateUser(ctx, models.User{Username: username, PasswordHash: hash})
	if errors.Is(err, store.ErrLoginAlreadyExists) {
		log.Info().Str("func", "*credentialService.Register").Str("username", username).Msg("username already taken")
		return fmt.Errorf("%w: %w", ErrDuplicateUser, err)
	}
	if err != nil {
		log.Err(err).Str("func", "*credentialService.Register").Str("username", username).Msg("user creation ended with error")
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	log.Info().Str("func", "*credentialService.Register").Str("username", username).Msg("user registered")
	return nil
}

// Verify reports whether password matches the hash stored for username.
//
// A mismatch or an unknown user yields (false, nil). Storage errors yield
// ErrStorageFailure, a corrupt stored hash ErrHashingFailure.
func (c *credentialService) Verify(ctx context.Context, username, password string) (bool, error) {
	_, ok, err := c.check(ctx, username, password)
	return ok, err
}

// Authenticate is Verify returning the stored user. Any mismatch, including
// an unknown user, yields ErrInvalidCredential.
func (c *credentialService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	user, ok, err := c.check(ctx, username, password)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, ErrInvalidCredential
	}

	return user, nil
}

func (c *credentialService) check(ctx context.Context, username, password string) (models.User, bool, error) {
	log := logger.FromContext(ctx)

	user, err := c.userRepository.FindUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNoUserWasFound) {
		c.compareDummy(password)
		log.Debug().Str("func", "*credentialService.check").Str("username", username).Msg("unknown user")
		return models.User{}, false, nil
	}
	if err != nil {
		log.Err(err).Str("func", "*credentialService.check").Str("username", username).Msg("user search by username failed")
		return models.User{}, false, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	ok, err := c.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		log.Err(err).Str("func", "*credentialService.check").Str("username", username).Msg("stored hash is unusable")
		return models.User{}, false, fmt.Errorf("%w: %w", ErrHashingFailure, err)
	}
	if !ok {
		log.Debug().Str("func", "*credentialService.check").Str("username", username).Msg("wrong password")
	}

	return user, ok, nil
}

// compareDummy burns the same bcrypt work as a real comparison.
func (c *credentialService) compareDummy(password string) {
	c.dummyHashOnce.Do(func() {
		hash, err := c.hasher.Hash(dummyPassword)
		if err != nil {
			c.logger.Err(err).Str("func", "*credentialService.compareDummy").Msg("error hashing dummy password")
			return
		}
		c.dummyHash = hash
	})

	if c.dummyHash != "" {
		_, _ = c.hasher.Compare(c.dummyHash, password)
	}
}
