// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup. Defaults must have
// been applied already.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.Path == "" {
		return fmt.Errorf("%w: database path is required", ErrInvalidStorageConfigs)
	}
	if cfg.Storage.DB.MaxOpenConns < 0 {
		return fmt.Errorf("%w: max open connections cannot be negative, got %d", ErrInvalidStorageConfigs, cfg.Storage.DB.MaxOpenConns)
	}
	if cfg.Storage.DB.BusyTimeout < 0 {
		return fmt.Errorf("%w: busy timeout cannot be negative, got %v", ErrInvalidStorageConfigs, cfg.Storage.DB.BusyTimeout)
	}

	if cfg.App.BcryptCost < bcrypt.MinCost || cfg.App.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("%w: bcrypt cost must be within [%d, %d], got %d", ErrInvalidAppConfigs, bcrypt.MinCost, bcrypt.MaxCost, cfg.App.BcryptCost)
	}
	if cfg.App.MinPasswordLength < 1 {
		return fmt.Errorf("%w: min password length must be positive, got %d", ErrInvalidAppConfigs, cfg.App.MinPasswordLength)
	}
	if exp := cfg.App.Exponent(); exp < 0 || exp > 18 {
		return fmt.Errorf("%w: currency exponent must be within [0, 18], got %d", ErrInvalidAppConfigs, exp)
	}
	if _, err := zerolog.ParseLevel(cfg.App.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAppConfigs, err)
	}

	return nil
}
