// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// Default values applied by [StructuredConfig.applyDefaults] to every field
// that none of the sources populated.
const (
	DefaultBcryptCost        = 11
	DefaultMinPasswordLength = 8
	DefaultEnforceParties    = true
	DefaultCurrencyExponent  = 2
	DefaultLogLevel          = "info"
	DefaultBusyTimeout       = 5 * time.Second
	DefaultMaxOpenConns      = 1
)

// StructuredConfig is the top-level configuration container for the
// go-user-ledger application. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds credential and ledger policy settings.
	App App `envPrefix:"APP_"`

	// Storage holds configuration of the embedded database.
	Storage Storage `envPrefix:"STORAGE_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level policy.
type App struct {
	// BcryptCost is the work factor used when hashing passwords.
	// Env: APP_BCRYPT_COST
	BcryptCost int `env:"BCRYPT_COST"`

	// MinPasswordLength is the minimum number of characters accepted at
	// registration.
	// Env: APP_MIN_PASSWORD_LENGTH
	MinPasswordLength int `env:"MIN_PASSWORD_LENGTH"`

	// EnforceParties requires both sides of a transfer to be registered
	// users. A pointer so that an explicit "false" survives merging.
	// Env: APP_ENFORCE_PARTIES
	EnforceParties *bool `env:"ENFORCE_PARTIES"`

	// CurrencyExponent is the number of minor units digits (2 for cents).
	// Used only to convert amounts typed by a human into minor units.
	// Env: APP_CURRENCY_EXPONENT
	CurrencyExponent *int32 `env:"CURRENCY_EXPONENT"`

	// LogLevel is the minimum zerolog level ("debug", "info", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`
}

// Storage groups the configuration for storage backends.
type Storage struct {
	// DB holds the embedded database settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the SQLite database file.
type DB struct {
	// Path is the location of the database file, or ":memory:".
	// Env: STORAGE_DB_PATH
	Path string `env:"PATH"`

	// BusyTimeout is how long a connection waits on a locked database
	// before giving up with SQLITE_BUSY.
	// Env: STORAGE_DB_BUSY_TIMEOUT
	BusyTimeout time.Duration `env:"BUSY_TIMEOUT"`

	// MaxOpenConns bounds the database/sql pool.
	// Env: STORAGE_DB_MAX_OPEN_CONNS
	MaxOpenConns int `env:"MAX_OPEN_CONNS"`
}

// IsEnforceParties reports the effective EnforceParties value.
func (a App) IsEnforceParties() bool {
	if a.EnforceParties == nil {
		return DefaultEnforceParties
	}
	return *a.EnforceParties
}

// Exponent reports the effective CurrencyExponent value.
func (a App) Exponent() int32 {
	if a.CurrencyExponent == nil {
		return DefaultCurrencyExponent
	}
	return *a.CurrencyExponent
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags parsed from args
//  3. JSON file (path resolved from sources 1 and 2)
//
// The positional arguments left after flag parsing are returned alongside
// the config.
func GetStructuredConfig(args []string) (*StructuredConfig, []string, error) {
	b := newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON()

	cfg, err := b.build()
	if err != nil {
		return nil, nil, err
	}

	return cfg, b.args, nil
}

func (cfg *StructuredConfig) applyDefaults() {
	if cfg.App.BcryptCost == 0 {
		cfg.App.BcryptCost = DefaultBcryptCost
	}
	if cfg.App.MinPasswordLength == 0 {
		cfg.App.MinPasswordLength = DefaultMinPasswordLength
	}
	if cfg.App.EnforceParties == nil {
		enforce := DefaultEnforceParties
		cfg.App.EnforceParties = &enforce
	}
	if cfg.App.CurrencyExponent == nil {
		exp := int32(DefaultCurrencyExponent)
		cfg.App.CurrencyExponent = &exp
	}
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = DefaultLogLevel
	}
	if cfg.Storage.DB.BusyTimeout == 0 {
		cfg.Storage.DB.BusyTimeout = DefaultBusyTimeout
	}
	if cfg.Storage.DB.MaxOpenConns == 0 {
		cfg.Storage.DB.MaxOpenConns = DefaultMaxOpenConns
	}
}
