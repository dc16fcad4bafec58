package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-user-ledger/internal/config"
	"github.com/MKhiriev/go-user-ledger/internal/logger"
)

const inMemoryPath = ":memory:"

// probeQuery forces SQLite to read the database header, so that a corrupt or
// foreign file is reported at open time instead of on first use.
const probeQuery = `SELECT count(*) FROM sqlite_master;`

// NewConnectSQLite opens the single-file ledger database described by cfg and
// verifies that it is readable. The schema is not applied; call
// [DB.Migrate] afterwards.
func NewConnectSQLite(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("%w: database path cannot be empty", ErrOpeningDatabase)
	}

	// db will be in file
	if err := createLocalDBFileIfNotExists(cfg.Path); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Str("path", cfg.Path).Msg("error creating database file")
		return nil, fmt.Errorf("%w: %w", ErrOpeningDatabase, err)
	}

	conn, err := sql.Open("sqlite3", sqliteDSN(cfg))
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database")
		return nil, fmt.Errorf("%w: %w", ErrOpeningDatabase, err)
	}

	// an in-memory database lives only as long as its single connection
	maxOpenConns := cfg.MaxOpenConns
	if cfg.Path == inMemoryPath || maxOpenConns < 1 {
		maxOpenConns = 1
	}
	conn.SetMaxOpenConns(maxOpenConns)
	conn.SetMaxIdleConns(maxOpenConns)
	conn.SetConnMaxLifetime(0)
	conn.SetConnMaxIdleTime(0)

	// ping database
	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		_ = conn.Close()
		return nil, openError(err)
	}

	var objects int
	if err = conn.QueryRowContext(ctx, probeQuery).Scan(&objects); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Str("path", cfg.Path).Msg("database file is unreadable")
		_ = conn.Close()
		return nil, openError(err)
	}
	log.Debug().Str("func", "NewConnectSQLite").Str("path", cfg.Path).Int("objects", objects).Msg("connected to database successfully")

	// construct a DB struct
	db := &DB{
		DB:                 conn,
		logger:             log,
		errorClassificator: NewSQLiteErrorClassifier(),
	}

	return db, nil
}

// openError wraps a failure to bring the connection up, marking files that
// sqlite refuses to read as ErrNotADatabase.
func openError(err error) error {
	if isNotADatabase(err) {
		return fmt.Errorf("%w: %w: %w", ErrOpeningDatabase, ErrNotADatabase, err)
	}
	return fmt.Errorf("%w: %w", ErrOpeningDatabase, err)
}

// sqliteDSN appends go-sqlite3 connection parameters to the database path.
// Writers wait up to BusyTimeout on a locked file, and every transaction
// starts with BEGIN IMMEDIATE so that the write lock is taken up front.
func sqliteDSN(cfg config.DB) string {
	params := url.Values{}
	params.Set("_busy_timeout", fmt.Sprintf("%d", cfg.BusyTimeout.Milliseconds()))
	params.Set("_txlock", "immediate")

	return cfg.Path + "?" + params.Encode()
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if dbFile == inMemoryPath {
		return nil
	}

	if _, err := os.Stat(dbFile); errors.Is(err, os.ErrNotExist) {
		// if not found - create
		f, err := os.OpenFile(dbFile, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		return f.Close()
	} else if err != nil {
		return fmt.Errorf("error checking DB file: %w", err)
	}

	// file already exists
	return nil
}
