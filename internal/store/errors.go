package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrLoginAlreadyExists is returned when an attempt to register a new user
	// fails because a user with the same username already exists.
	ErrLoginAlreadyExists = errors.New("login already exists")

	// ErrNoUserWasFound is returned when a lookup by username produces an
	// empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrPartyNotFound is returned when a transfer references a payer or a
	// payee that is not a registered user.
	ErrPartyNotFound = errors.New("transfer party is not a registered user")

	// ErrConstraintViolation is returned when the database rejects a row
	// because of a CHECK or NOT NULL constraint.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrDatabaseBusy is returned when the database stayed locked by another
	// writer for longer than the configured busy timeout. The operation
	// had no effect and may be attempted again.
	ErrDatabaseBusy = errors.New("database is busy")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrOpeningDatabase is returned when the database file cannot be
	// created, opened, or read.
	ErrOpeningDatabase = errors.New("error opening database")

	// ErrNotADatabase is returned when the file exists but is not a valid
	// SQLite database (corrupt or foreign content).
	ErrNotADatabase = errors.New("file is not a valid database")

	// ErrMigratingDatabase is returned when the schema cannot be applied.
	ErrMigratingDatabase = errors.New("error migrating database")

	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
