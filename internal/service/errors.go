package service

import (
	"errors"

	"github.com/MKhiriev/go-user-ledger/internal/store"
)

// Closed set of failures returned by CredentialStore and LedgerStore.
// Every error produced by this package wraps exactly one of them.
var (
	ErrDuplicateUser     = errors.New("user already exists")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrSelfTransfer      = errors.New("self transfer is not allowed")
	ErrHashingFailure    = errors.New("password hashing failed")
	ErrStorageFailure    = errors.New("storage failure")
	ErrUnknownUser       = errors.New("unknown user")
)

// Kind tags an error with its place in the taxonomy.
type Kind int

const (
	KindNone Kind = iota
	KindDuplicateUser
	KindInvalidCredential
	KindInvalidAmount
	KindSelfTransfer
	KindHashingFailure
	KindStorageFailure
	KindUnknownUser
)

var kindNames = map[Kind]string{
	KindNone:              "None",
	KindDuplicateUser:     "DuplicateUser",
	KindInvalidCredential: "InvalidCredential",
	KindInvalidAmount:     "InvalidAmount",
	KindSelfTransfer:      "SelfTransfer",
	KindHashingFailure:    "HashingFailure",
	KindStorageFailure:    "StorageFailure",
	KindUnknownUser:       "UnknownUser",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// kindsInOrder is matched top to bottom, so an error wrapping more than one
// sentinel gets the most specific kind.
var kindsInOrder = []struct {
	err  error
	kind Kind
}{
	{ErrDuplicateUser, KindDuplicateUser},
	{ErrInvalidCredential, KindInvalidCredential},
	{ErrInvalidAmount, KindInvalidAmount},
	{ErrSelfTransfer, KindSelfTransfer},
	{ErrUnknownUser, KindUnknownUser},
	{ErrHashingFailure, KindHashingFailure},
	{ErrStorageFailure, KindStorageFailure},
}

// KindOf maps err to exactly one Kind. nil is KindNone; an error outside the
// taxonomy is treated as a storage failure.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}

	for _, k := range kindsInOrder {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}

	return KindStorageFailure
}

// IsTemporary reports whether err was caused by another writer holding the
// database lock past the busy timeout. Nothing was written; the caller may
// repeat the call.
func IsTemporary(err error) bool {
	return errors.Is(err, store.ErrDatabaseBusy)
}
