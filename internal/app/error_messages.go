// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app composes the ledger: it opens the database, applies the schema
// and builds the services on one shared handle.
//
// All Msg* constants are human-readable message strings printed by the
// command-line front end to describe the outcome of an operation. Keeping
// them in one place ensures consistent wording.
package app

import "github.com/MKhiriev/go-user-ledger/internal/service"

const (
	// MsgUserRegistered confirms a successful registration.
	MsgUserRegistered = "user registered"

	// MsgCredentialsValid is printed when verify succeeds.
	MsgCredentialsValid = "credentials are valid"

	// MsgCredentialsInvalid is printed when verify fails for any reason that
	// must not be disclosed (unknown user or wrong password).
	MsgCredentialsInvalid = "invalid username/password"

	// MsgUserAlreadyExists is printed when the requested username is taken.
	MsgUserAlreadyExists = "user already exists"

	// MsgInvalidCredential is printed when registration input violates the
	// username or password policy.
	MsgInvalidCredential = "invalid username or password format"

	// MsgInvalidAmount is printed when a transfer amount is zero, negative
	// or not representable in minor units.
	MsgInvalidAmount = "amount must be positive"

	// MsgSelfTransfer is printed when payer and payee are the same user.
	MsgSelfTransfer = "cannot transfer to yourself"

	// MsgUnknownUser is printed when a transfer party or balance owner is
	// not a registered user.
	MsgUnknownUser = "unknown user"

	// MsgHashingFailure is printed when the password could not be hashed.
	MsgHashingFailure = "password could not be processed"

	// MsgStorageFailure is printed for any failure of the underlying
	// database.
	MsgStorageFailure = "storage failure"

	// MsgStorageBusy is printed when the database stayed locked by another
	// writer; repeating the command may succeed.
	MsgStorageBusy = "database is busy, try again"
)

var kindMessages = map[service.Kind]string{
	service.KindDuplicateUser:     MsgUserAlreadyExists,
	service.KindInvalidCredential: MsgInvalidCredential,
	service.KindInvalidAmount:     MsgInvalidAmount,
	service.KindSelfTransfer:      MsgSelfTransfer,
	service.KindUnknownUser:       MsgUnknownUser,
	service.KindHashingFailure:    MsgHashingFailure,
	service.KindStorageFailure:    MsgStorageFailure,
}

// Message returns the user-facing text for err. Internal details such as
// SQL errors are never included.
func Message(err error) string {
	if service.IsTemporary(err) {
		return MsgStorageBusy
	}

	if msg, ok := kindMessages[service.KindOf(err)]; ok {
		return msg
	}

	return MsgStorageFailure
}
