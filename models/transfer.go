// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// TransferTimeLayout is the text layout of the t_date column. Timestamps are
// always UTC and produced by the database at insertion time.
const TransferTimeLayout = "2006-01-02 15:04:05"

// Transfer is one immutable entry of the append-only ledger.
type Transfer struct {
	// ID is the SQLite rowid of the entry. It breaks ties between transfers
	// recorded within the same second.
	ID int64 `json:"id"`

	// From is the username of the payer (column u_from).
	From string `json:"from"`

	// To is the username of the payee (column u_to).
	To string `json:"to"`

	// Amount is the transferred value in the smallest currency unit
	// (column t_amount). Always positive for persisted transfers.
	Amount int64 `json:"amount"`

	// Timestamp is the store-assigned creation time (column t_date).
	Timestamp time.Time `json:"timestamp"`
}

// TableName returns the name of the database table
// associated with the Transfer model.
func (t Transfer) TableName() string {
	return "transactions"
}

// TransferRequest is the caller-supplied part of a transfer. The timestamp is
// deliberately absent: it is never client-settable.
type TransferRequest struct {
	From   string
	To     string
	Amount int64
}

// TransferFilter narrows a ledger listing. Zero values disable a criterion.
type TransferFilter struct {
	// Username matches transfers where the user is either payer or payee.
	Username string

	// From matches the payer exactly.
	From string

	// To matches the payee exactly.
	To string

	// Since is the inclusive lower bound of the timestamp.
	Since time.Time

	// Until is the exclusive upper bound of the timestamp.
	Until time.Time

	// Limit caps the number of returned transfers; 0 means no cap.
	Limit uint64
}
