package main

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MKhiriev/go-user-ledger/internal/service"
)

// parseAmount converts a human amount in major units ("12.50") into minor
// units using exponent digits. Fractions of a minor unit and values outside
// int64 are rejected as invalid amounts; sign checks are left to the ledger.
func parseAmount(value string, exponent int32) (int64, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", service.ErrInvalidAmount, value)
	}

	minor := d.Shift(exponent)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("%w: %q has more than %d decimal places", service.ErrInvalidAmount, value, exponent)
	}

	units := minor.BigInt()
	if !units.IsInt64() {
		return 0, fmt.Errorf("%w: %q is out of range", service.ErrInvalidAmount, value)
	}

	return units.Int64(), nil
}

// formatAmount renders minor units as a fixed-point major unit string.
func formatAmount(amount int64, exponent int32) string {
	return decimal.New(amount, -exponent).StringFixed(exponent)
}
