// Package config provides configuration loading, merging, and validation
// facilities for the ledger application.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// Defaults are applied after merging, then the result is validated.
// The entry point is [GetStructuredConfig].
package config
