// Package utils provides general-purpose helper utilities
// used across different parts of the application: bcrypt password hashing
// and generation of trace identifiers.
package utils
