// Package compat decides whether two channel types may be joined.
//
// Compatibility is declared, never inferred from type names. Declarations
// are written per device and are frequently one-sided, so a pair is
// compatible when either side declares the other.
package compat
