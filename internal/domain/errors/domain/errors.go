// Package domain provides domain-specific error definitions and utilities.
package domain

import "errors"

// Query errors.
var (
	// ErrInvalidArgument is returned when a caller asserts a construct exists at an index and
	// it does not: wrong token class, out of range, or an opener/closer pair that does not match.
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
)

// Configuration errors.
var (
	ErrUnsupportedVersion = errors.New("unsupported host version")
	ErrMalformedRules     = errors.New("malformed compensation rules")
)

// General domain errors.
var (
	ErrInvalidInput = errors.New("invalid input")
)
