package model

import "errors"

// Sentinel errors for the store's failure taxonomy. Callers check them
// with errors.Is; everything else surfacing from a mutation is a
// storage failure and is wrapped, not retried.
var (
	// ErrInvalidAddress marks a malformed or unsafe address component.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrNotFound marks a read/update/delete against an absent record.
	ErrNotFound = errors.New("record not found")

	// ErrExists marks a create against a record that already exists.
	ErrExists = errors.New("record already exists")
)
