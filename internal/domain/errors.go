package domain

import "errors"

var (
	// Transaction errors
	ErrInvalidAmount       = errors.New("amount must be a number")
	ErrTransactionNotFound = errors.New("transaction not found")

	// Ledger errors
	ErrEmptyID     = errors.New("transaction id is empty")
	ErrDuplicateID = errors.New("duplicate transaction id")

	// Store errors
	ErrMalformedSnapshot = errors.New("stored transactions are malformed")
)
