package domain

import "errors"

// Auth errors
var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// Transaction errors
var (
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Dispute errors
var (
	ErrDisputeNotFound     = errors.New("dispute not found")
	ErrActiveDisputeExists = errors.New("an active dispute already exists for this transaction")
	ErrDisputeClosed       = errors.New("cannot cancel a resolved or rejected dispute")
	ErrInvalidTransition   = errors.New("illegal dispute status transition")
)
