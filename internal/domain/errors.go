package domain

import "errors"

// Sentinel errors shared by services and delivery.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotConnected      = errors.New("wallet not connected")
	ErrInvalidTransition = errors.New("invalid onboarding transition")
	ErrCallInFlight      = errors.New("identical contract call already in flight")
	ErrCallFailed        = errors.New("contract call failed")
)
