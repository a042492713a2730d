package domain

import "errors"

// Sentinel errors reported by the engines and repositories. Callers match
// with errors.Is and render a graceful "no data yet" state instead of
// failing the whole view.
var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrInvalidWeight    = errors.New("weight out of plausible range")
	ErrConfigMissing    = errors.New("competition not configured")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
	ErrSetupComplete    = errors.New("setup already completed")
	ErrInvalidDate      = errors.New("invalid date, expected YYYY-MM-DD")
)
