package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and clients return these
// (optionally wrapped) and services translate them into domain errors.
//
//   - ErrNotFound: record does not exist (or has expired out of the store)
//   - ErrConflict: a uniqueness constraint rejected the write
//   - ErrExpired: record exists but its TTL has elapsed
//   - ErrUnavailable: backing service temporarily unavailable
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrExpired     = errors.New("expired")
	ErrUnavailable = errors.New("unavailable")
)
