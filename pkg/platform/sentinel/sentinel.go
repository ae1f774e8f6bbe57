package sentinel

import "errors"

// Sentinel errors for infrastructure facts. The mock backend's store returns
// these (optionally wrapped) and its handlers translate them into HTTP statuses.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrConflict: a unique key (mobile, email) is already taken
// - ErrInvalidState: entity in wrong state for requested operation
//
// Field validation failures are reported by internal/registration/validation instead.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
)
