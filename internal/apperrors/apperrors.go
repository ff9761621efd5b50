// Package apperrors defines the error taxonomy shared by every layer.
// Repositories and controllers wrap these sentinels with %w so handlers can
// map them to HTTP statuses with errors.Is.
package apperrors

import "errors"

var (
	// ErrUnauthenticated means no principal was present on the request.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrAccessDenied means a principal was present but its role or scope
	// does not permit the operation.
	ErrAccessDenied = errors.New("access denied")

	// ErrNotFound means a referenced entity id does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition means a status change is not permitted from the
	// log's current state for the caller's role.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidCode means a scanned QR code does not match the branch's
	// stored code.
	ErrInvalidCode = errors.New("invalid qr code")

	// ErrValidation means the input was malformed or violates a model
	// invariant.
	ErrValidation = errors.New("validation error")

	// ErrStoreUnavailable means the entity store or blob store failed.
	// Never silently downgraded to an empty result.
	ErrStoreUnavailable = errors.New("store unavailable")
)
