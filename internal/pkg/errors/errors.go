package errors

import "errors"

// Sentinels for the failure kinds the services distinguish. Callers classify
// with errors.Is; the HTTP layer maps each kind to a status code.
var (
	// ErrInvalidArgument marks missing or malformed caller input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound marks a referenced entity that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized marks missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden marks an actor acting on a resource it does not own.
	ErrForbidden = errors.New("forbidden")
	// ErrUnresolvableAddress marks an address the geocoder could not resolve.
	ErrUnresolvableAddress = errors.New("unresolvable address")
	// ErrUpstream marks an unavailable or misbehaving upstream service.
	ErrUpstream = errors.New("upstream failure")
	// ErrStorage marks a blob store write/delete failure.
	ErrStorage = errors.New("storage failure")
	// ErrPersistence marks a database transaction failure.
	ErrPersistence = errors.New("persistence failure")
	// ErrConsistency marks an internal cross-entity inconsistency, e.g. a
	// verified token naming a user that no longer exists.
	ErrConsistency = errors.New("consistency failure")
)
