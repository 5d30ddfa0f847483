package usecase

import "errors"

// Sentinel error kinds. Provider adapters classify every upstream failure
// into one of these so the router can decide between retry, fallthrough and
// skip without inspecting provider-specific shapes.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrNotFound              = errors.New("resource not found")
	ErrNotConfigured         = errors.New("provider not configured")
	ErrTransientProvider     = errors.New("transient provider failure")
	ErrProviderRejected      = errors.New("provider rejected request")
	ErrEmptyResult           = errors.New("empty provider result")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
