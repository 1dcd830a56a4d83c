package auth

import "errors"

var (
	ErrMissingToken        = errors.New("missing or invalid Authorization header")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrIdentityNotFound    = errors.New("identity not found")
	ErrEmailExists         = errors.New("email already exists in authentication system")
	ErrSamePassword        = errors.New("new password must differ from the current password")
	ErrProviderUnavailable = errors.New("identity provider unavailable")
	ErrMissingDevUID       = errors.New("X-Firebase-UID header is required in development mode")
	ErrDevAuthNotPermitted = errors.New("development authentication is disabled")
	ErrUnauthenticated     = errors.New("authentication required")
)
