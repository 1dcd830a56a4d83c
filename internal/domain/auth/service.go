package auth

import "context"

// AccountService exposes the password flows of the built-in provider.
type AccountService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	ChangePassword(ctx context.Context, uid string, req ChangePasswordRequest) error
}
