package auth

import (
	"context"
	"time"
)

// Identity is the verified subject of a request, as reported by the
// identity provider.
type Identity struct {
	UID   string
	Email string
}

type CreateUserParams struct {
	Email              string
	Password           string
	DisplayName        string
	MustChangePassword bool
}

// Provider is implemented by every identity backend the API can run against.
type Provider interface {
	VerifyToken(ctx context.Context, token string) (Identity, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, params CreateUserParams) (uid string, err error)
	DeleteUser(ctx context.Context, uid string) error
}

// LocalIdentity is a credential record owned by the built-in provider.
type LocalIdentity struct {
	UID                string
	Email              string
	PasswordHash       string
	DisplayName        string
	MustChangePassword bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
