package auth

import "context"

type IdentityRepository interface {
	Create(ctx context.Context, identity LocalIdentity) error
	GetByUID(ctx context.Context, uid string) (LocalIdentity, error)
	GetByEmail(ctx context.Context, email string) (LocalIdentity, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, uid string, passwordHash string, mustChange bool) error
	Delete(ctx context.Context, uid string) error
}
