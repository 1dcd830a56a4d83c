package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/auth"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/jwt"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// LocalProvider is the built-in identity provider. Credentials live in the
// identities table and sessions are stateless HS256 access tokens.
type LocalProvider struct {
	identities auth.IdentityRepository
	tokens     jwt.Service
	cost       int
}

func NewLocalProvider(identityRepository auth.IdentityRepository, jwtService jwt.Service) *LocalProvider {
	return &LocalProvider{
		identities: identityRepository,
		tokens:     jwtService,
		cost:       bcrypt.DefaultCost,
	}
}

var (
	_ auth.Provider       = (*LocalProvider)(nil)
	_ auth.AccountService = (*LocalProvider)(nil)
)

func (p *LocalProvider) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyToken implements auth.Provider.
func (p *LocalProvider) VerifyToken(ctx context.Context, token string) (auth.Identity, error) {
	claims, err := p.tokens.ParseAccessToken(token)
	if err != nil {
		return auth.Identity{}, auth.ErrInvalidToken
	}
	return auth.Identity{UID: claims.UID, Email: claims.Email}, nil
}

// EmailExists implements auth.Provider.
func (p *LocalProvider) EmailExists(ctx context.Context, email string) (bool, error) {
	return p.identities.ExistsByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// CreateUser implements auth.Provider.
func (p *LocalProvider) CreateUser(ctx context.Context, params auth.CreateUserParams) (string, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))

	exists, err := p.identities.ExistsByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to check identity email: %w", err)
	}
	if exists {
		return "", auth.ErrEmailExists
	}

	hash, err := p.hashPassword(params.Password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	identity := auth.LocalIdentity{
		UID:                uuid.NewString(),
		Email:              email,
		PasswordHash:       hash,
		DisplayName:        params.DisplayName,
		MustChangePassword: params.MustChangePassword,
	}
	if err := p.identities.Create(ctx, identity); err != nil {
		return "", err
	}
	return identity.UID, nil
}

// DeleteUser implements auth.Provider.
func (p *LocalProvider) DeleteUser(ctx context.Context, uid string) error {
	return p.identities.Delete(ctx, uid)
}

// Login implements auth.AccountService.
func (p *LocalProvider) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	identity, err := p.identities.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, auth.ErrIdentityNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get identity by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := p.tokens.GenerateAccessToken(identity.UID, identity.Email)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken:        token,
		TokenType:          "Bearer",
		ExpiresAt:          expiresAt,
		MustChangePassword: identity.MustChangePassword,
	}, nil
}

// ChangePassword implements auth.AccountService.
func (p *LocalProvider) ChangePassword(ctx context.Context, uid string, req auth.ChangePasswordRequest) error {
	identity, err := p.identities.GetByUID(ctx, uid)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return auth.ErrInvalidCredentials
	}
	if req.CurrentPassword == req.NewPassword {
		return auth.ErrSamePassword
	}

	hash, err := p.hashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return p.identities.UpdatePassword(ctx, uid, hash, false)
}
