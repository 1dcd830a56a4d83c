package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/auth"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type identityRepositoryImpl struct {
	db *database.DB
}

func NewIdentityRepository(db *database.DB) auth.IdentityRepository {
	return &identityRepositoryImpl{db: db}
}

const identityColumns = `uid, email, password_hash, display_name, must_change_password, created_at, updated_at`

func scanIdentity(row pgx.Row) (auth.LocalIdentity, error) {
	var identity auth.LocalIdentity
	err := row.Scan(
		&identity.UID,
		&identity.Email,
		&identity.PasswordHash,
		&identity.DisplayName,
		&identity.MustChangePassword,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)
	return identity, err
}

// Create implements auth.IdentityRepository.
func (r *identityRepositoryImpl) Create(ctx context.Context, identity auth.LocalIdentity) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO identities (uid, email, password_hash, display_name, must_change_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := q.Exec(ctx, query,
		identity.UID,
		identity.Email,
		identity.PasswordHash,
		identity.DisplayName,
		identity.MustChangePassword,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "identities_email_key") {
			return auth.ErrEmailExists
		}
		return fmt.Errorf("failed to create identity: %w", err)
	}
	return nil
}

// GetByUID implements auth.IdentityRepository.
func (r *identityRepositoryImpl) GetByUID(ctx context.Context, uid string) (auth.LocalIdentity, error) {
	q := GetQuerier(ctx, r.db)

	identity, err := scanIdentity(q.QueryRow(ctx, `SELECT `+identityColumns+` FROM identities WHERE uid = $1`, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.LocalIdentity{}, auth.ErrIdentityNotFound
		}
		return auth.LocalIdentity{}, fmt.Errorf("failed to get identity: %w", err)
	}
	return identity, nil
}

// GetByEmail implements auth.IdentityRepository.
func (r *identityRepositoryImpl) GetByEmail(ctx context.Context, email string) (auth.LocalIdentity, error) {
	q := GetQuerier(ctx, r.db)

	identity, err := scanIdentity(q.QueryRow(ctx, `SELECT `+identityColumns+` FROM identities WHERE lower(email) = lower($1)`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.LocalIdentity{}, auth.ErrIdentityNotFound
		}
		return auth.LocalIdentity{}, fmt.Errorf("failed to get identity by email: %w", err)
	}
	return identity, nil
}

// ExistsByEmail implements auth.IdentityRepository.
func (r *identityRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM identities WHERE lower(email) = lower($1))`, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check identity email: %w", err)
	}
	return exists, nil
}

// UpdatePassword implements auth.IdentityRepository.
func (r *identityRepositoryImpl) UpdatePassword(ctx context.Context, uid string, passwordHash string, mustChange bool) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE identities
		SET password_hash = $1, must_change_password = $2, updated_at = NOW()
		WHERE uid = $3
	`, passwordHash, mustChange, uid)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrIdentityNotFound
	}
	return nil
}

// Delete implements auth.IdentityRepository.
func (r *identityRepositoryImpl) Delete(ctx context.Context, uid string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM identities WHERE uid = $1`, uid); err != nil {
		return fmt.Errorf("failed to delete identity: %w", err)
	}
	return nil
}
