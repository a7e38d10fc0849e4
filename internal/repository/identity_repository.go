package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/inquiry-service/internal/domain"
)

// IdentityRepository manages credential records. Profiles hang off identities,
// so deleting an identity cascades to its profile.
type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) error
	GetByID(ctx context.Context, id string) (*domain.Identity, error)
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
}

type identityRepository struct {
	pool *pgxpool.Pool
}

// NewIdentityRepository returns a Postgres-backed implementation.
func NewIdentityRepository(pool *pgxpool.Pool) IdentityRepository {
	return &identityRepository{pool: pool}
}

func (r *identityRepository) Create(ctx context.Context, identity *domain.Identity) error {
	const query = `
        INSERT INTO identities (email, password_hash)
        VALUES ($1, $2)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		identity.Email,
		identity.PasswordHash,
	).Scan(&identity.ID, &identity.CreatedAt)
}

func (r *identityRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	const query = `
        SELECT id, email, password_hash, created_at
        FROM identities WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *identityRepository) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	const query = `
        SELECT id, email, password_hash, created_at
        FROM identities WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *identityRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Identity, error) {
	var identity domain.Identity
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&identity.ID,
		&identity.Email,
		&identity.PasswordHash,
		&identity.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (r *identityRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE identities SET password_hash=$1 WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *identityRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM identities WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
