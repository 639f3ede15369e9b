package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/example/therapy-scheduler/internal/persistence"
)

// TokenRepository implements persistence.TokenRepository using SQLite.
type TokenRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewTokenRepository creates a new SQLite token repository.
func NewTokenRepository(pool *ConnectionPool) *TokenRepository {
	return &TokenRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateToken stores a newly issued bearer token.
func (r *TokenRepository) CreateToken(ctx context.Context, token persistence.AuthToken) error {
	if token.Token == "" || token.StaffID == "" || token.ExpiresAt.IsZero() {
		return persistence.ErrConstraintViolation
	}

	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}

	_, err := r.helper.Exec(ctx, `
		INSERT INTO auth_tokens (token, staff_id, expires_at, created_at)
		VALUES (?, ?, ?, ?)`,
		token.Token,
		token.StaffID,
		token.ExpiresAt.UTC().Format(time.RFC3339),
		token.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// GetToken retrieves a token record by its value.
func (r *TokenRepository) GetToken(ctx context.Context, token string) (persistence.AuthToken, error) {
	var record persistence.AuthToken
	var expiresAt, createdAt string

	err := r.helper.QueryRow(ctx, `
		SELECT token, staff_id, expires_at, created_at
		FROM auth_tokens
		WHERE token = ?`, token).Scan(&record.Token, &record.StaffID, &expiresAt, &createdAt)
	if err != nil {
		return persistence.AuthToken{}, r.mapper.MapError(err)
	}

	if record.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return persistence.AuthToken{}, fmt.Errorf("failed to parse expires_at: %w", err)
	}
	if record.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.AuthToken{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return record, nil
}

// DeleteToken removes a token, logging the holder out.
func (r *TokenRepository) DeleteToken(ctx context.Context, token string) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM auth_tokens WHERE token = ?`, token)
	if err != nil {
		return r.mapper.MapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// DeleteExpiredTokens removes tokens that expired before the reference
// instant.
func (r *TokenRepository) DeleteExpiredTokens(ctx context.Context, reference time.Time) error {
	_, err := r.helper.Exec(ctx, `DELETE FROM auth_tokens WHERE expires_at < ?`,
		reference.UTC().Format(time.RFC3339))
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}
