package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/therapy-scheduler/internal/persistence"
)

// AccountRepository implements persistence.AccountRepository using SQLite.
type AccountRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewAccountRepository creates a new SQLite account repository.
func NewAccountRepository(pool *ConnectionPool) *AccountRepository {
	return &AccountRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateAccount stores login credentials for a staff member.
func (r *AccountRepository) CreateAccount(ctx context.Context, account persistence.Account) error {
	if account.StaffID == "" || strings.TrimSpace(account.Email) == "" || account.PasswordHash == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	_, err := r.helper.Exec(ctx, `
		INSERT INTO accounts (staff_id, email, password_hash, is_admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		account.StaffID,
		strings.ToLower(strings.TrimSpace(account.Email)),
		account.PasswordHash,
		boolToInt(account.IsAdmin),
		account.CreatedAt.Format(time.RFC3339),
		account.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// GetAccountByEmail retrieves an account by its login email.
func (r *AccountRepository) GetAccountByEmail(ctx context.Context, email string) (persistence.Account, error) {
	return r.getAccount(ctx, `
		SELECT staff_id, email, password_hash, is_admin, created_at, updated_at
		FROM accounts
		WHERE email = ?`, strings.ToLower(strings.TrimSpace(email)))
}

// GetAccount retrieves an account by staff ID.
func (r *AccountRepository) GetAccount(ctx context.Context, staffID string) (persistence.Account, error) {
	return r.getAccount(ctx, `
		SELECT staff_id, email, password_hash, is_admin, created_at, updated_at
		FROM accounts
		WHERE staff_id = ?`, staffID)
}

func (r *AccountRepository) getAccount(ctx context.Context, query string, arg any) (persistence.Account, error) {
	var account persistence.Account
	var isAdmin int
	var createdAt, updatedAt string

	err := r.helper.QueryRow(ctx, query, arg).Scan(
		&account.StaffID,
		&account.Email,
		&account.PasswordHash,
		&isAdmin,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Account{}, r.mapper.MapError(err)
	}

	account.IsAdmin = isAdmin != 0
	if account.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Account{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if account.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Account{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return account, nil
}
