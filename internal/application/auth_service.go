package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/therapy-scheduler/internal/persistence"
)

// AuthService issues and validates bearer tokens for staff accounts.
type AuthService struct {
	accounts       persistence.AccountRepository
	tokens         persistence.TokenRepository
	staff          persistence.StaffRepository
	idGenerator    func() string
	tokenGenerator func() string
	now            func() time.Time
	sessionTTL     time.Duration
	logger         *slog.Logger
}

// NewAuthService wires dependencies for authentication operations.
func NewAuthService(
	accounts persistence.AccountRepository,
	tokens persistence.TokenRepository,
	staff persistence.StaffRepository,
	idGenerator func() string,
	tokenGenerator func() string,
	now func() time.Time,
	sessionTTL time.Duration,
	logger *slog.Logger,
) *AuthService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if tokenGenerator == nil {
		tokenGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if sessionTTL <= 0 {
		sessionTTL = 12 * time.Hour
	}
	return &AuthService{
		accounts:       accounts,
		tokens:         tokens,
		staff:          staff,
		idGenerator:    idGenerator,
		tokenGenerator: tokenGenerator,
		now:            now,
		sessionTTL:     sessionTTL,
		logger:         defaultLogger(logger),
	}
}

func (s *AuthService) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Authenticate checks the credentials and issues a fresh bearer token.
// Unknown accounts and wrong passwords are indistinguishable to callers.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (AuthenticateResult, error) {
	if s == nil || s.accounts == nil || s.tokens == nil {
		return AuthenticateResult{}, fmt.Errorf("auth repositories not configured")
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return AuthenticateResult{}, ErrInvalidCredentials
	}

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return AuthenticateResult{}, ErrInvalidCredentials
		}
		return AuthenticateResult{}, mapRepoError(err)
	}

	if err := VerifyPassword(account.PasswordHash, password); err != nil {
		if errors.Is(err, ErrPasswordMismatch) {
			return AuthenticateResult{}, ErrInvalidCredentials
		}
		return AuthenticateResult{}, err
	}

	token := persistence.AuthToken{
		Token:     s.tokenGenerator(),
		StaffID:   account.StaffID,
		ExpiresAt: s.now().Add(s.sessionTTL),
	}
	if err := s.tokens.CreateToken(ctx, token); err != nil {
		return AuthenticateResult{}, mapRepoError(err)
	}

	s.log(ctx, "Authenticate", "staff_id", account.StaffID).InfoContext(ctx, "session issued")
	return AuthenticateResult{
		Principal: Principal{StaffID: account.StaffID, IsAdmin: account.IsAdmin},
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// ValidateSession resolves a bearer token into the acting principal.
// Expired tokens are removed on sight.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (Principal, error) {
	if s == nil || s.accounts == nil || s.tokens == nil {
		return Principal{}, fmt.Errorf("auth repositories not configured")
	}
	if token == "" {
		return Principal{}, ErrUnauthorized
	}

	record, err := s.tokens.GetToken(ctx, token)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return Principal{}, ErrUnauthorized
		}
		return Principal{}, mapRepoError(err)
	}

	if !s.now().Before(record.ExpiresAt) {
		if err := s.tokens.DeleteToken(ctx, token); err != nil && !errors.Is(err, persistence.ErrNotFound) {
			s.log(ctx, "ValidateSession").WarnContext(ctx, "failed to drop expired token", "error", err)
		}
		return Principal{}, ErrSessionExpired
	}

	account, err := s.accounts.GetAccount(ctx, record.StaffID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return Principal{}, ErrUnauthorized
		}
		return Principal{}, mapRepoError(err)
	}

	return Principal{StaffID: account.StaffID, IsAdmin: account.IsAdmin}, nil
}

// Logout revokes a bearer token. Revoking an unknown token is a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if s == nil || s.tokens == nil {
		return fmt.Errorf("auth repositories not configured")
	}
	if token == "" {
		return nil
	}
	if err := s.tokens.DeleteToken(ctx, token); err != nil && !errors.Is(err, persistence.ErrNotFound) {
		return mapRepoError(err)
	}
	s.log(ctx, "Logout").InfoContext(ctx, "session revoked")
	return nil
}

// PurgeExpiredTokens drops every token past its expiry.
func (s *AuthService) PurgeExpiredTokens(ctx context.Context) error {
	if s == nil || s.tokens == nil {
		return fmt.Errorf("auth repositories not configured")
	}
	if err := s.tokens.DeleteExpiredTokens(ctx, s.now()); err != nil {
		return mapRepoError(err)
	}
	return nil
}

// Bootstrap seeds the initial administrator staff record and account when
// no account exists for the configured email. Safe to call on every start.
func (s *AuthService) Bootstrap(ctx context.Context, email, password string) error {
	if s == nil || s.accounts == nil || s.staff == nil {
		return fmt.Errorf("auth repositories not configured")
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	if _, err := s.accounts.GetAccountByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, persistence.ErrNotFound) {
		return mapRepoError(err)
	}

	hash, err := CreatePasswordHash(password, DefaultArgon2idParams)
	if err != nil {
		return err
	}

	staffID := s.idGenerator()
	if err := s.staff.CreateStaff(ctx, persistence.Staff{
		ID:          staffID,
		FullName:    "Administrator",
		Role:        "admin",
		WeeklyQuota: 0,
	}); err != nil {
		return mapRepoError(err)
	}
	if err := s.accounts.CreateAccount(ctx, persistence.Account{
		StaffID:      staffID,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      true,
	}); err != nil {
		return mapRepoError(err)
	}

	s.log(ctx, "Bootstrap", "staff_id", staffID).InfoContext(ctx, "administrator account created")
	return nil
}
