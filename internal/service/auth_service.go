package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// AuthService owns credential checks, token issuance, and the
// password-reset flow.
type AuthService struct {
	accounts      repository.AccountRepository
	tokens        *auth.TokenManager
	logger        *zap.Logger
	bcryptCost    int
	resetTokenTTL time.Duration
}

// LoginResult is what a successful login hands back to the handler.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Account   *domain.Account
}

// NewAuthService constructs the service.
func NewAuthService(accounts repository.AccountRepository, tokens *auth.TokenManager, logger *zap.Logger, bcryptCost int, resetTokenTTL time.Duration) *AuthService {
	if resetTokenTTL <= 0 {
		resetTokenTTL = time.Hour
	}
	return &AuthService{
		accounts:      accounts,
		tokens:        tokens,
		logger:        logger,
		bcryptCost:    bcryptCost,
		resetTokenTTL: resetTokenTTL,
	}
}

// Login checks credentials and issues a signed token. The token is also
// written to the account row, but that stored copy is informational:
// verification never consults it.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.NewValidationError("username and password are required", nil)
	}

	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewAuthInvalid("invalid credentials")
		}
		return nil, apperrors.ToDomainError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, apperrors.NewAuthInvalid("invalid credentials")
	}

	token, expiresAt, err := s.tokens.Issue(auth.SubjectData{
		ID:          account.ID,
		Username:    account.Username,
		Role:        account.Role,
		Directorate: account.Directorate,
	})
	if err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}

	if err := s.accounts.UpdateSessionToken(ctx, account.ID, &token); err != nil {
		s.logger.Warn("session token write failed",
			zap.Int64("user_id", account.ID),
			zap.Error(err))
	}
	account.SessionToken = &token

	return &LoginResult{Token: token, ExpiresAt: expiresAt, Account: account}, nil
}

// Verify is the legacy lookup: it resolves a stored session token back
// to its account. Kept for clients that predate stateless verification.
func (s *AuthService) Verify(ctx context.Context, token string) (*domain.Account, error) {
	if token == "" {
		return nil, apperrors.NewAuthMissing("token is required")
	}
	account, err := s.accounts.GetBySessionToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewAuthInvalid("unknown token")
		}
		return nil, apperrors.ToDomainError(err)
	}
	return account, nil
}

// ForgotPassword stores a fresh reset token on the account. Mail
// delivery is an external collaborator; here it is a logged stub.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperrors.NewValidationError("email is required", nil)
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("account", nil)
		}
		return apperrors.ToDomainError(err)
	}

	resetToken := uuid.NewString()
	expiry := time.Now().Add(s.resetTokenTTL)
	if err := s.accounts.UpdateResetToken(ctx, account.ID, &resetToken, &expiry); err != nil {
		return apperrors.ToDomainError(err)
	}

	s.logger.Info("password reset requested",
		zap.Int64("user_id", account.ID),
		zap.Time("expires_at", expiry))
	return nil
}

// ResetPassword consumes a reset token and sets a new password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return apperrors.NewValidationError("token and new password are required", nil)
	}

	account, err := s.accounts.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("invalid reset token", nil)
		}
		return apperrors.ToDomainError(err)
	}
	if account.ResetExpiry == nil || account.ResetExpiry.Before(time.Now()) {
		return apperrors.NewValidationError("reset token expired", nil)
	}

	hashed, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewStoreFailure(err)
	}
	if err := s.accounts.UpdatePassword(ctx, account.ID, hashed); err != nil {
		return apperrors.ToDomainError(err)
	}
	// Reset tokens are single use.
	return apperrors.MapError(s.accounts.UpdateResetToken(ctx, account.ID, nil, nil))
}

// ChangePassword verifies the current password before setting the new one.
func (s *AuthService) ChangePassword(ctx context.Context, caller *domain.Account, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return apperrors.NewValidationError("current and new password are required", nil)
	}
	if err := auth.ComparePassword(caller.PasswordHash, currentPassword); err != nil {
		return apperrors.NewAuthInvalid("invalid credentials")
	}
	hashed, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewStoreFailure(err)
	}
	return apperrors.MapError(s.accounts.UpdatePassword(ctx, caller.ID, hashed))
}
