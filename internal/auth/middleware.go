package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

const principalKey = "auth_principal"

const bearerPrefix = "Bearer "

// AccountSource loads the current account row for a verified subject.
type AccountSource interface {
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
}

// Middleware validates bearer tokens and loads the caller's account.
// The account row, not the token's embedded copy, supplies the role and
// directorate for every downstream decision, so role changes take
// effect on the next request even for tokens issued earlier.
type Middleware struct {
	tokens   *TokenManager
	accounts AccountSource
}

// NewMiddleware constructs the authenticator middleware.
func NewMiddleware(tokens *TokenManager, accounts AccountSource) *Middleware {
	return &Middleware{tokens: tokens, accounts: accounts}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewAuthMissing("missing authorization header")
	}
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return apperrors.NewAuthMissing("invalid authorization header")
	}
	token := strings.TrimSpace(authHeader[len(bearerPrefix):])
	if token == "" {
		return apperrors.NewAuthMissing("invalid authorization header")
	}

	claims, err := m.tokens.Verify(token)
	if err != nil {
		return apperrors.NewAuthInvalid(verifyFailureMessage(err))
	}

	account, err := m.accounts.GetByID(c.Context(), claims.Data.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewAuthUnknownUser("account not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, account)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated account.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Account, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	account, ok := val.(*domain.Account)
	return account, ok
}

func verifyFailureMessage(err error) string {
	switch {
	case errors.Is(err, ErrExpired):
		return "token expired"
	case errors.Is(err, ErrBadSignature):
		return "token signature mismatch"
	case errors.Is(err, ErrBadClaim):
		return "token claim mismatch"
	default:
		return "invalid token"
	}
}
