package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// success renders the standard envelope with extra payload keys merged in.
func success(c *fiber.Ctx, status int, payload fiber.Map) error {
	body := fiber.Map{"status": "success"}
	for k, v := range payload {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

func successOK(c *fiber.Ctx, payload fiber.Map) error {
	return success(c, http.StatusOK, payload)
}

// principal fetches the authenticated account placed by the middleware.
func principal(c *fiber.Ctx) (*domain.Account, error) {
	account, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewAuthMissing("authentication required")
	}
	return account, nil
}

// idParam parses a numeric path parameter.
func idParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, nil)
	}
	return int64(id), nil
}
