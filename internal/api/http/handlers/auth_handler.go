package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// AuthHandler manages login and password flows.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.service.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return successOK(c, fiber.Map{
		"message":    "login successful",
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
		"user":       dto.NewAccountResponse(result.Account),
	})
}

// Verify POST /auth/verify resolves a stored session token to its account.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	var req dto.VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	account, err := h.service.Verify(c.UserContext(), req.Token)
	if err != nil {
		return err
	}
	return successOK(c, fiber.Map{"user": dto.NewAccountResponse(account)})
}

// ForgotPassword POST /auth/forgot-password.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return err
	}
	return successOK(c, fiber.Map{"message": "password reset requested"})
}

// ResetPassword POST /auth/reset-password.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.ResetPassword(c.UserContext(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return successOK(c, fiber.Map{"message": "password reset"})
}

// ChangePassword POST /auth/change-password (authenticated).
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.ChangePassword(c.UserContext(), caller, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return successOK(c, fiber.Map{"message": "password changed"})
}
