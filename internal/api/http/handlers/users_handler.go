package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// UsersHandler manages account administration endpoints.
type UsersHandler struct {
	service *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{service: userService}
}

// List GET /users. With a roles filter it serves the routing dropdowns
// and is open to any authenticated caller; without one it lists every
// account and is admin tier only.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}

	rolesParam := c.Query("roles")
	if rolesParam == "" {
		accounts, err := h.service.ListAll(c.UserContext(), caller)
		if err != nil {
			return err
		}
		return successOK(c, fiber.Map{"users": dto.NewAccountResponses(accounts)})
	}

	var roles []string
	for _, r := range strings.Split(rolesParam, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, r)
		}
	}
	var directorate *string
	if d := c.Query("directorate"); d != "" {
		directorate = &d
	}
	excludeSelf := c.Query("exclude_self") == "true"

	accounts, err := h.service.ListByRoles(c.UserContext(), caller, roles, directorate, excludeSelf)
	if err != nil {
		return err
	}
	return successOK(c, fiber.Map{"users": dto.NewAccountResponses(accounts)})
}

// Get GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	account, err := h.service.Get(c.UserContext(), caller, id)
	if err != nil {
		return err
	}
	return successOK(c, fiber.Map{"user": dto.NewAccountResponse(account)})
}

// Create POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	account, err := h.service.Create(c.UserContext(), caller, service.UserCreateInput{
		Username:    req.Username,
		Password:    req.Password,
		Email:       req.Email,
		Role:        req.Role,
		Directorate: req.Directorate,
	})
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, fiber.Map{
		"message": "user created",
		"user":    dto.NewAccountResponse(account),
	})
}

// Update PUT /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	account, err := h.service.Update(c.UserContext(), caller, id, service.UserUpdateInput{
		Username:    req.Username,
		Email:       req.Email,
		Directorate: req.Directorate,
		Role:        req.Role,
	})
	if err != nil {
		return err
	}
	return successOK(c, fiber.Map{
		"message": "user updated",
		"user":    dto.NewAccountResponse(account),
	})
}

// ResetPassword PUT /users/:id/password.
func (h *UsersHandler) ResetPassword(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.ResetUserPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.ResetPassword(c.UserContext(), caller, id, req.NewPassword); err != nil {
		return err
	}
	return successOK(c, fiber.Map{"message": "password reset"})
}

// Delete DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), caller, id); err != nil {
		return err
	}
	return successOK(c, fiber.Map{"message": "user deleted"})
}
