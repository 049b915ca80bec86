package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// DirectoryHandler serves the roles/directorates reference tables.
type DirectoryHandler struct {
	service *service.DirectoryService
}

// NewDirectoryHandler constructs handler.
func NewDirectoryHandler(directoryService *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: directoryService}
}

// ListRoles GET /roles.
func (h *DirectoryHandler) ListRoles(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	records, err := h.service.ListRoles(c.UserContext(), caller)
	if err != nil {
		return err
	}
	return successOK(c, fiber.Map{"roles": dto.NewRoleResponses(records)})
}

// CreateRole POST /roles.
func (h *DirectoryHandler) CreateRole(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateReferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	record, err := h.service.CreateRole(c.UserContext(), caller, req.Name, req.Description)
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, fiber.Map{
		"message": "role created",
		"role": dto.ReferenceResponse{
			ID:          record.ID,
			Name:        record.Name,
			Description: record.Description,
			CreatedAt:   record.CreatedAt,
		},
	})
}

// ListDirectorates GET /directorates.
func (h *DirectoryHandler) ListDirectorates(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	records, err := h.service.ListDirectorates(c.UserContext(), caller)
	if err != nil {
		return err
	}
	return successOK(c, fiber.Map{"directorates": dto.NewDirectorateResponses(records)})
}

// CreateDirectorate POST /directorates.
func (h *DirectoryHandler) CreateDirectorate(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateReferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	record, err := h.service.CreateDirectorate(c.UserContext(), caller, req.Name, req.Description)
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, fiber.Map{
		"message": "directorate created",
		"directorate": dto.ReferenceResponse{
			ID:          record.ID,
			Name:        record.Name,
			Description: record.Description,
			CreatedAt:   record.CreatedAt,
		},
	})
}
