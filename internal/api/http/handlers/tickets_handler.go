package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketsHandler manages ticket lifecycle endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Create(c.UserContext(), caller, service.TicketCreateInput{
		Subject:     req.Subject,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		SubmittedTo: req.SubmittedTo.Value,
		AssignedTo:  req.AssignedTo.Value,
	})
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, fiber.Map{
		"message": "ticket created",
		"ticket":  dto.NewTicketResponse(ticket),
	})
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.List(c.UserContext(), caller, service.TicketListInput{
		View:    c.Query("view"),
		Filters: parseTicketFilters(c),
	})
	if err != nil {
		return err
	}
	return successOK(c, fiber.Map{"tickets": dto.NewTicketResponses(tickets)})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ticket, err := h.service.Get(c.UserContext(), caller, id)
	if err != nil {
		return err
	}
	return successOK(c, fiber.Map{"ticket": dto.NewTicketResponse(ticket)})
}

// Assign PUT /tickets/:id/assign.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AssignedTo <= 0 {
		return apperrors.NewValidationError("assigned_to is required", nil)
	}
	ticket, err := h.service.Assign(c.UserContext(), caller, id, req.AssignedTo)
	if err != nil {
		return err
	}
	return successOK(c, fiber.Map{
		"message": "ticket assigned",
		"ticket":  dto.NewTicketResponse(ticket),
	})
}

// Resolve PUT /tickets/:id/resolve.
func (h *TicketsHandler) Resolve(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.ResolveTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Resolve(c.UserContext(), caller, id, req.Solution)
	if err != nil {
		return err
	}
	return successOK(c, fiber.Map{
		"message": "ticket resolved",
		"ticket":  dto.NewTicketResponse(ticket),
	})
}

// Delete DELETE /tickets/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
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
	return successOK(c, fiber.Map{"message": "ticket deleted"})
}

func parseTicketFilters(c *fiber.Ctx) repository.TicketFilters {
	filters := repository.TicketFilters{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	if raw := c.Query("submitted_by"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.SubmittedBy = id
		}
	}
	return filters
}
