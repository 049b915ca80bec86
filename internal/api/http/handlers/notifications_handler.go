package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// NotificationsHandler manages the per-user inbox.
type NotificationsHandler struct {
	service *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{service: notificationService}
}

// List GET /notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	unreadOnly := c.Query("unread") == "true"
	notifications, err := h.service.List(c.UserContext(), caller, unreadOnly)
	if err != nil {
		return err
	}
	return successOK(c, fiber.Map{"notifications": dto.NewNotificationResponses(notifications)})
}

// Create POST /notifications inserts into the caller's own inbox.
func (h *NotificationsHandler) Create(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	notification, err := h.service.Create(c.UserContext(), caller, req.Message)
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, fiber.Map{
		"message":      "notification created",
		"notification": dto.NewNotificationResponse(notification),
	})
}

// MarkRead PUT /notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.MarkRead(c.UserContext(), caller, id); err != nil {
		return err
	}
	return successOK(c, fiber.Map{"message": "notification marked read"})
}

// MarkAllRead PUT /notifications/read-all.
func (h *NotificationsHandler) MarkAllRead(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.service.MarkAllRead(c.UserContext(), caller); err != nil {
		return err
	}
	return successOK(c, fiber.Map{"message": "all notifications marked read"})
}

// Delete DELETE /notifications/:id.
func (h *NotificationsHandler) Delete(c *fiber.Ctx) error {
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
	return successOK(c, fiber.Map{"message": "notification deleted"})
}
