package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateNotificationRequest payload.
type CreateNotificationRequest struct {
	Message string `json:"message"`
}

// NotificationResponse is one inbox row.
type NotificationResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotificationResponse maps a domain notification.
func NewNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// NewNotificationResponses maps a notification slice.
func NewNotificationResponses(notifications []domain.Notification) []NotificationResponse {
	items := make([]NotificationResponse, 0, len(notifications))
	for i := range notifications {
		items = append(items, NewNotificationResponse(&notifications[i]))
	}
	return items
}
