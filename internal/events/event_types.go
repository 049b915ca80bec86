package events

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated  EventType = "ticket_created"
	EventTicketAssigned EventType = "ticket_assigned"
	EventTicketResolved EventType = "ticket_resolved"
	EventTicketDeleted  EventType = "ticket_deleted"
)

// Event represents a domain event emitted by services. Drafts carry the
// notifications the transition produced; the subscriber persists them.
type Event struct {
	Type      EventType                  `json:"type"`
	TicketID  int64                      `json:"ticket_id"`
	ActorID   int64                      `json:"actor_id"`
	Timestamp time.Time                  `json:"timestamp"`
	Drafts    []domain.NotificationDraft `json:"drafts,omitempty"`
	Payload   interface{}                `json:"payload,omitempty"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Subject  string                `json:"subject"`
	Category string                `json:"category"`
	Priority domain.TicketPriority `json:"priority"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssigneeID int64 `json:"assignee_id"`
}

// TicketResolvedPayload payload.
type TicketResolvedPayload struct {
	Solution string `json:"solution"`
}
