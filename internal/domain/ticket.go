package domain

import "time"

// TicketStatus enumerates lifecycle states. Transitions only move
// forward along open -> assigned -> resolved; nothing leaves resolved.
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "open"
	TicketStatusAssigned TicketStatus = "assigned"
	TicketStatusResolved TicketStatus = "resolved"
)

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// IsValid reports whether p is a recognized priority.
func (p TicketPriority) IsValid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          int64
	Subject     string
	Description string
	Category    string
	Priority    TicketPriority
	Status      TicketStatus
	// SubmittedBy is the account that created the ticket.
	SubmittedBy int64
	// SubmittedTo optionally routes the ticket to a specific sub-admin.
	SubmittedTo *int64
	// AssignedTo optionally names the resolver handling the ticket. Set
	// no later than the transition into assigned.
	AssignedTo *int64
	// Solution is non-nil iff Status is resolved.
	Solution   *string
	CreatedAt  time.Time
	ResolvedAt *time.Time
	UpdatedAt  time.Time

	// Display names joined from the accounts table for list responses.
	SubmittedByName *string
	SubmittedToName *string
	AssignedToName  *string
}
