package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// OptionalID accepts the routing-field encodings clients actually send:
// a number, a numeric string, an empty string, or null. Empty string
// and null both mean "not set".
type OptionalID struct {
	Value *int64
}

// UnmarshalJSON implements the lenient decoding.
func (o *OptionalID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		o.Value = nil
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			o.Value = nil
			return nil
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		o.Value = &id
		return nil
	}
	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	o.Value = &id
	return nil
}

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	Category    string                `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
	SubmittedTo OptionalID            `json:"submitted_to"`
	AssignedTo  OptionalID            `json:"assigned_to"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AssignedTo int64 `json:"assigned_to"`
}

// ResolveTicketRequest payload.
type ResolveTicketRequest struct {
	Solution string `json:"solution"`
}

// TicketResponse is the full ticket representation.
type TicketResponse struct {
	ID              int64                 `json:"id"`
	Subject         string                `json:"subject"`
	Description     string                `json:"description"`
	Category        string                `json:"category"`
	Priority        domain.TicketPriority `json:"priority"`
	Status          domain.TicketStatus   `json:"status"`
	SubmittedBy     int64                 `json:"submitted_by"`
	SubmittedTo     *int64                `json:"submitted_to"`
	AssignedTo      *int64                `json:"assigned_to"`
	Solution        *string               `json:"solution"`
	SubmittedByName *string               `json:"submitted_by_name,omitempty"`
	SubmittedToName *string               `json:"submitted_to_name,omitempty"`
	AssignedToName  *string               `json:"assigned_to_name,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	ResolvedAt      *time.Time            `json:"resolved_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:              t.ID,
		Subject:         t.Subject,
		Description:     t.Description,
		Category:        t.Category,
		Priority:        t.Priority,
		Status:          t.Status,
		SubmittedBy:     t.SubmittedBy,
		SubmittedTo:     t.SubmittedTo,
		AssignedTo:      t.AssignedTo,
		Solution:        t.Solution,
		SubmittedByName: t.SubmittedByName,
		SubmittedToName: t.SubmittedToName,
		AssignedToName:  t.AssignedToName,
		CreatedAt:       t.CreatedAt,
		ResolvedAt:      t.ResolvedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// NewTicketResponses maps a ticket slice.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, NewTicketResponse(&tickets[i]))
	}
	return items
}
