package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketService coordinates the ticket lifecycle: open on creation,
// assigned when routed to a resolver, resolved with a recorded
// solution. Transitions are forward-only; nothing leaves resolved.
type TicketService struct {
	tickets    repository.TicketRepository
	accounts   repository.AccountRepository
	dispatcher events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Subject     string
	Description string
	Category    string
	Priority    domain.TicketPriority
	SubmittedTo *int64
	AssignedTo  *int64
}

// TicketListInput selects a role-scoped listing view.
type TicketListInput struct {
	View    string
	Filters repository.TicketFilters
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, accounts repository.AccountRepository, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{tickets: tickets, accounts: accounts, dispatcher: dispatcher}
}

// Create opens a ticket. Status is always open regardless of routing
// fields; clients cannot create tickets in a later state.
func (s *TicketService) Create(ctx context.Context, caller *domain.Account, input TicketCreateInput) (*domain.Ticket, error) {
	if !auth.Allowed(auth.ActionTicketCreate, caller, auth.Resource{}) {
		return nil, apperrors.NewForbidden("not allowed to create tickets")
	}

	subject := strings.TrimSpace(input.Subject)
	description := strings.TrimSpace(input.Description)
	category := strings.TrimSpace(input.Category)
	if subject == "" || description == "" || category == "" {
		return nil, apperrors.NewValidationError("subject, description and category are required", nil)
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !priority.IsValid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
	}

	if input.SubmittedTo != nil {
		if _, err := s.accounts.GetByID(ctx, *input.SubmittedTo); err != nil {
			return nil, apperrors.ToDomainError(err)
		}
	}
	if input.AssignedTo != nil {
		if _, err := s.accounts.GetByID(ctx, *input.AssignedTo); err != nil {
			return nil, apperrors.ToDomainError(err)
		}
	}

	ticket := &domain.Ticket{
		Subject:     subject,
		Description: description,
		Category:    category,
		Priority:    priority,
		Status:      domain.TicketStatusOpen,
		SubmittedBy: caller.ID,
		SubmittedTo: input.SubmittedTo,
		AssignedTo:  input.AssignedTo,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.NewStoreFailure(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  caller.ID,
		Drafts:   createDrafts(ticket),
		Payload: events.TicketCreatedPayload{
			Subject:  ticket.Subject,
			Category: ticket.Category,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// Assign routes a ticket to a resolver and moves it to assigned. The
// persisted row, not anything the client sent, is what the guards run
// against.
func (s *TicketService) Assign(ctx context.Context, caller *domain.Account, ticketID, assigneeID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.ToDomainError(err)
	}
	if !auth.Allowed(auth.ActionTicketAssign, caller, auth.Resource{Ticket: ticket}) {
		return nil, apperrors.NewForbidden("not allowed to assign tickets")
	}
	if ticket.Status == domain.TicketStatusResolved {
		return nil, apperrors.NewValidationError("resolved tickets cannot be assigned", nil)
	}
	assignee, err := s.accounts.GetByID(ctx, assigneeID)
	if err != nil {
		return nil, apperrors.ToDomainError(err)
	}

	ticket.AssignedTo = &assignee.ID
	ticket.Status = domain.TicketStatusAssigned
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.ToDomainError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		ActorID:  caller.ID,
		Drafts:   assignDrafts(ticket, assignee.ID),
		Payload:  events.TicketAssignedPayload{AssigneeID: assignee.ID},
	})
	return ticket, nil
}

// Resolve records the solution and closes the lifecycle.
func (s *TicketService) Resolve(ctx context.Context, caller *domain.Account, ticketID int64, solution string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.ToDomainError(err)
	}
	if !auth.Allowed(auth.ActionTicketResolve, caller, auth.Resource{Ticket: ticket}) {
		return nil, apperrors.NewForbidden("not allowed to resolve this ticket")
	}
	if ticket.Status == domain.TicketStatusResolved {
		return nil, apperrors.NewValidationError("ticket is already resolved", nil)
	}
	solution = strings.TrimSpace(solution)
	if solution == "" {
		return nil, apperrors.NewValidationError("solution is required", nil)
	}

	now := time.Now()
	ticket.Status = domain.TicketStatusResolved
	ticket.Solution = &solution
	ticket.ResolvedAt = &now
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.ToDomainError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketResolved,
		TicketID: ticket.ID,
		ActorID:  caller.ID,
		Drafts:   resolveDrafts(ticket),
		Payload:  events.TicketResolvedPayload{Solution: solution},
	})
	return ticket, nil
}

// Delete removes a ticket permanently. No notification is produced.
func (s *TicketService) Delete(ctx context.Context, caller *domain.Account, ticketID int64) error {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return apperrors.ToDomainError(err)
	}
	if !auth.Allowed(auth.ActionTicketDelete, caller, auth.Resource{Ticket: ticket}) {
		return apperrors.NewForbidden("not allowed to delete this ticket")
	}
	if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
		return apperrors.ToDomainError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticket.ID,
		ActorID:  caller.ID,
	})
	return nil
}

// Get fetches a single ticket, visible only to its participants and
// the admin tier.
func (s *TicketService) Get(ctx context.Context, caller *domain.Account, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.ToDomainError(err)
	}
	if !canViewTicket(caller, ticket) {
		return nil, apperrors.NewForbidden("not allowed to view this ticket")
	}
	return ticket, nil
}

// List returns the caller's role-scoped ticket view.
func (s *TicketService) List(ctx context.Context, caller *domain.Account, input TicketListInput) ([]domain.Ticket, error) {
	filters := input.Filters

	switch {
	case caller.Role == domain.RoleAdmin:
		tickets, err := s.tickets.ListAll(ctx, filters)
		return tickets, apperrors.MapError(err)

	case caller.Role.IsSubAdmin():
		switch input.View {
		case "submitted":
			tickets, err := s.tickets.ListSubmittedTo(ctx, caller.ID, filters)
			return tickets, apperrors.MapError(err)
		case "assigned":
			tickets, err := s.tickets.ListAssignedTo(ctx, caller.ID, filters)
			return tickets, apperrors.MapError(err)
		default:
			tickets, err := s.tickets.ListAll(ctx, filters)
			return tickets, apperrors.MapError(err)
		}

	case caller.Role == domain.RoleResolver:
		return s.listForResolver(ctx, caller, input)

	default:
		if filters.SubmittedBy != 0 && filters.SubmittedBy != caller.ID {
			return nil, apperrors.NewForbidden("not allowed to view other submitters")
		}
		filters.SubmittedBy = 0
		tickets, err := s.tickets.ListBySubmitter(ctx, caller.ID, filters)
		return tickets, apperrors.MapError(err)
	}
}

func (s *TicketService) listForResolver(ctx context.Context, caller *domain.Account, input TicketListInput) ([]domain.Ticket, error) {
	filters := input.Filters

	switch input.View {
	case "resolved":
		filters.Status = string(domain.TicketStatusResolved)
		tickets, err := s.tickets.ListAssignedTo(ctx, caller.ID, filters)
		return tickets, apperrors.MapError(err)
	case "submitted":
		tickets, err := s.tickets.ListBySubmitter(ctx, caller.ID, filters)
		return tickets, apperrors.MapError(err)
	case "overview":
		assigned, err := s.tickets.ListAssignedTo(ctx, caller.ID, filters)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		submitted, err := s.tickets.ListBySubmitter(ctx, caller.ID, filters)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		return mergeTickets(assigned, submitted), nil
	default:
		filters.Status = string(domain.TicketStatusAssigned)
		tickets, err := s.tickets.ListAssignedTo(ctx, caller.ID, filters)
		return tickets, apperrors.MapError(err)
	}
}

func canViewTicket(caller *domain.Account, t *domain.Ticket) bool {
	if caller.Role.IsAdminTier() {
		return true
	}
	if t.SubmittedBy == caller.ID {
		return true
	}
	if t.SubmittedTo != nil && *t.SubmittedTo == caller.ID {
		return true
	}
	return t.AssignedTo != nil && *t.AssignedTo == caller.ID
}

func mergeTickets(a, b []domain.Ticket) []domain.Ticket {
	seen := make(map[int64]bool, len(a))
	merged := make([]domain.Ticket, 0, len(a)+len(b))
	for _, t := range a {
		seen[t.ID] = true
		merged = append(merged, t)
	}
	for _, t := range b {
		if !seen[t.ID] {
			merged = append(merged, t)
		}
	}
	return merged
}

// createDrafts produces the creation fan-out. The routing branches are
// independent: a ticket carrying both fields triggers both, a ticket
// carrying neither falls back to the admin broadcast alone.
func createDrafts(t *domain.Ticket) []domain.NotificationDraft {
	var drafts []domain.NotificationDraft
	if t.AssignedTo != nil {
		drafts = append(drafts,
			domain.NotificationDraft{
				UserID:  *t.AssignedTo,
				Message: fmt.Sprintf("A new ticket (#%d) has been directly assigned to you: %s", t.ID, t.Subject),
			},
			domain.NotificationDraft{
				ToAdmins: true,
				Message:  fmt.Sprintf("Ticket (#%d) '%s' has been directly assigned to a resolver.", t.ID, t.Subject),
			},
		)
	}
	if t.SubmittedTo != nil {
		drafts = append(drafts,
			domain.NotificationDraft{
				UserID:  *t.SubmittedTo,
				Message: fmt.Sprintf("A new ticket (#%d) has been submitted to you for review: %s", t.ID, t.Subject),
			},
			domain.NotificationDraft{
				ToAdmins: true,
				Message:  fmt.Sprintf("A new ticket (#%d) has been submitted to a sub-admin.", t.ID),
			},
		)
	}
	if t.AssignedTo == nil && t.SubmittedTo == nil {
		drafts = append(drafts, domain.NotificationDraft{
			ToAdmins: true,
			Message:  fmt.Sprintf("New unassigned ticket submitted (for general review): %s", t.Subject),
		})
	}
	return drafts
}

func assignDrafts(t *domain.Ticket, assigneeID int64) []domain.NotificationDraft {
	return []domain.NotificationDraft{
		{
			UserID:  assigneeID,
			Message: fmt.Sprintf("You have been assigned to ticket #%d: %s", t.ID, t.Subject),
		},
		{
			UserID:  t.SubmittedBy,
			Message: fmt.Sprintf("Your ticket (#%d) '%s' has been assigned to a support agent and is now being worked on.", t.ID, t.Subject),
		},
	}
}

func resolveDrafts(t *domain.Ticket) []domain.NotificationDraft {
	drafts := []domain.NotificationDraft{
		{
			UserID:  t.SubmittedBy,
			Message: fmt.Sprintf("Your ticket (#%d) '%s' has been resolved. Solution: %s", t.ID, t.Subject, deref(t.Solution)),
		},
	}
	if t.AssignedTo != nil && *t.AssignedTo != t.SubmittedBy {
		drafts = append(drafts, domain.NotificationDraft{
			UserID:  *t.AssignedTo,
			Message: fmt.Sprintf("You resolved ticket #%d: %s", t.ID, t.Subject),
		})
	}
	return drafts
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
