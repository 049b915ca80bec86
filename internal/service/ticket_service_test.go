package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

func listFilterSubmitter(id int64) repository.TicketFilters {
	return repository.TicketFilters{SubmittedBy: id}
}

func testAccounts() (*domain.Account, *domain.Account, *domain.Account, *domain.Account) {
	directorate := "IT"
	user := &domain.Account{ID: 1, Username: "enduser", Role: domain.RoleUser}
	resolver := &domain.Account{ID: 2, Username: "fixer", Role: domain.RoleResolver}
	subAdmin := &domain.Account{ID: 3, Username: "itadmin", Role: "ITadmin", Directorate: &directorate}
	admin := &domain.Account{ID: 4, Username: "root", Role: domain.RoleAdmin}
	return user, resolver, subAdmin, admin
}

func newTicketFixture(tickets ...*domain.Ticket) (*TicketService, *fakeTicketRepo, *captureDispatcher) {
	user, resolver, subAdmin, admin := testAccounts()
	accounts := newFakeAccountRepo(user, resolver, subAdmin, admin)
	repo := newFakeTicketRepo(tickets...)
	dispatcher := &captureDispatcher{}
	return NewTicketService(repo, accounts, dispatcher), repo, dispatcher
}

func forbidden(t *testing.T, err error) {
	t.Helper()
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "FORBIDDEN" {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
}

func validation(t *testing.T, err error) {
	t.Helper()
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION" {
		t.Fatalf("expected VALIDATION, got %v", err)
	}
}

func TestCreateTicketDefaults(t *testing.T) {
	user, _, _, _ := testAccounts()
	svc, repo, dispatcher := newTicketFixture()

	ticket, err := svc.Create(context.Background(), user, TicketCreateInput{
		Subject:     "Printer broken",
		Description: "The office printer does not print",
		Category:    "Hardware",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ticket.Status != domain.TicketStatusOpen {
		t.Fatalf("expected open status, got %s", ticket.Status)
	}
	if ticket.Priority != domain.TicketPriorityMedium {
		t.Fatalf("expected medium priority default, got %s", ticket.Priority)
	}
	if ticket.SubmittedBy != user.ID {
		t.Fatalf("submitter not recorded: %d", ticket.SubmittedBy)
	}
	if _, err := repo.GetByID(context.Background(), ticket.ID); err != nil {
		t.Fatalf("ticket not persisted: %v", err)
	}

	event := dispatcher.lastEvent()
	if event == nil {
		t.Fatal("expected a ticket created event")
	}
	if len(event.Drafts) != 1 || !event.Drafts[0].ToAdmins {
		t.Fatalf("unrouted ticket should produce the admin broadcast only, got %+v", event.Drafts)
	}
	if !strings.Contains(event.Drafts[0].Message, "Printer broken") {
		t.Fatalf("broadcast should carry the subject: %q", event.Drafts[0].Message)
	}
}

func TestCreateTicketValidation(t *testing.T) {
	user, _, _, _ := testAccounts()
	svc, _, _ := newTicketFixture()

	_, err := svc.Create(context.Background(), user, TicketCreateInput{Subject: "x"})
	validation(t, err)

	_, err = svc.Create(context.Background(), user, TicketCreateInput{
		Subject: "x", Description: "y", Category: "z", Priority: "urgent",
	})
	validation(t, err)
}

func TestCreateTicketNotificationBranches(t *testing.T) {
	user, resolver, subAdmin, _ := testAccounts()

	cases := []struct {
		name        string
		submittedTo *int64
		assignedTo  *int64
		wantDrafts  int
		wantAdmins  int
		wantDirect  []int64
	}{
		{"neither routed", nil, nil, 1, 1, nil},
		{"submitted to sub-admin", &subAdmin.ID, nil, 2, 1, []int64{subAdmin.ID}},
		{"assigned to resolver", nil, &resolver.ID, 2, 1, []int64{resolver.ID}},
		{"both routed", &subAdmin.ID, &resolver.ID, 4, 2, []int64{resolver.ID, subAdmin.ID}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, dispatcher := newTicketFixture()
			_, err := svc.Create(context.Background(), user, TicketCreateInput{
				Subject:     "VPN down",
				Description: "Cannot connect from home",
				Category:    "Network",
				SubmittedTo: tc.submittedTo,
				AssignedTo:  tc.assignedTo,
			})
			if err != nil {
				t.Fatalf("Create: %v", err)
			}

			event := dispatcher.lastEvent()
			if event == nil {
				t.Fatal("expected event")
			}
			if len(event.Drafts) != tc.wantDrafts {
				t.Fatalf("expected %d drafts, got %d: %+v", tc.wantDrafts, len(event.Drafts), event.Drafts)
			}

			admins := 0
			var direct []int64
			for _, d := range event.Drafts {
				if d.ToAdmins {
					admins++
				} else {
					direct = append(direct, d.UserID)
				}
			}
			if admins != tc.wantAdmins {
				t.Fatalf("expected %d admin broadcasts, got %d", tc.wantAdmins, admins)
			}
			if len(direct) != len(tc.wantDirect) {
				t.Fatalf("expected direct recipients %v, got %v", tc.wantDirect, direct)
			}
			for _, want := range tc.wantDirect {
				found := false
				for _, got := range direct {
					if got == want {
						found = true
					}
				}
				if !found {
					t.Fatalf("recipient %d missing from %v", want, direct)
				}
			}
		})
	}
}

func TestCreateTicketUnknownAssignee(t *testing.T) {
	user, _, _, _ := testAccounts()
	svc, _, _ := newTicketFixture()

	missing := int64(999)
	_, err := svc.Create(context.Background(), user, TicketCreateInput{
		Subject:     "x",
		Description: "y",
		Category:    "z",
		AssignedTo:  &missing,
	})
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND for unknown assignee, got %v", err)
	}
}

func TestAssignTicket(t *testing.T) {
	user, resolver, _, admin := testAccounts()
	open := &domain.Ticket{ID: 10, Subject: "Printer broken", Status: domain.TicketStatusOpen, SubmittedBy: user.ID}
	svc, repo, dispatcher := newTicketFixture(open)

	ticket, err := svc.Assign(context.Background(), admin, open.ID, resolver.ID)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if ticket.Status != domain.TicketStatusAssigned {
		t.Fatalf("expected assigned status, got %s", ticket.Status)
	}
	if ticket.AssignedTo == nil || *ticket.AssignedTo != resolver.ID {
		t.Fatalf("assignee not recorded: %+v", ticket.AssignedTo)
	}

	stored, err := repo.GetByID(context.Background(), open.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != domain.TicketStatusAssigned {
		t.Fatalf("assignment not persisted: %s", stored.Status)
	}

	event := dispatcher.lastEvent()
	if event == nil || len(event.Drafts) != 2 {
		t.Fatalf("expected assignee and submitter notifications, got %+v", event)
	}
	recipients := map[int64]string{}
	for _, d := range event.Drafts {
		recipients[d.UserID] = d.Message
	}
	if _, ok := recipients[resolver.ID]; !ok {
		t.Fatal("assignee notification missing")
	}
	msg, ok := recipients[user.ID]
	if !ok {
		t.Fatal("submitter notification missing")
	}
	if !strings.Contains(msg, "being worked on") {
		t.Fatalf("submitter message should say the ticket is being worked on: %q", msg)
	}
}

func TestAssignForbiddenForNonAdmins(t *testing.T) {
	user, resolver, _, _ := testAccounts()
	open := &domain.Ticket{ID: 10, Subject: "s", Status: domain.TicketStatusOpen, SubmittedBy: user.ID}
	svc, _, _ := newTicketFixture(open)

	_, err := svc.Assign(context.Background(), user, open.ID, resolver.ID)
	forbidden(t, err)
	_, err = svc.Assign(context.Background(), resolver, open.ID, resolver.ID)
	forbidden(t, err)
}

func TestAssignRejectedOnResolvedTicket(t *testing.T) {
	user, resolver, _, admin := testAccounts()
	solution := "rebooted"
	resolved := &domain.Ticket{
		ID: 11, Subject: "s", Status: domain.TicketStatusResolved,
		SubmittedBy: user.ID, Solution: &solution,
	}
	svc, _, _ := newTicketFixture(resolved)

	_, err := svc.Assign(context.Background(), admin, resolved.ID, resolver.ID)
	validation(t, err)
}

func TestResolveTicket(t *testing.T) {
	user, resolver, _, _ := testAccounts()
	assigned := &domain.Ticket{
		ID: 12, Subject: "Printer broken", Status: domain.TicketStatusAssigned,
		SubmittedBy: user.ID, AssignedTo: &resolver.ID,
	}
	svc, repo, dispatcher := newTicketFixture(assigned)

	ticket, err := svc.Resolve(context.Background(), resolver, assigned.ID, "Replaced cartridge")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ticket.Status != domain.TicketStatusResolved {
		t.Fatalf("expected resolved, got %s", ticket.Status)
	}
	if ticket.Solution == nil || *ticket.Solution != "Replaced cartridge" {
		t.Fatalf("solution not recorded: %+v", ticket.Solution)
	}
	if ticket.ResolvedAt == nil {
		t.Fatal("resolved_at not set")
	}

	stored, _ := repo.GetByID(context.Background(), assigned.ID)
	if stored.Status != domain.TicketStatusResolved {
		t.Fatalf("resolution not persisted: %s", stored.Status)
	}

	event := dispatcher.lastEvent()
	if event == nil || len(event.Drafts) != 2 {
		t.Fatalf("expected submitter and resolver notifications, got %+v", event)
	}
	var submitterMsg string
	for _, d := range event.Drafts {
		if d.UserID == user.ID {
			submitterMsg = d.Message
		}
	}
	if !strings.Contains(submitterMsg, "Replaced cartridge") {
		t.Fatalf("submitter message should carry the solution: %q", submitterMsg)
	}
}

func TestResolveAuthorization(t *testing.T) {
	user, resolver, subAdmin, admin := testAccounts()
	other := int64(77)

	cases := []struct {
		name    string
		caller  *domain.Account
		ticket  *domain.Ticket
		allowed bool
	}{
		{"assigned resolver", resolver, &domain.Ticket{ID: 1, Status: domain.TicketStatusAssigned, SubmittedBy: user.ID, AssignedTo: &resolver.ID}, true},
		{"other resolver", resolver, &domain.Ticket{ID: 1, Status: domain.TicketStatusAssigned, SubmittedBy: user.ID, AssignedTo: &other}, false},
		{"sub-admin via submitted_to", subAdmin, &domain.Ticket{ID: 1, Status: domain.TicketStatusOpen, SubmittedBy: user.ID, SubmittedTo: &subAdmin.ID}, true},
		{"sub-admin via assigned_to", subAdmin, &domain.Ticket{ID: 1, Status: domain.TicketStatusAssigned, SubmittedBy: user.ID, AssignedTo: &subAdmin.ID}, true},
		{"sub-admin unrelated", subAdmin, &domain.Ticket{ID: 1, Status: domain.TicketStatusOpen, SubmittedBy: user.ID}, false},
		{"admin unrelated", admin, &domain.Ticket{ID: 1, Status: domain.TicketStatusOpen, SubmittedBy: user.ID}, false},
		{"submitter", user, &domain.Ticket{ID: 1, Status: domain.TicketStatusOpen, SubmittedBy: user.ID}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, _ := newTicketFixture(tc.ticket)
			_, err := svc.Resolve(context.Background(), tc.caller, tc.ticket.ID, "done")
			if tc.allowed && err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if !tc.allowed {
				forbidden(t, err)
			}
		})
	}
}

func TestResolveRequiresSolution(t *testing.T) {
	user, resolver, _, _ := testAccounts()
	assigned := &domain.Ticket{ID: 1, Status: domain.TicketStatusAssigned, SubmittedBy: user.ID, AssignedTo: &resolver.ID}
	svc, _, _ := newTicketFixture(assigned)

	_, err := svc.Resolve(context.Background(), resolver, assigned.ID, "   ")
	validation(t, err)
}

func TestResolveRejectedWhenAlreadyResolved(t *testing.T) {
	user, resolver, _, _ := testAccounts()
	solution := "done"
	resolved := &domain.Ticket{
		ID: 1, Status: domain.TicketStatusResolved, SubmittedBy: user.ID,
		AssignedTo: &resolver.ID, Solution: &solution,
	}
	svc, _, _ := newTicketFixture(resolved)

	_, err := svc.Resolve(context.Background(), resolver, resolved.ID, "again")
	validation(t, err)
}

func TestDeleteTicketRules(t *testing.T) {
	user, resolver, subAdmin, _ := testAccounts()

	cases := []struct {
		name    string
		caller  *domain.Account
		ticket  *domain.Ticket
		allowed bool
	}{
		{"owner deletes own open", user, &domain.Ticket{ID: 1, Status: domain.TicketStatusOpen, SubmittedBy: user.ID}, true},
		{"owner cannot delete assigned", user, &domain.Ticket{ID: 1, Status: domain.TicketStatusAssigned, SubmittedBy: user.ID, AssignedTo: &resolver.ID}, false},
		{"stranger cannot delete", user, &domain.Ticket{ID: 1, Status: domain.TicketStatusOpen, SubmittedBy: 99}, false},
		{"resolver cannot delete", resolver, &domain.Ticket{ID: 1, Status: domain.TicketStatusAssigned, SubmittedBy: user.ID, AssignedTo: &resolver.ID}, false},
		{"sub-admin deletes anything", subAdmin, &domain.Ticket{ID: 1, Status: domain.TicketStatusResolved, SubmittedBy: user.ID}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, _ := newTicketFixture(tc.ticket)
			err := svc.Delete(context.Background(), tc.caller, tc.ticket.ID)
			if tc.allowed {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				if _, err := repo.GetByID(context.Background(), tc.ticket.ID); err == nil {
					t.Fatal("ticket should be gone")
				}
				return
			}
			forbidden(t, err)
		})
	}
}

func TestListScopedByRole(t *testing.T) {
	user, resolver, subAdmin, admin := testAccounts()
	tickets := []*domain.Ticket{
		{ID: 1, Status: domain.TicketStatusOpen, SubmittedBy: user.ID},
		{ID: 2, Status: domain.TicketStatusAssigned, SubmittedBy: user.ID, AssignedTo: &resolver.ID},
		{ID: 3, Status: domain.TicketStatusOpen, SubmittedBy: resolver.ID, SubmittedTo: &subAdmin.ID},
		{ID: 4, Status: domain.TicketStatusResolved, SubmittedBy: 99, AssignedTo: &resolver.ID},
	}
	svc, _, _ := newTicketFixture(tickets...)
	ctx := context.Background()

	adminView, err := svc.List(ctx, admin, TicketListInput{})
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(adminView) != 4 {
		t.Fatalf("admin should see all tickets, got %d", len(adminView))
	}

	userView, err := svc.List(ctx, user, TicketListInput{})
	if err != nil {
		t.Fatalf("user list: %v", err)
	}
	if len(userView) != 2 {
		t.Fatalf("user should see own tickets only, got %d", len(userView))
	}

	_, err = svc.List(ctx, user, TicketListInput{Filters: listFilterSubmitter(resolver.ID)})
	forbidden(t, err)

	resolverAssigned, err := svc.List(ctx, resolver, TicketListInput{})
	if err != nil {
		t.Fatalf("resolver list: %v", err)
	}
	if len(resolverAssigned) != 1 || resolverAssigned[0].ID != 2 {
		t.Fatalf("resolver default view should hold assigned work, got %+v", resolverAssigned)
	}

	resolverResolved, err := svc.List(ctx, resolver, TicketListInput{View: "resolved"})
	if err != nil {
		t.Fatalf("resolver resolved list: %v", err)
	}
	if len(resolverResolved) != 1 || resolverResolved[0].ID != 4 {
		t.Fatalf("resolver resolved view wrong: %+v", resolverResolved)
	}

	resolverOverview, err := svc.List(ctx, resolver, TicketListInput{View: "overview"})
	if err != nil {
		t.Fatalf("resolver overview: %v", err)
	}
	if len(resolverOverview) != 3 {
		t.Fatalf("overview should merge assigned and submitted, got %d", len(resolverOverview))
	}

	subAdminSubmitted, err := svc.List(ctx, subAdmin, TicketListInput{View: "submitted"})
	if err != nil {
		t.Fatalf("sub-admin submitted list: %v", err)
	}
	if len(subAdminSubmitted) != 1 || subAdminSubmitted[0].ID != 3 {
		t.Fatalf("sub-admin submitted view wrong: %+v", subAdminSubmitted)
	}
}

func TestGetTicketVisibility(t *testing.T) {
	user, resolver, _, admin := testAccounts()
	ticket := &domain.Ticket{ID: 5, Status: domain.TicketStatusAssigned, SubmittedBy: 99, AssignedTo: &resolver.ID}
	svc, _, _ := newTicketFixture(ticket)
	ctx := context.Background()

	if _, err := svc.Get(ctx, admin, ticket.ID); err != nil {
		t.Fatalf("admin should view any ticket: %v", err)
	}
	if _, err := svc.Get(ctx, resolver, ticket.ID); err != nil {
		t.Fatalf("assignee should view the ticket: %v", err)
	}
	_, err := svc.Get(ctx, user, ticket.ID)
	forbidden(t, err)
}
