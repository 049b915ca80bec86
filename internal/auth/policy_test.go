package auth

import (
	"testing"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func account(id int64, role domain.Role) *domain.Account {
	return &domain.Account{ID: id, Username: "acct", Role: role}
}

func ticket(submittedBy int64, submittedTo, assignedTo *int64, status domain.TicketStatus) *domain.Ticket {
	return &domain.Ticket{
		ID:          7,
		SubmittedBy: submittedBy,
		SubmittedTo: submittedTo,
		AssignedTo:  assignedTo,
		Status:      status,
	}
}

func ptr(v int64) *int64 { return &v }

func TestPolicyDecisionTable(t *testing.T) {
	cases := []struct {
		name   string
		action Action
		caller *domain.Account
		res    Resource
		want   bool
	}{
		{"user creates ticket", ActionTicketCreate, account(1, domain.RoleUser), Resource{}, true},
		{"resolver creates ticket", ActionTicketCreate, account(1, domain.RoleResolver), Resource{}, true},
		{"sub-admin creates ticket", ActionTicketCreate, account(1, "ITadmin"), Resource{}, true},
		{"admin creates ticket", ActionTicketCreate, account(1, domain.RoleAdmin), Resource{}, true},

		{"user cannot assign", ActionTicketAssign, account(1, domain.RoleUser), Resource{Ticket: ticket(1, nil, nil, domain.TicketStatusOpen)}, false},
		{"resolver cannot assign", ActionTicketAssign, account(1, domain.RoleResolver), Resource{Ticket: ticket(2, nil, nil, domain.TicketStatusOpen)}, false},
		{"sub-admin assigns", ActionTicketAssign, account(1, "financeadmin"), Resource{Ticket: ticket(2, nil, nil, domain.TicketStatusOpen)}, true},
		{"admin assigns", ActionTicketAssign, account(1, domain.RoleAdmin), Resource{Ticket: ticket(2, nil, nil, domain.TicketStatusOpen)}, true},

		{"assigned resolver resolves", ActionTicketResolve, account(5, domain.RoleResolver), Resource{Ticket: ticket(2, nil, ptr(5), domain.TicketStatusAssigned)}, true},
		{"unassigned resolver cannot resolve", ActionTicketResolve, account(5, domain.RoleResolver), Resource{Ticket: ticket(2, nil, ptr(6), domain.TicketStatusAssigned)}, false},
		{"resolver cannot resolve unrouted ticket", ActionTicketResolve, account(5, domain.RoleResolver), Resource{Ticket: ticket(2, nil, nil, domain.TicketStatusOpen)}, false},
		{"sub-admin resolves ticket submitted to them", ActionTicketResolve, account(9, "lawadmin"), Resource{Ticket: ticket(2, ptr(9), nil, domain.TicketStatusOpen)}, true},
		{"sub-admin resolves ticket assigned to them", ActionTicketResolve, account(9, "lawadmin"), Resource{Ticket: ticket(2, nil, ptr(9), domain.TicketStatusAssigned)}, true},
		{"sub-admin cannot resolve unrelated ticket", ActionTicketResolve, account(9, "lawadmin"), Resource{Ticket: ticket(2, ptr(8), ptr(7), domain.TicketStatusAssigned)}, false},
		{"admin cannot resolve unrelated ticket", ActionTicketResolve, account(9, domain.RoleAdmin), Resource{Ticket: ticket(2, nil, nil, domain.TicketStatusOpen)}, false},
		{"submitter cannot resolve own ticket", ActionTicketResolve, account(2, domain.RoleUser), Resource{Ticket: ticket(2, nil, nil, domain.TicketStatusOpen)}, false},

		{"owner deletes own open ticket", ActionTicketDelete, account(2, domain.RoleUser), Resource{Ticket: ticket(2, nil, nil, domain.TicketStatusOpen)}, true},
		{"owner cannot delete assigned ticket", ActionTicketDelete, account(2, domain.RoleUser), Resource{Ticket: ticket(2, nil, ptr(5), domain.TicketStatusAssigned)}, false},
		{"non-owner cannot delete", ActionTicketDelete, account(3, domain.RoleUser), Resource{Ticket: ticket(2, nil, nil, domain.TicketStatusOpen)}, false},
		{"resolver cannot delete", ActionTicketDelete, account(5, domain.RoleResolver), Resource{Ticket: ticket(2, nil, ptr(5), domain.TicketStatusAssigned)}, false},
		{"sub-admin deletes any ticket", ActionTicketDelete, account(9, "riskadmin"), Resource{Ticket: ticket(2, nil, nil, domain.TicketStatusResolved)}, true},
		{"admin deletes any ticket", ActionTicketDelete, account(9, domain.RoleAdmin), Resource{Ticket: ticket(2, nil, nil, domain.TicketStatusResolved)}, true},

		{"user cannot list accounts", ActionUserListAll, account(1, domain.RoleUser), Resource{}, false},
		{"sub-admin lists accounts", ActionUserListAll, account(1, "ceoadmin"), Resource{}, true},

		{"self view allowed", ActionUserView, account(1, domain.RoleUser), Resource{TargetAccountID: 1}, true},
		{"other view denied for user", ActionUserView, account(1, domain.RoleUser), Resource{TargetAccountID: 2}, false},
		{"admin views anyone", ActionUserView, account(1, domain.RoleAdmin), Resource{TargetAccountID: 2}, true},

		{"admin changes another role", ActionUserChangeRole, account(1, domain.RoleAdmin), Resource{TargetAccountID: 2}, true},
		{"admin cannot change own role", ActionUserChangeRole, account(1, domain.RoleAdmin), Resource{TargetAccountID: 1}, false},
		{"sub-admin cannot change roles", ActionUserChangeRole, account(1, "auditadmin"), Resource{TargetAccountID: 2}, false},

		{"admin deletes another account", ActionUserDelete, account(1, domain.RoleAdmin), Resource{TargetAccountID: 2}, true},
		{"admin cannot delete self", ActionUserDelete, account(1, domain.RoleAdmin), Resource{TargetAccountID: 1}, false},
		{"sub-admin cannot delete accounts", ActionUserDelete, account(1, "branchadmin"), Resource{TargetAccountID: 2}, false},

		{"user cannot read reference tables", ActionDirectoryManage, account(1, domain.RoleUser), Resource{}, false},
		{"resolver cannot read reference tables", ActionDirectoryManage, account(1, domain.RoleResolver), Resource{}, false},
		{"sub-admin manages reference tables", ActionDirectoryManage, account(1, "hradmin"), Resource{}, true},
		{"admin manages reference tables", ActionDirectoryManage, account(1, domain.RoleAdmin), Resource{}, true},

		{"admin views stats", ActionStatsView, account(1, domain.RoleAdmin), Resource{}, true},
		{"sub-admin cannot view stats", ActionStatsView, account(1, "boardadmin"), Resource{}, false},

		{"notification owner access", ActionNotificationAccess, account(4, domain.RoleUser), Resource{Notification: &domain.Notification{ID: 1, UserID: 4}}, true},
		{"notification non-owner denied", ActionNotificationAccess, account(5, domain.RoleAdmin), Resource{Notification: &domain.Notification{ID: 1, UserID: 4}}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Allowed(tc.action, tc.caller, tc.res); got != tc.want {
				t.Fatalf("Allowed(%s) = %v, want %v", tc.action, got, tc.want)
			}
		})
	}
}

func TestPolicyFailsClosed(t *testing.T) {
	if Allowed(ActionTicketCreate, nil, Resource{}) {
		t.Fatal("nil caller must be denied")
	}
	if Allowed(ActionTicketCreate, account(1, "superadmin"), Resource{}) {
		t.Fatal("unknown role must be denied")
	}
	if Allowed(Action("ticket:launch"), account(1, domain.RoleAdmin), Resource{}) {
		t.Fatal("unknown action must be denied")
	}
	if Allowed(ActionTicketResolve, account(1, domain.RoleResolver), Resource{}) {
		t.Fatal("missing ticket resource must be denied")
	}
}
