package auth

import (
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Action names an operation the policy can decide.
type Action string

const (
	ActionTicketCreate  Action = "ticket:create"
	ActionTicketAssign  Action = "ticket:assign"
	ActionTicketResolve Action = "ticket:resolve"
	ActionTicketDelete  Action = "ticket:delete"

	ActionUserListAll       Action = "user:list"
	ActionUserView          Action = "user:view"
	ActionUserCreate        Action = "user:create"
	ActionUserUpdate        Action = "user:update"
	ActionUserChangeRole    Action = "user:change-role"
	ActionUserResetPassword Action = "user:reset-password"
	ActionUserDelete        Action = "user:delete"

	ActionDirectoryManage    Action = "directory:manage"
	ActionStatsView          Action = "stats:view"
	ActionNotificationAccess Action = "notification:access"
)

// Resource carries the ownership fields a rule may consult. Ticket
// fields must come from the persisted row, never from client input.
type Resource struct {
	Ticket          *domain.Ticket
	Notification    *domain.Notification
	TargetAccountID int64
}

type rule func(caller *domain.Account, res Resource) bool

// rules is the decision table keyed by operation. Each entry is a pure
// predicate over (caller role, caller id, resource state); ownership
// conditions govern over coarse role checks where both apply.
var rules = map[Action]rule{
	ActionTicketCreate: func(caller *domain.Account, _ Resource) bool {
		switch caller.Role {
		case domain.RoleUser, domain.RoleResolver:
			return true
		}
		return caller.Role.IsAdminTier()
	},

	ActionTicketAssign: func(caller *domain.Account, _ Resource) bool {
		return caller.Role.IsAdminTier()
	},

	ActionTicketResolve: func(caller *domain.Account, res Resource) bool {
		t := res.Ticket
		if t == nil {
			return false
		}
		if caller.Role == domain.RoleResolver {
			return t.AssignedTo != nil && *t.AssignedTo == caller.ID
		}
		if caller.Role.IsAdminTier() {
			// Either routing condition suffices: a sub-admin who merely
			// received the ticket may resolve it without ever assigning it.
			if t.SubmittedTo != nil && *t.SubmittedTo == caller.ID {
				return true
			}
			return t.AssignedTo != nil && *t.AssignedTo == caller.ID
		}
		return false
	},

	ActionTicketDelete: func(caller *domain.Account, res Resource) bool {
		if caller.Role.IsAdminTier() {
			return true
		}
		t := res.Ticket
		if t == nil {
			return false
		}
		return caller.Role == domain.RoleUser &&
			t.SubmittedBy == caller.ID &&
			t.Status == domain.TicketStatusOpen
	},

	ActionUserListAll: func(caller *domain.Account, _ Resource) bool {
		return caller.Role.IsAdminTier()
	},

	ActionUserView: func(caller *domain.Account, res Resource) bool {
		return caller.Role.IsAdminTier() || caller.ID == res.TargetAccountID
	},

	ActionUserCreate: func(caller *domain.Account, _ Resource) bool {
		return caller.Role.IsAdminTier()
	},

	ActionUserUpdate: func(caller *domain.Account, res Resource) bool {
		return caller.Role == domain.RoleAdmin || caller.ID == res.TargetAccountID
	},

	ActionUserChangeRole: func(caller *domain.Account, res Resource) bool {
		// Nobody changes their own role, the top-level admin included.
		return caller.Role == domain.RoleAdmin && caller.ID != res.TargetAccountID
	},

	ActionUserResetPassword: func(caller *domain.Account, res Resource) bool {
		return caller.Role == domain.RoleAdmin || caller.ID == res.TargetAccountID
	},

	ActionUserDelete: func(caller *domain.Account, res Resource) bool {
		return caller.Role == domain.RoleAdmin && caller.ID != res.TargetAccountID
	},

	ActionDirectoryManage: func(caller *domain.Account, _ Resource) bool {
		return caller.Role.IsAdminTier()
	},

	ActionStatsView: func(caller *domain.Account, _ Resource) bool {
		return caller.Role == domain.RoleAdmin
	},

	ActionNotificationAccess: func(caller *domain.Account, res Resource) bool {
		return res.Notification != nil && res.Notification.UserID == caller.ID
	},
}

// Allowed evaluates the decision table. Unknown actions and unknown
// roles deny (fail closed).
func Allowed(action Action, caller *domain.Account, res Resource) bool {
	if caller == nil || !caller.Role.IsValid() {
		return false
	}
	decide, ok := rules[action]
	if !ok {
		return false
	}
	return decide(caller, res)
}
