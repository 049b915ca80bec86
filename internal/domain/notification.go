package domain

import "time"

// Notification is a per-account inbox message created as a side effect
// of ticket lifecycle transitions. Only the owning account may read or
// delete it.
type Notification struct {
	ID        int64
	UserID    int64
	Message   string
	IsRead    bool
	CreatedAt time.Time
}

// NotificationDraft is a pending inbox message produced by a lifecycle
// transition. Drafts are emitted after the primary mutation commits and
// delivered best-effort: an insert failure never fails the transition.
type NotificationDraft struct {
	// UserID is the direct recipient; zero when ToAdmins is set.
	UserID int64
	// ToAdmins broadcasts the message to every top-level admin account.
	ToAdmins bool
	Message  string
}
