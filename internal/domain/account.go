package domain

import "time"

// Account models a helpdesk principal: end-users, resolvers, sub-admins
// and the top-level admin are all rows in the same table distinguished
// by Role.
type Account struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	Directorate  *string
	// SessionToken mirrors the most recently issued bearer token. It is
	// overwritten on every login and is informational metadata: token
	// verification is signature+expiry only and never consults it.
	SessionToken *string
	ResetToken   *string
	ResetExpiry  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DirectorateName returns the directorate or the empty string.
func (a *Account) DirectorateName() string {
	if a.Directorate == nil {
		return ""
	}
	return *a.Directorate
}
