package domain

import "time"

// Directorate is an admin-managed organizational unit reference row.
type Directorate struct {
	ID          int64
	Name        string
	Description *string
	CreatedAt   time.Time
}

// RoleRecord is an admin-managed role reference row. It is descriptive
// metadata for dashboards; authorization consults only the Role
// enumeration, never this table.
type RoleRecord struct {
	ID          int64
	Name        string
	Description *string
	CreatedAt   time.Time
}
