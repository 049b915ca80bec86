package domain

// Role is the authoritative role enumeration consulted by every
// authorization decision. The roles reference table managed through the
// directory endpoints is descriptive metadata only.
type Role string

const (
	RoleUser     Role = "user"
	RoleResolver Role = "resolver"
	RoleAdmin    Role = "admin"
)

// SubAdminRoles is the fixed tier of directorate-scoped administrative
// roles. Each name is tied to one organizational directorate; for policy
// purposes they are equivalent.
var SubAdminRoles = []Role{
	"boardadmin",
	"ceoadmin",
	"cooadmin",
	"ccoadmin",
	"IRadmin",
	"ITadmin",
	"operatonadmin",
	"marketadmin",
	"branchadmin",
	"financeadmin",
	"planandstrategyadmin",
	"shareadmin",
	"lawadmin",
	"riskadmin",
	"auditadmin",
	"sub_admin",
}

var subAdminSet = func() map[Role]struct{} {
	set := make(map[Role]struct{}, len(SubAdminRoles))
	for _, r := range SubAdminRoles {
		set[r] = struct{}{}
	}
	return set
}()

// IsSubAdmin reports whether r belongs to the sub-admin tier.
func (r Role) IsSubAdmin() bool {
	_, ok := subAdminSet[r]
	return ok
}

// IsAdminTier reports whether r is the top-level admin or any sub-admin.
func (r Role) IsAdminTier() bool {
	return r == RoleAdmin || r.IsSubAdmin()
}

// IsValid reports whether r is a recognized role. Unknown roles are
// denied everywhere (fail closed).
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleResolver, RoleAdmin:
		return true
	}
	return r.IsSubAdmin()
}

// ValidRoles returns every assignable role name.
func ValidRoles() []Role {
	roles := []Role{RoleUser, RoleResolver, RoleAdmin}
	return append(roles, SubAdminRoles...)
}
