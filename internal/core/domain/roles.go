package domain

// Role is a named authorization tier. The set is closed: every user row
// references exactly one of these, and authorization checks enumerate
// an allowed subset per operation (whitelist, never blacklist).
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleLibrarian Role = "LIBRARIAN"
	RoleMember    Role = "MEMBER"
)

// AllRoles lists the closed role set, used by the seeder.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleLibrarian, RoleMember}
}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleLibrarian, RoleMember:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// In checks membership of r in an allowed set.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}
