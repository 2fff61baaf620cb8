package authz

import "strings"

// Role is the authorization role of a principal. Display titles such as
// "CTO" or "Marketing" are not roles; they authorize as RoleMember.
type Role string

const (
	RoleCEO    Role = "CEO"
	RoleMember Role = "Member"
	RoleClient Role = "Client"
)

// ParseRole maps a stored role string to an authorization role and a display
// title. Only the exact strings "CEO" and "Client" map to their roles; every
// other non-empty value is a member title.
func ParseRole(s string) (role Role, title string, ok bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return "", "", false
	case string(RoleCEO):
		return RoleCEO, "", true
	case string(RoleClient):
		return RoleClient, "", true
	case string(RoleMember):
		return RoleMember, "", true
	default:
		return RoleMember, s, true
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleCEO || r == RoleMember || r == RoleClient
}

func (r Role) String() string { return string(r) }
