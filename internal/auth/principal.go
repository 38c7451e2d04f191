// Package auth defines the authenticated principal and the access
// policy applied uniformly across services.  The principal is resolved
// once by the JWT middleware from typed claims; business code never
// inspects raw claims or role strings.
package auth

import "strings"

// Role is the closed set of user roles.  The zero value is invalid so
// an unset role can never pass a policy check.
type Role uint8

const (
	RoleAdmin Role = iota + 1
	RoleEmployee
	RoleMember
)

// ParseRole maps a stored role name to its Role value.  It reports
// false for unknown names.
func ParseRole(s string) (Role, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADMIN":
		return RoleAdmin, true
	case "EMPLOYEE":
		return RoleEmployee, true
	case "MEMBER":
		return RoleMember, true
	}
	return 0, false
}

// String returns the canonical role name used in the database and in
// JWT claims.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	case RoleEmployee:
		return "EMPLOYEE"
	case RoleMember:
		return "MEMBER"
	}
	return "UNKNOWN"
}

// Principal is the authenticated caller.  MemberID is set for members
// (the Member profile linked to the user), LocationID for employees
// (assigned location) and members (home location).  Both are resolved
// at token issue time so request handling never re-derives them from
// free-form claims.
type Principal struct {
	UserID     uint64
	Role       Role
	MemberID   *uint64
	LocationID *uint64
}

// IsAdmin reports whether the principal carries the ADMIN role.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// IsEmployee reports whether the principal carries the EMPLOYEE role.
func (p Principal) IsEmployee() bool { return p.Role == RoleEmployee }

// IsMember reports whether the principal carries the MEMBER role.
func (p Principal) IsMember() bool { return p.Role == RoleMember }
