package auth

// The access policy is one function per resource dimension instead of
// per-endpoint role trees: admins see everything, employees are scoped
// to their assigned location, members to their own records.  Services
// call these before any mutation and most reads.

// CanAccessLocation reports whether the principal may operate on
// resources belonging to the given location.  Employees and members
// are restricted to the location resolved at authentication time.
func (p Principal) CanAccessLocation(locationID uint64) bool {
	switch p.Role {
	case RoleAdmin:
		return true
	case RoleEmployee, RoleMember:
		return p.LocationID != nil && *p.LocationID == locationID
	}
	return false
}

// CanAccessMember reports whether the principal may operate on
// resources owned by the given member.  Employees do not get blanket
// member access here; they are checked against the resource's location
// via CanAccessLocation instead.
func (p Principal) CanAccessMember(memberID uint64) bool {
	switch p.Role {
	case RoleAdmin:
		return true
	case RoleMember:
		return p.MemberID != nil && *p.MemberID == memberID
	}
	return false
}

// CanModifyOwned combines the two dimensions for resources that carry
// both a location and an owning member, such as appointments and
// reservations: admins always, employees by location, members by
// ownership.
func (p Principal) CanModifyOwned(locationID, ownerMemberID uint64) bool {
	switch p.Role {
	case RoleAdmin:
		return true
	case RoleEmployee:
		return p.LocationID != nil && *p.LocationID == locationID
	case RoleMember:
		return p.MemberID != nil && *p.MemberID == ownerMemberID
	}
	return false
}
