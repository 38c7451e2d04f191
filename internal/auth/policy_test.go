package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v uint64) *uint64 { return &v }

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"ADMIN", RoleAdmin, true},
		{"admin", RoleAdmin, true},
		{" Employee ", RoleEmployee, true},
		{"MEMBER", RoleMember, true},
		{"OWNER", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseRole(c.in)
		assert.Equal(t, c.ok, ok, "ParseRole(%q)", c.in)
		assert.Equal(t, c.want, got, "ParseRole(%q)", c.in)
	}
}

func TestRoleString_RoundTrip(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleEmployee, RoleMember} {
		parsed, ok := ParseRole(r.String())
		assert.True(t, ok)
		assert.Equal(t, r, parsed)
	}
	assert.Equal(t, "UNKNOWN", Role(0).String())
}

func TestCanAccessLocation(t *testing.T) {
	admin := Principal{UserID: 1, Role: RoleAdmin}
	employee := Principal{UserID: 2, Role: RoleEmployee, LocationID: ptr(7)}
	member := Principal{UserID: 3, Role: RoleMember, MemberID: ptr(11), LocationID: ptr(7)}
	unassigned := Principal{UserID: 4, Role: RoleEmployee}

	assert.True(t, admin.CanAccessLocation(7))
	assert.True(t, admin.CanAccessLocation(99))
	assert.True(t, employee.CanAccessLocation(7))
	assert.False(t, employee.CanAccessLocation(8))
	assert.True(t, member.CanAccessLocation(7))
	assert.False(t, member.CanAccessLocation(8))
	assert.False(t, unassigned.CanAccessLocation(7), "employee without a location must be denied")
	assert.False(t, Principal{}.CanAccessLocation(7), "zero principal must be denied")
}

func TestCanAccessMember(t *testing.T) {
	admin := Principal{UserID: 1, Role: RoleAdmin}
	employee := Principal{UserID: 2, Role: RoleEmployee, LocationID: ptr(7)}
	member := Principal{UserID: 3, Role: RoleMember, MemberID: ptr(11)}

	assert.True(t, admin.CanAccessMember(11))
	assert.True(t, member.CanAccessMember(11))
	assert.False(t, member.CanAccessMember(12))
	assert.False(t, employee.CanAccessMember(11), "employees go through the location check, not member ownership")
}

func TestCanModifyOwned(t *testing.T) {
	admin := Principal{UserID: 1, Role: RoleAdmin}
	employee := Principal{UserID: 2, Role: RoleEmployee, LocationID: ptr(7)}
	member := Principal{UserID: 3, Role: RoleMember, MemberID: ptr(11), LocationID: ptr(7)}

	assert.True(t, admin.CanModifyOwned(99, 99))
	assert.True(t, employee.CanModifyOwned(7, 12), "employee may manage any member at own location")
	assert.False(t, employee.CanModifyOwned(8, 12))
	assert.True(t, member.CanModifyOwned(8, 11), "member ownership wins regardless of location")
	assert.False(t, member.CanModifyOwned(7, 12))
}
