package entity

import "strings"

// Role is the access level stored on a profile row.
type Role string

const (
	// RoleMember is every registered alumnus.
	RoleMember Role = "member"

	// RoleAdmin can moderate content, verify alumni and issue ID cards.
	// It is never granted through the API.
	RoleAdmin Role = "admin"
)

// ParseRole normalizes a stored role value. Anything that is not exactly
// an admin reads as a member, so a corrupted row can never grant more access.
func ParseRole(raw string) Role {
	if strings.EqualFold(strings.TrimSpace(raw), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleMember
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
