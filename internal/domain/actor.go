package domain

import "strings"

// Role is the caller role asserted by the identity provider.
type Role string

const (
	RoleAdmin Role = "ROLE_ADMIN"
	RoleUser  Role = "ROLE_USER"
)

// Actor is the verified caller of an operation. It is never stored.
type Actor struct {
	ID   string
	Role Role
}

// IsAdmin accepts both ADMIN and ROLE_ADMIN, case-insensitively.
func (a Actor) IsAdmin() bool {
	role := strings.ToUpper(strings.TrimSpace(string(a.Role)))
	return strings.TrimPrefix(role, "ROLE_") == "ADMIN"
}

// IsOwnerOrAdmin reports whether the actor owns the resource or administers it.
func (a Actor) IsOwnerOrAdmin(ownerID string) bool {
	return a.ID == ownerID || a.IsAdmin()
}
