package model

import "github.com/google/uuid"

type UserRole string

const (
	UserRoleCitizen   UserRole = "CITIZEN"
	UserRoleAuthority UserRole = "AUTHORITY"
)

// Principal is the authenticated caller extracted from the bearer token. The
// role is recorded in audit entries; it does not gate any operation.
type Principal struct {
	UserID uuid.UUID
	Role   UserRole
}

func (p Principal) IsAuthority() bool {
	return p.Role == UserRoleAuthority
}
