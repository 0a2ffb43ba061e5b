package service

import "clinic/cmd/internal/domain/entity"

// Caller is the authenticated user a request acts on behalf of.
type Caller struct {
	ID   int
	Role entity.Role
}

func (c Caller) Is(role entity.Role) bool {
	return c.Role == role
}
