package rbac

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("rbac: not found")
	ErrConflict     = errors.New("rbac: already exists")
	ErrInvalidInput = errors.New("rbac: invalid input")
)

// Permission is a catalog entry: a stable slug such as "admin:users",
// a display name and a feature-area group.
type Permission struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Group       string    `json:"group"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Role is a tenant-scoped bundle of permission slugs. Permissions is a
// set: duplicates are meaningless and removed on write.
type Role struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenantId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RoleAssignment is the one canonical shape linking a user to a role,
// with provenance. Every call site uses this record; bare role references
// do not exist in this codebase.
type RoleAssignment struct {
	RoleID     string    `json:"roleId"`
	AssignedAt time.Time `json:"assignedAt"`
	AssignedBy string    `json:"assignedBy,omitempty"`
}
