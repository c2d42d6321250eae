package auth

import (
	"context"

	"github.com/glzzd/orion/internal/rbac"
)

// UserStore describes user persistence required by the auth service.
// Uniqueness of (tenant_id, username) and (tenant_id, email) is enforced
// by the storage layer and surfaces as ErrConflict.
type UserStore interface {
	CreateUser(ctx context.Context, u *User) error
	FindUser(ctx context.Context, id string) (*User, error)
	// FindUserByIdentifier matches either username or email.
	FindUserByIdentifier(ctx context.Context, identifier string) (*User, error)

	AddRefreshToken(ctx context.Context, userID, token string) error
	// RemoveRefreshToken deletes the token from the user's set and reports
	// whether it was present. The delete must be atomic per user+token so
	// that concurrent rotations of the same token elect a single winner.
	RemoveRefreshToken(ctx context.Context, userID, token string) (bool, error)
	RemoveAllRefreshTokens(ctx context.Context, userID string) error
}

// RoleDirectory resolves a user's role assignments to role documents.
type RoleDirectory interface {
	AssignmentsForUser(ctx context.Context, userID string) ([]rbac.RoleAssignment, error)
	RolesByID(ctx context.Context, roleIDs []string) (map[string]rbac.Role, error)
}
