package rbac

import "context"

// Store describes persistence for the permission catalog, roles and role
// assignments. Slug and (tenant_id, name) uniqueness is enforced by the
// storage layer and surfaces as ErrConflict.
type Store interface {
	CreatePermission(ctx context.Context, p *Permission) error
	ListPermissions(ctx context.Context) ([]Permission, error)

	CreateRole(ctx context.Context, r *Role) error
	GetRole(ctx context.Context, roleID string) (Role, error)
	// ListRoles with an empty tenantID returns roles across all tenants.
	ListRoles(ctx context.Context, tenantID string) ([]Role, error)
	ReplaceRolePermissions(ctx context.Context, roleID string, slugs []string) (Role, error)

	AssignRole(ctx context.Context, userID string, a RoleAssignment) error
	RemoveRole(ctx context.Context, userID, roleID string) error
	AssignmentsForUser(ctx context.Context, userID string) ([]RoleAssignment, error)
	RolesByID(ctx context.Context, roleIDs []string) (map[string]Role, error)
}
