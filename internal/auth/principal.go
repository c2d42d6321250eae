package auth

import (
	"sort"

	"go.uber.org/zap"

	"github.com/glzzd/orion/internal/rbac"
)

// SuperAdminRole is the privileged role name whose holders may act across
// tenant boundaries. Matching is exact and case-sensitive.
const SuperAdminRole = "SUPER_ADMIN"

// Principal is the resolved, authenticated identity: the user, its role
// names and the flat union of permission slugs across those roles. It is
// an immutable value threaded explicitly through handlers.
type Principal struct {
	UserID       string              `json:"userId"`
	TenantID     string              `json:"tenantId,omitempty"`
	RoleNames    []string            `json:"roles"`
	Permissions  map[string]struct{} `json:"-"`
	IsSuperAdmin bool                `json:"isSuperAdmin"`
}

// HasPermission reports whether the principal holds the permission slug.
func (p Principal) HasPermission(slug string) bool {
	_, ok := p.Permissions[slug]
	return ok
}

// HasRole reports whether the principal holds the role name (exact match).
func (p Principal) HasRole(name string) bool {
	for _, r := range p.RoleNames {
		if r == name {
			return true
		}
	}
	return false
}

// PermissionList returns the permission slugs sorted, for stable JSON output.
func (p Principal) PermissionList() []string {
	out := make([]string, 0, len(p.Permissions))
	for slug := range p.Permissions {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}

// ResolvePrincipal computes the principal for a user from its role
// assignments. An assignment whose role is missing from rolesByID is a
// dangling reference: it is logged and skipped rather than failing the
// whole resolution.
func ResolvePrincipal(user *User, assignments []rbac.RoleAssignment, rolesByID map[string]rbac.Role, log *zap.Logger) Principal {
	if log == nil {
		log = zap.NewNop()
	}
	p := Principal{
		UserID:      user.ID,
		TenantID:    user.TenantID,
		RoleNames:   []string{},
		Permissions: map[string]struct{}{},
	}
	seen := make(map[string]struct{}, len(assignments))
	for _, a := range assignments {
		role, ok := rolesByID[a.RoleID]
		if !ok {
			log.Warn("skipping dangling role assignment",
				zap.String("user_id", user.ID),
				zap.String("role_id", a.RoleID))
			continue
		}
		if _, dup := seen[role.Name]; !dup {
			seen[role.Name] = struct{}{}
			p.RoleNames = append(p.RoleNames, role.Name)
		}
		for _, slug := range role.Permissions {
			p.Permissions[slug] = struct{}{}
		}
		if role.Name == SuperAdminRole {
			p.IsSuperAdmin = true
		}
	}
	return p
}
