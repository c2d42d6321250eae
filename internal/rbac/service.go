package rbac

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glzzd/orion/internal/ids"
)

// Service validates and normalizes RBAC operations before they reach the
// store. Tenant gating for cross-tenant listings happens upstream at the
// scope guard; the store itself honors whatever tenant filter it is given.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService constructs the RBAC service.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("rbac: store is required")
	}
	return &Service{store: store, now: time.Now}, nil
}

// CreatePermission registers a catalog entry. The slug is unique across
// the whole installation.
func (s *Service) CreatePermission(ctx context.Context, slug, name, group, description string) (Permission, error) {
	slug = strings.TrimSpace(slug)
	name = strings.TrimSpace(name)
	group = strings.TrimSpace(group)
	if slug == "" || name == "" || group == "" {
		return Permission{}, fmt.Errorf("%w: slug, name and group are required", ErrInvalidInput)
	}
	p := &Permission{
		ID:          ids.New(),
		Slug:        slug,
		Name:        name,
		Group:       group,
		Description: strings.TrimSpace(description),
	}
	if err := s.store.CreatePermission(ctx, p); err != nil {
		return Permission{}, err
	}
	return *p, nil
}

// ListPermissions returns the full catalog.
func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.store.ListPermissions(ctx)
}

// CreateRole creates a tenant-scoped role with an initial permission set.
func (s *Service) CreateRole(ctx context.Context, tenantID, name, description string, permissions []string) (Role, error) {
	tenantID = strings.TrimSpace(tenantID)
	name = strings.TrimSpace(name)
	if tenantID == "" {
		return Role{}, fmt.Errorf("%w: tenant id is required", ErrInvalidInput)
	}
	if name == "" {
		return Role{}, fmt.Errorf("%w: role name is required", ErrInvalidInput)
	}
	r := &Role{
		ID:          ids.New(),
		TenantID:    tenantID,
		Name:        name,
		Description: strings.TrimSpace(description),
		Permissions: dedupeSlugs(permissions),
	}
	if err := s.store.CreateRole(ctx, r); err != nil {
		return Role{}, err
	}
	return *r, nil
}

// GetRole loads a role by id.
func (s *Service) GetRole(ctx context.Context, roleID string) (Role, error) {
	roleID = strings.TrimSpace(roleID)
	if roleID == "" {
		return Role{}, fmt.Errorf("%w: role id is required", ErrInvalidInput)
	}
	return s.store.GetRole(ctx, roleID)
}

// ListRoles returns roles for one tenant, or for all tenants when
// tenantID is empty. Callers must have passed the scope guard before
// requesting the unfiltered listing.
func (s *Service) ListRoles(ctx context.Context, tenantID string) ([]Role, error) {
	return s.store.ListRoles(ctx, strings.TrimSpace(tenantID))
}

// ReplaceRolePermissions swaps the role's permission set wholesale. This
// is a full replace, never a merge.
func (s *Service) ReplaceRolePermissions(ctx context.Context, roleID string, permissions []string) (Role, error) {
	roleID = strings.TrimSpace(roleID)
	if roleID == "" {
		return Role{}, fmt.Errorf("%w: role id is required", ErrInvalidInput)
	}
	return s.store.ReplaceRolePermissions(ctx, roleID, dedupeSlugs(permissions))
}

// AssignRole grants a role to a user. Assigning a role the user already
// holds fails with ErrConflict.
func (s *Service) AssignRole(ctx context.Context, userID, roleID, assignedBy string) (RoleAssignment, error) {
	userID = strings.TrimSpace(userID)
	roleID = strings.TrimSpace(roleID)
	if userID == "" || roleID == "" {
		return RoleAssignment{}, fmt.Errorf("%w: user id and role id are required", ErrInvalidInput)
	}
	a := RoleAssignment{
		RoleID:     roleID,
		AssignedAt: s.now().UTC(),
		AssignedBy: strings.TrimSpace(assignedBy),
	}
	if err := s.store.AssignRole(ctx, userID, a); err != nil {
		return RoleAssignment{}, err
	}
	return a, nil
}

// RemoveRole revokes a role from a user.
func (s *Service) RemoveRole(ctx context.Context, userID, roleID string) error {
	userID = strings.TrimSpace(userID)
	roleID = strings.TrimSpace(roleID)
	if userID == "" || roleID == "" {
		return fmt.Errorf("%w: user id and role id are required", ErrInvalidInput)
	}
	return s.store.RemoveRole(ctx, userID, roleID)
}

func dedupeSlugs(slugs []string) []string {
	if len(slugs) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{}, len(slugs))
	out := make([]string, 0, len(slugs))
	for _, s := range slugs {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
