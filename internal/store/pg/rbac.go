package pg

import (
	"context"
	"database/sql"
	"errors"

	"github.com/glzzd/orion/internal/rbac"
)

var _ rbac.Store = (*Store)(nil)

func (s *Store) CreatePermission(ctx context.Context, p *rbac.Permission) error {
	row := s.db.QueryRowContext(ctx, `
		insert into permissions (id, slug, name, "group", description)
		values ($1, $2, $3, $4, $5)
		returning created_at, updated_at
	`, p.ID, p.Slug, p.Name, p.Group, p.Description)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return rbac.ErrConflict
		}
		return err
	}
	return nil
}

func (s *Store) ListPermissions(ctx context.Context) ([]rbac.Permission, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, slug, name, "group", description, created_at, updated_at
		from permissions
		order by "group", slug
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []rbac.Permission
	for rows.Next() {
		var p rbac.Permission
		if err := rows.Scan(&p.ID, &p.Slug, &p.Name, &p.Group, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

func (s *Store) CreateRole(ctx context.Context, r *rbac.Role) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `
		insert into roles (id, tenant_id, name, description)
		values ($1, $2, $3, $4)
		returning created_at, updated_at
	`, r.ID, r.TenantID, r.Name, r.Description)
	if err := row.Scan(&r.CreatedAt, &r.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return rbac.ErrConflict
		}
		return err
	}
	for _, slug := range r.Permissions {
		if _, err := tx.ExecContext(ctx,
			`insert into role_permissions (role_id, slug) values ($1, $2)`, r.ID, slug); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) GetRole(ctx context.Context, roleID string) (rbac.Role, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, tenant_id, name, description, created_at, updated_at
		from roles where id = $1
	`, roleID)
	var r rbac.Role
	err := row.Scan(&r.ID, &r.TenantID, &r.Name, &r.Description, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return rbac.Role{}, rbac.ErrNotFound
	}
	if err != nil {
		return rbac.Role{}, err
	}
	perms, err := s.rolePermissions(ctx, r.ID)
	if err != nil {
		return rbac.Role{}, err
	}
	r.Permissions = perms
	return r, nil
}

func (s *Store) ListRoles(ctx context.Context, tenantID string) ([]rbac.Role, error) {
	query := `
		select id, tenant_id, name, description, created_at, updated_at
		from roles
	`
	var args []any
	if tenantID != "" {
		query += ` where tenant_id = $1`
		args = append(args, tenantID)
	}
	query += ` order by name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []rbac.Role
	for rows.Next() {
		var r rbac.Role
		if err := rows.Scan(&r.ID, &r.TenantID, &r.Name, &r.Description, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range roles {
		perms, err := s.rolePermissions(ctx, roles[i].ID)
		if err != nil {
			return nil, err
		}
		roles[i].Permissions = perms
	}
	return roles, nil
}

// ReplaceRolePermissions swaps the role's permission set in one
// transaction: delete everything, insert the new set.
func (s *Store) ReplaceRolePermissions(ctx context.Context, roleID string, slugs []string) (rbac.Role, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return rbac.Role{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`select exists(select 1 from roles where id = $1)`, roleID).Scan(&exists); err != nil {
		return rbac.Role{}, err
	}
	if !exists {
		return rbac.Role{}, rbac.ErrNotFound
	}
	if _, err := tx.ExecContext(ctx,
		`delete from role_permissions where role_id = $1`, roleID); err != nil {
		return rbac.Role{}, err
	}
	for _, slug := range slugs {
		if _, err := tx.ExecContext(ctx,
			`insert into role_permissions (role_id, slug) values ($1, $2)`, roleID, slug); err != nil {
			return rbac.Role{}, err
		}
	}
	if _, err := tx.ExecContext(ctx,
		`update roles set updated_at = now() where id = $1`, roleID); err != nil {
		return rbac.Role{}, err
	}
	if err := tx.Commit(); err != nil {
		return rbac.Role{}, err
	}
	return s.GetRole(ctx, roleID)
}

func (s *Store) AssignRole(ctx context.Context, userID string, a rbac.RoleAssignment) error {
	_, err := s.db.ExecContext(ctx, `
		insert into user_roles (user_id, role_id, assigned_at, assigned_by)
		values ($1, $2, $3, $4)
	`, userID, a.RoleID, a.AssignedAt, a.AssignedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return rbac.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return rbac.ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Store) RemoveRole(ctx context.Context, userID, roleID string) error {
	res, err := s.db.ExecContext(ctx,
		`delete from user_roles where user_id = $1 and role_id = $2`, userID, roleID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return rbac.ErrNotFound
	}
	return nil
}

func (s *Store) AssignmentsForUser(ctx context.Context, userID string) ([]rbac.RoleAssignment, error) {
	rows, err := s.db.QueryContext(ctx, `
		select role_id, assigned_at, assigned_by
		from user_roles where user_id = $1
		order by assigned_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []rbac.RoleAssignment
	for rows.Next() {
		var a rbac.RoleAssignment
		if err := rows.Scan(&a.RoleID, &a.AssignedAt, &a.AssignedBy); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) RolesByID(ctx context.Context, roleIDs []string) (map[string]rbac.Role, error) {
	result := make(map[string]rbac.Role, len(roleIDs))
	for _, id := range roleIDs {
		role, err := s.GetRole(ctx, id)
		if err != nil {
			if errors.Is(err, rbac.ErrNotFound) {
				continue
			}
			return nil, err
		}
		result[id] = role
	}
	return result, nil
}

func (s *Store) rolePermissions(ctx context.Context, roleID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`select slug from role_permissions where role_id = $1 order by slug`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slugs := []string{}
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, err
		}
		slugs = append(slugs, slug)
	}
	return slugs, rows.Err()
}
