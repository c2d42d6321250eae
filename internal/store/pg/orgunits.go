package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/glzzd/orion/internal/orgunit"
)

var _ orgunit.Store = (*Store)(nil)

const unitColumns = `id, tenant_id, code, name, type, coalesce(parent_id, ''), path, level,
	classification, status, metadata, created_at, coalesce(created_by, ''), updated_at, coalesce(updated_by, '')`

func (s *Store) InsertUnit(ctx context.Context, u *orgunit.Unit) error {
	metadata, err := json.Marshal(u.Metadata)
	if err != nil {
		return fmt.Errorf("marshal unit metadata: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		insert into organization_units
			(id, tenant_id, code, name, type, parent_id, path, level,
			 classification, status, metadata, created_at, created_by, updated_at, updated_by)
		values ($1, $2, $3, $4, $5, nullif($6, ''), $7, $8, $9, $10, $11, $12, nullif($13, ''), $14, nullif($15, ''))
	`, u.ID, u.TenantID, u.Code, u.Name, u.Type, u.ParentID, u.Path, u.Level,
		u.Classification, u.Status, metadata, u.CreatedAt, u.CreatedBy, u.UpdatedAt, u.UpdatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return orgunit.ErrPathConflict
		}
		if isForeignKeyViolation(err) {
			return orgunit.ErrParentNotFound
		}
		return err
	}
	return nil
}

func (s *Store) UpdateUnit(ctx context.Context, u *orgunit.Unit) error {
	metadata, err := json.Marshal(u.Metadata)
	if err != nil {
		return fmt.Errorf("marshal unit metadata: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		update organization_units
		set code = $3, name = $4, type = $5, parent_id = nullif($6, ''), path = $7, level = $8,
			classification = $9, status = $10, metadata = $11, updated_at = $12, updated_by = nullif($13, '')
		where tenant_id = $1 and id = $2
	`, u.TenantID, u.ID, u.Code, u.Name, u.Type, u.ParentID, u.Path, u.Level,
		u.Classification, u.Status, metadata, u.UpdatedAt, u.UpdatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return orgunit.ErrPathConflict
		}
		if isForeignKeyViolation(err) {
			return orgunit.ErrParentNotFound
		}
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return orgunit.ErrNotFound
	}
	return nil
}

func (s *Store) GetUnit(ctx context.Context, tenantID, id string) (orgunit.Unit, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+unitColumns+` from organization_units where tenant_id = $1 and id = $2`,
		tenantID, id)
	return scanUnit(row)
}

func (s *Store) ListUnits(ctx context.Context, tenantID string) ([]orgunit.Unit, error) {
	query := `select ` + unitColumns + ` from organization_units where status = $1`
	args := []any{orgunit.StatusActive}
	if tenantID != "" {
		query += ` and tenant_id = $2`
		args = append(args, tenantID)
	}
	query += ` order by (metadata->>'order')::int nulls last, name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []orgunit.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

func (s *Store) FindUnitByPath(ctx context.Context, tenantID, path string) (orgunit.Unit, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+unitColumns+` from organization_units where tenant_id = $1 and path = $2`,
		tenantID, path)
	return scanUnit(row)
}

func (s *Store) HasChildren(ctx context.Context, tenantID, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`select exists(select 1 from organization_units where tenant_id = $1 and parent_id = $2)`,
		tenantID, id).Scan(&exists)
	return exists, err
}

func scanUnit(row rowScanner) (orgunit.Unit, error) {
	var (
		u        orgunit.Unit
		metadata []byte
	)
	err := row.Scan(&u.ID, &u.TenantID, &u.Code, &u.Name, &u.Type, &u.ParentID, &u.Path, &u.Level,
		&u.Classification, &u.Status, &metadata, &u.CreatedAt, &u.CreatedBy, &u.UpdatedAt, &u.UpdatedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return orgunit.Unit{}, orgunit.ErrNotFound
	}
	if err != nil {
		return orgunit.Unit{}, err
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &u.Metadata); err != nil {
			return orgunit.Unit{}, fmt.Errorf("decode unit metadata: %w", err)
		}
	}
	return u, nil
}
