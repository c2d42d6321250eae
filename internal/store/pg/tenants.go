package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/glzzd/orion/internal/tenant"
)

var _ tenant.Store = (*Store)(nil)

const tenantColumns = `id, code, name, type, status, profile, features, created_at, updated_at`

func (s *Store) CreateTenant(ctx context.Context, t *tenant.Tenant) error {
	profile, err := json.Marshal(t.Profile)
	if err != nil {
		return fmt.Errorf("marshal tenant profile: %w", err)
	}
	features, err := json.Marshal(t.Features)
	if err != nil {
		return fmt.Errorf("marshal tenant features: %w", err)
	}
	row := s.db.QueryRowContext(ctx, `
		insert into tenants (id, code, name, type, status, profile, features)
		values ($1, $2, $3, $4, $5, $6, $7)
		returning created_at, updated_at
	`, t.ID, t.Code, t.Name, t.Type, t.Status, profile, features)
	if err := row.Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return tenant.ErrConflict
		}
		return err
	}
	return nil
}

func (s *Store) GetTenant(ctx context.Context, id string) (tenant.Tenant, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+tenantColumns+` from tenants where id = $1`, id)
	return scanTenant(row)
}

func (s *Store) ListTenants(ctx context.Context) ([]tenant.Tenant, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+tenantColumns+` from tenants where status = $1 order by name`, tenant.StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []tenant.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

func (s *Store) UpdateTenant(ctx context.Context, id string, upd tenant.Update) (tenant.Tenant, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return tenant.Tenant{}, err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx,
		`select `+tenantColumns+` from tenants where id = $1 for update`, id)
	t, err := scanTenant(row)
	if err != nil {
		return tenant.Tenant{}, err
	}
	if upd.Name != nil {
		t.Name = *upd.Name
	}
	if upd.Type != nil {
		t.Type = *upd.Type
	}
	if upd.Status != nil {
		t.Status = *upd.Status
	}
	if upd.Profile != nil {
		t.Profile = *upd.Profile
	}
	if upd.Features != nil {
		t.Features = upd.Features
	}
	profile, err := json.Marshal(t.Profile)
	if err != nil {
		return tenant.Tenant{}, fmt.Errorf("marshal tenant profile: %w", err)
	}
	features, err := json.Marshal(t.Features)
	if err != nil {
		return tenant.Tenant{}, fmt.Errorf("marshal tenant features: %w", err)
	}
	if err := tx.QueryRowContext(ctx, `
		update tenants
		set name = $2, type = $3, status = $4, profile = $5, features = $6, updated_at = now()
		where id = $1
		returning updated_at
	`, id, t.Name, t.Type, t.Status, profile, features).Scan(&t.UpdatedAt); err != nil {
		return tenant.Tenant{}, err
	}
	if err := tx.Commit(); err != nil {
		return tenant.Tenant{}, err
	}
	return t, nil
}

func scanTenant(row rowScanner) (tenant.Tenant, error) {
	var (
		t        tenant.Tenant
		profile  []byte
		features []byte
	)
	err := row.Scan(&t.ID, &t.Code, &t.Name, &t.Type, &t.Status,
		&profile, &features, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return tenant.Tenant{}, tenant.ErrNotFound
	}
	if err != nil {
		return tenant.Tenant{}, err
	}
	if len(profile) > 0 {
		if err := json.Unmarshal(profile, &t.Profile); err != nil {
			return tenant.Tenant{}, fmt.Errorf("decode tenant profile: %w", err)
		}
	}
	if len(features) > 0 {
		if err := json.Unmarshal(features, &t.Features); err != nil {
			return tenant.Tenant{}, fmt.Errorf("decode tenant features: %w", err)
		}
	}
	return t, nil
}
