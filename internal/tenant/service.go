package tenant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/glzzd/orion/internal/ids"
)

// Store describes tenant persistence. Code uniqueness is enforced by the
// storage layer and surfaces as ErrConflict.
type Store interface {
	CreateTenant(ctx context.Context, t *Tenant) error
	GetTenant(ctx context.Context, id string) (Tenant, error)
	// ListTenants returns ACTIVE tenants ordered by name.
	ListTenants(ctx context.Context) ([]Tenant, error)
	UpdateTenant(ctx context.Context, id string, upd Update) (Tenant, error)
}

// Service validates tenant operations.
type Service struct {
	store Store
}

// NewService constructs the tenant service.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("tenant: store is required")
	}
	return &Service{store: store}, nil
}

// Create registers a tenant. Defaults: type PRIVATE, status ACTIVE.
func (s *Service) Create(ctx context.Context, code, name, typ string, profile Profile, features map[string]bool) (Tenant, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	name = strings.TrimSpace(name)
	if code == "" || name == "" {
		return Tenant{}, fmt.Errorf("%w: code and name are required", ErrInvalidInput)
	}
	typ = strings.TrimSpace(strings.ToUpper(typ))
	if typ == "" {
		typ = TypePrivate
	}
	if typ != TypePrivate && typ != TypeState && typ != TypeMilitary {
		return Tenant{}, fmt.Errorf("%w: unsupported tenant type %s", ErrInvalidInput, typ)
	}
	if features == nil {
		features = map[string]bool{}
	}
	t := &Tenant{
		ID:       ids.New(),
		Code:     code,
		Name:     name,
		Type:     typ,
		Status:   StatusActive,
		Profile:  profile,
		Features: features,
	}
	if err := s.store.CreateTenant(ctx, t); err != nil {
		return Tenant{}, err
	}
	return *t, nil
}

// Get loads a tenant by id.
func (s *Service) Get(ctx context.Context, id string) (Tenant, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Tenant{}, fmt.Errorf("%w: tenant id is required", ErrInvalidInput)
	}
	return s.store.GetTenant(ctx, id)
}

// List returns active tenants.
func (s *Service) List(ctx context.Context) ([]Tenant, error) {
	return s.store.ListTenants(ctx)
}

// Update applies a partial patch.
func (s *Service) Update(ctx context.Context, id string, upd Update) (Tenant, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Tenant{}, fmt.Errorf("%w: tenant id is required", ErrInvalidInput)
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return Tenant{}, fmt.Errorf("%w: tenant name is required", ErrInvalidInput)
		}
		upd.Name = &name
	}
	if upd.Status != nil {
		status := strings.TrimSpace(strings.ToUpper(*upd.Status))
		switch status {
		case StatusActive, StatusSuspended, StatusArchived:
			upd.Status = &status
		default:
			return Tenant{}, fmt.Errorf("%w: unsupported status %s", ErrInvalidInput, status)
		}
	}
	if upd.Type != nil {
		typ := strings.TrimSpace(strings.ToUpper(*upd.Type))
		switch typ {
		case TypePrivate, TypeState, TypeMilitary:
			upd.Type = &typ
		default:
			return Tenant{}, fmt.Errorf("%w: unsupported tenant type %s", ErrInvalidInput, typ)
		}
	}
	return s.store.UpdateTenant(ctx, id, upd)
}
