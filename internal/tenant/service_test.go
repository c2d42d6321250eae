package tenant

import (
	"context"
	"errors"
	"testing"
)

type fakeStore struct {
	tenants map[string]Tenant
}

func newFakeStore() *fakeStore {
	return &fakeStore{tenants: make(map[string]Tenant)}
}

func (s *fakeStore) CreateTenant(ctx context.Context, t *Tenant) error {
	for _, existing := range s.tenants {
		if existing.Code == t.Code {
			return ErrConflict
		}
	}
	s.tenants[t.ID] = *t
	return nil
}

func (s *fakeStore) GetTenant(ctx context.Context, id string) (Tenant, error) {
	t, ok := s.tenants[id]
	if !ok {
		return Tenant{}, ErrNotFound
	}
	return t, nil
}

func (s *fakeStore) ListTenants(ctx context.Context) ([]Tenant, error) {
	var out []Tenant
	for _, t := range s.tenants {
		if t.Status == StatusActive {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeStore) UpdateTenant(ctx context.Context, id string, upd Update) (Tenant, error) {
	t, ok := s.tenants[id]
	if !ok {
		return Tenant{}, ErrNotFound
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
	s.tenants[id] = t
	return t, nil
}

func newTestService(t *testing.T) (*Service, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, store
}

func TestCreateDefaultsAndNormalization(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, " acme ", "Acme Corp", "", Profile{Country: "AZ"}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Code != "ACME" {
		t.Fatalf("code = %q", created.Code)
	}
	if created.Type != TypePrivate || created.Status != StatusActive {
		t.Fatalf("defaults not applied: %+v", created)
	}
	if created.Features == nil {
		t.Fatal("features map must be initialized")
	}

	if _, err := svc.Create(ctx, "ACME", "Other", "", Profile{}, nil); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate code: %v", err)
	}
	if _, err := svc.Create(ctx, "", "No Code", "", Profile{}, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing code: %v", err)
	}
	if _, err := svc.Create(ctx, "X", "Bad Type", "COOPERATIVE", Profile{}, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad type: %v", err)
	}
}

func TestUpdateValidatesEnums(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, "ACME", "Acme", "", Profile{}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	status := "suspended"
	updated, err := svc.Update(ctx, created.ID, Update{Status: &status})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != StatusSuspended {
		t.Fatalf("status = %q", updated.Status)
	}

	bad := "BROKEN"
	if _, err := svc.Update(ctx, created.ID, Update{Status: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad status: %v", err)
	}
	empty := " "
	if _, err := svc.Update(ctx, created.ID, Update{Name: &empty}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty name: %v", err)
	}
	if _, err := svc.Update(ctx, "ghost", Update{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown tenant: %v", err)
	}
}
