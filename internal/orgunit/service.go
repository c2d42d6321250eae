package orgunit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glzzd/orion/internal/ids"
)

// Store describes org-unit persistence. The storage layer holds a unique
// index on (tenant_id, path) and is the final arbiter for path conflicts:
// a unique violation on insert or update surfaces as ErrPathConflict.
type Store interface {
	InsertUnit(ctx context.Context, u *Unit) error
	UpdateUnit(ctx context.Context, u *Unit) error
	GetUnit(ctx context.Context, tenantID, id string) (Unit, error)
	// ListUnits returns ACTIVE units of the tenant ordered by metadata
	// order, then name. An empty tenantID returns units of all tenants.
	ListUnits(ctx context.Context, tenantID string) ([]Unit, error)
	FindUnitByPath(ctx context.Context, tenantID, path string) (Unit, error)
	HasChildren(ctx context.Context, tenantID, id string) (bool, error)
}

// CreateInput carries the fields an administrator supplies for a new unit.
type CreateInput struct {
	Code           string   `json:"code"`
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	ParentID       string   `json:"parentId"`
	Classification string   `json:"classification"`
	Status         string   `json:"status"`
	Metadata       Metadata `json:"metadata"`
}

// UpdateInput is a partial patch; nil fields are left untouched.
type UpdateInput struct {
	Code           *string   `json:"code"`
	Name           *string   `json:"name"`
	Type           *string   `json:"type"`
	ParentID       *string   `json:"parentId"`
	Classification *string   `json:"classification"`
	Status         *string   `json:"status"`
	Metadata       *Metadata `json:"metadata"`
}

// Service maintains the per-tenant hierarchy and its path/level
// invariants. Units are never deleted here; retirement is a status flip.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService constructs the org-unit service.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("orgunit: store is required")
	}
	return &Service{store: store, now: time.Now}, nil
}

// Create adds a unit under the given parent (or as a root). The path is
// the parent's path plus the unit name; the level is parent level + 1.
func (s *Service) Create(ctx context.Context, tenantID string, in CreateInput, actorID string) (Unit, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return Unit{}, fmt.Errorf("%w: tenant id is required", ErrInvalidInput)
	}
	name := strings.TrimSpace(in.Name)
	code := strings.TrimSpace(in.Code)
	if name == "" || code == "" {
		return Unit{}, fmt.Errorf("%w: code and name are required", ErrInvalidInput)
	}
	if strings.Contains(name, "/") {
		return Unit{}, fmt.Errorf("%w: unit name must not contain '/'", ErrInvalidInput)
	}
	typ := strings.TrimSpace(strings.ToUpper(in.Type))
	if !validType(typ) {
		return Unit{}, fmt.Errorf("%w: unsupported unit type %s", ErrInvalidInput, typ)
	}
	classification := strings.TrimSpace(strings.ToUpper(in.Classification))
	if classification == "" {
		classification = ClassificationInternal
	}
	if !validClassification(classification) {
		return Unit{}, fmt.Errorf("%w: unsupported classification %s", ErrInvalidInput, classification)
	}
	status := strings.TrimSpace(strings.ToUpper(in.Status))
	if status == "" {
		status = StatusActive
	}
	if status != StatusActive && status != StatusInactive {
		return Unit{}, fmt.Errorf("%w: unsupported status %s", ErrInvalidInput, status)
	}

	path := name
	level := 0
	parentID := strings.TrimSpace(in.ParentID)
	if parentID != "" {
		parent, err := s.store.GetUnit(ctx, tenantID, parentID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return Unit{}, ErrParentNotFound
			}
			return Unit{}, err
		}
		path = parent.Path + "/" + name
		level = parent.Level + 1
	}

	// Pre-check for a friendlier error; the unique index still decides
	// under concurrency.
	if _, err := s.store.FindUnitByPath(ctx, tenantID, path); err == nil {
		return Unit{}, ErrPathConflict
	} else if !errors.Is(err, ErrNotFound) {
		return Unit{}, err
	}

	now := s.now().UTC()
	unit := &Unit{
		ID:             ids.New(),
		TenantID:       tenantID,
		Code:           code,
		Name:           name,
		Type:           typ,
		ParentID:       parentID,
		Path:           path,
		Level:          level,
		Classification: classification,
		Status:         status,
		Metadata:       in.Metadata,
		CreatedAt:      now,
		CreatedBy:      strings.TrimSpace(actorID),
		UpdatedAt:      now,
	}
	if err := s.store.InsertUnit(ctx, unit); err != nil {
		return Unit{}, err
	}
	return *unit, nil
}

// Update patches a unit. Renaming or reparenting a unit that has children
// is rejected with ErrHasChildren: descendants materialize their ancestry
// in their own paths, and this service does not rewrite subtrees. A new
// parent is also rejected if the unit itself appears among the parent's
// ancestors, which would close a cycle.
func (s *Service) Update(ctx context.Context, tenantID, id string, in UpdateInput, actorID string) (Unit, error) {
	tenantID = strings.TrimSpace(tenantID)
	id = strings.TrimSpace(id)
	if tenantID == "" || id == "" {
		return Unit{}, fmt.Errorf("%w: tenant id and unit id are required", ErrInvalidInput)
	}
	unit, err := s.store.GetUnit(ctx, tenantID, id)
	if err != nil {
		return Unit{}, err
	}

	newName := unit.Name
	if in.Name != nil {
		newName = strings.TrimSpace(*in.Name)
		if newName == "" {
			return Unit{}, fmt.Errorf("%w: unit name is required", ErrInvalidInput)
		}
		if strings.Contains(newName, "/") {
			return Unit{}, fmt.Errorf("%w: unit name must not contain '/'", ErrInvalidInput)
		}
	}
	newParentID := unit.ParentID
	if in.ParentID != nil {
		newParentID = strings.TrimSpace(*in.ParentID)
	}

	if newName != unit.Name || newParentID != unit.ParentID {
		hasChildren, err := s.store.HasChildren(ctx, tenantID, id)
		if err != nil {
			return Unit{}, err
		}
		if hasChildren {
			return Unit{}, ErrHasChildren
		}
	}

	newPath := newName
	newLevel := 0
	if newParentID != "" {
		if newParentID == id {
			return Unit{}, fmt.Errorf("%w: unit cannot be its own parent", ErrInvalidInput)
		}
		parent, err := s.store.GetUnit(ctx, tenantID, newParentID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return Unit{}, ErrParentNotFound
			}
			return Unit{}, err
		}
		if err := s.ensureNoCycle(ctx, tenantID, id, parent); err != nil {
			return Unit{}, err
		}
		newPath = parent.Path + "/" + newName
		newLevel = parent.Level + 1
	}

	if newPath != unit.Path {
		if _, err := s.store.FindUnitByPath(ctx, tenantID, newPath); err == nil {
			return Unit{}, ErrPathConflict
		} else if !errors.Is(err, ErrNotFound) {
			return Unit{}, err
		}
	}

	unit.Name = newName
	unit.ParentID = newParentID
	unit.Path = newPath
	unit.Level = newLevel
	if in.Code != nil {
		code := strings.TrimSpace(*in.Code)
		if code == "" {
			return Unit{}, fmt.Errorf("%w: unit code is required", ErrInvalidInput)
		}
		unit.Code = code
	}
	if in.Type != nil {
		typ := strings.TrimSpace(strings.ToUpper(*in.Type))
		if !validType(typ) {
			return Unit{}, fmt.Errorf("%w: unsupported unit type %s", ErrInvalidInput, typ)
		}
		unit.Type = typ
	}
	if in.Classification != nil {
		c := strings.TrimSpace(strings.ToUpper(*in.Classification))
		if !validClassification(c) {
			return Unit{}, fmt.Errorf("%w: unsupported classification %s", ErrInvalidInput, c)
		}
		unit.Classification = c
	}
	if in.Status != nil {
		status := strings.TrimSpace(strings.ToUpper(*in.Status))
		if status != StatusActive && status != StatusInactive {
			return Unit{}, fmt.Errorf("%w: unsupported status %s", ErrInvalidInput, status)
		}
		unit.Status = status
	}
	if in.Metadata != nil {
		unit.Metadata = *in.Metadata
	}
	unit.UpdatedAt = s.now().UTC()
	unit.UpdatedBy = strings.TrimSpace(actorID)

	if err := s.store.UpdateUnit(ctx, &unit); err != nil {
		return Unit{}, err
	}
	return unit, nil
}

// Get loads a unit scoped to the tenant. A unit of another tenant is
// indistinguishable from a missing one.
func (s *Service) Get(ctx context.Context, tenantID, id string) (Unit, error) {
	tenantID = strings.TrimSpace(tenantID)
	id = strings.TrimSpace(id)
	if tenantID == "" || id == "" {
		return Unit{}, fmt.Errorf("%w: tenant id and unit id are required", ErrInvalidInput)
	}
	return s.store.GetUnit(ctx, tenantID, id)
}

// List returns the tenant's active units.
func (s *Service) List(ctx context.Context, tenantID string) ([]Unit, error) {
	return s.store.ListUnits(ctx, strings.TrimSpace(tenantID))
}

// ensureNoCycle walks ancestors of the proposed parent and rejects the
// move if the unit being updated appears among them.
func (s *Service) ensureNoCycle(ctx context.Context, tenantID, unitID string, parent Unit) error {
	current := parent
	for steps := parent.Level + 1; steps > 0; steps-- {
		if current.ID == unitID {
			return fmt.Errorf("%w: new parent is a descendant of the unit", ErrInvalidInput)
		}
		if current.ParentID == "" {
			return nil
		}
		next, err := s.store.GetUnit(ctx, tenantID, current.ParentID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			return err
		}
		current = next
	}
	if current.ID == unitID {
		return fmt.Errorf("%w: new parent is a descendant of the unit", ErrInvalidInput)
	}
	return nil
}
