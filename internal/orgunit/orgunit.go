package orgunit

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("orgunit: not found")
	ErrParentNotFound = errors.New("orgunit: parent not found")
	ErrPathConflict   = errors.New("orgunit: path already exists in tenant")
	ErrHasChildren    = errors.New("orgunit: unit has children")
	ErrInvalidInput   = errors.New("orgunit: invalid input")
)

const (
	TypeHeadOffice  = "HEAD_OFFICE"
	TypeDirectorate = "DIRECTORATE"
	TypeDepartment  = "DEPARTMENT"
	TypeDivision    = "DIVISION"
	TypeOffice      = "OFFICE"
)

const (
	ClassificationPublic       = "PUBLIC"
	ClassificationInternal     = "INTERNAL"
	ClassificationConfidential = "CONFIDENTIAL"
	ClassificationSecret       = "SECRET"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// Metadata is free-form presentation data carried by a unit.
type Metadata struct {
	ShortName string `json:"shortName,omitempty"`
	Order     int    `json:"order,omitempty"`
}

// Unit is one node of a tenant's organizational tree. Path is the
// materialized ancestry: slash-joined ancestor names ending in the unit's
// own name, unique within the tenant. Level is the depth, 0 for roots.
type Unit struct {
	ID             string    `json:"id"`
	TenantID       string    `json:"tenantId"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	ParentID       string    `json:"parentId,omitempty"`
	Path           string    `json:"path"`
	Level          int       `json:"level"`
	Classification string    `json:"classification"`
	Status         string    `json:"status"`
	Metadata       Metadata  `json:"metadata"`
	CreatedAt      time.Time `json:"createdAt"`
	CreatedBy      string    `json:"createdBy,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt"`
	UpdatedBy      string    `json:"updatedBy,omitempty"`
}

func validType(t string) bool {
	switch t {
	case TypeHeadOffice, TypeDirectorate, TypeDepartment, TypeDivision, TypeOffice:
		return true
	}
	return false
}

func validClassification(c string) bool {
	switch c {
	case ClassificationPublic, ClassificationInternal, ClassificationConfidential, ClassificationSecret:
		return true
	}
	return false
}
