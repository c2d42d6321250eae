package tenant

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("tenant: not found")
	ErrConflict     = errors.New("tenant: already exists")
	ErrInvalidInput = errors.New("tenant: invalid input")
)

const (
	StatusActive    = "ACTIVE"
	StatusSuspended = "SUSPENDED"
	StatusArchived  = "ARCHIVED"
)

const (
	TypePrivate  = "PRIVATE"
	TypeState    = "STATE"
	TypeMilitary = "MILITARY"
)

// Profile is the legal/registration block of a tenant.
type Profile struct {
	LegalName          string `json:"legalName,omitempty"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`
	Country            string `json:"country,omitempty"`
	Address            string `json:"address,omitempty"`
}

// Tenant is the identity boundary every scoped entity references by id.
type Tenant struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Status    string          `json:"status"`
	Profile   Profile         `json:"profile"`
	Features  map[string]bool `json:"features"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Update is a partial patch; nil fields are left untouched.
type Update struct {
	Name     *string
	Type     *string
	Status   *string
	Profile  *Profile
	Features map[string]bool
}
