package auth

import "time"

const (
	UserStatusActive     = "ACTIVE"
	UserStatusInactive   = "INACTIVE"
	UserStatusTerminated = "TERMINATED"
)

// PersonalData is the HR profile embedded in every user record.
type PersonalData struct {
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	FatherName string `json:"fatherName,omitempty"`
	Gender     string `json:"gender,omitempty"`
}

// User is an authenticated account scoped to a tenant. The password hash
// never leaves the service layer.
type User struct {
	ID           string       `json:"id"`
	TenantID     string       `json:"tenantId,omitempty"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Status       string       `json:"status"`
	PersonalData PersonalData `json:"personalData"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}
