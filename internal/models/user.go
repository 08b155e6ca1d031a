package models

import "time"

// Role determines which operations a user may invoke
type Role string

const (
	RolePatient    Role = "patient"
	RolePharmacist Role = "pharmacist"
)

// ParseRole validates a role value coming from a request body. Role is a
// closed enumeration; anything outside it is rejected before it can reach
// the store.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RolePatient, RolePharmacist:
		return Role(s), true
	}
	return "", false
}

// User represents a registered account. The primary key is the subject
// identifier assigned by the identity verifier, so a verified token maps
// directly onto a row. Role is set once at account creation and never
// mutated afterwards.
type User struct {
	ID        string    `gorm:"type:varchar(128);primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Role      Role      `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// CreateUserRequest represents a request to create a user account
type CreateUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}
