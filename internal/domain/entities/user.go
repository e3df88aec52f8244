package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Role represents the roles a user can hold in the marketplace
type Role string

const (
	RoleCustomer       Role = "CUSTOMER"
	RoleVendor         Role = "VENDOR"
	RoleSystemStaff    Role = "SYSTEM_STAFF"
	RoleDeliveryPerson Role = "DELIVERY_PERSON"
)

// IsValid reports whether the role is one of the known marketplace roles
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleVendor, RoleSystemStaff, RoleDeliveryPerson:
		return true
	}
	return false
}

// User represents a user entity. The phone number is the primary external
// identifier; users are deactivated, never hard-deleted.
type User struct {
	ID           uuid.UUID        `json:"id"`
	Phone        string           `json:"phone"`
	FullName     string           `json:"fullName"`
	Email        null.String      `json:"email,omitempty"`
	PasswordHash string           `json:"-"`
	IsActive     bool             `json:"isActive"`
	LastLoginAt  null.Time        `json:"lastLoginAt,omitempty"`
	Roles        []RoleAssignment `json:"roles,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// ActiveRoles returns the roles of all active assignments
func (u *User) ActiveRoles() []Role {
	var roles []Role
	for _, a := range u.Roles {
		if a.IsActive {
			roles = append(roles, a.Role)
		}
	}
	return roles
}

// PrimaryRole returns the active primary role, if any
func (u *User) PrimaryRole() (Role, bool) {
	for _, a := range u.Roles {
		if a.IsActive && a.IsPrimary {
			return a.Role, true
		}
	}
	return "", false
}

// RoleAssignment represents one role held by a user. Among a user's active
// assignments at most one has IsPrimary set.
type RoleAssignment struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"isActive"`
	IsPrimary bool      `json:"isPrimary"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RegisterInput represents input for user registration
type RegisterInput struct {
	Phone    string `json:"phone" binding:"required,e164"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"fullName" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileInput represents the fields a user may change on their record
type UpdateProfileInput struct {
	FullName string `json:"fullName" binding:"omitempty,min=2,max=100"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// AssignRoleInput represents input for an administrative role grant
type AssignRoleInput struct {
	Role      Role `json:"role" binding:"required"`
	IsPrimary bool `json:"isPrimary"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user"`
}
