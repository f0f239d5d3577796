package domain

import (
	"errors"
	"time"
)

// Role is an element of the closed role set, ordered by privilege.
type Role string

const (
	RoleEmployee  Role = "employee"
	RoleHRManager Role = "hr_manager"
	RoleAdmin     Role = "admin"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidRole = errors.New("invalid role")

// Roles lists every known role in ascending privilege order.
func Roles() []Role {
	return []Role{RoleEmployee, RoleHRManager, RoleAdmin}
}

// ValidRole reports whether r is a member of the known role set.
func ValidRole(r Role) bool {
	switch r {
	case RoleEmployee, RoleHRManager, RoleAdmin:
		return true
	}
	return false
}

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	Role         Role      `json:"role"`
	Department   string    `json:"department,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// OwnerID lets a user record act as an access-controlled resource:
// a user owns their own record.
func (u *User) OwnerID() string { return u.ID }

// ResourceDepartment is the department the record is scoped to.
func (u *User) ResourceDepartment() string { return u.Department }
