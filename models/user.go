package models

import (
	"time"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// User represents a registered customer, moderator or administrator
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"not null" json:"firstName"`
	LastName  string    `gorm:"not null" json:"lastName"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`                   // bcrypt hash
	Role      string    `gorm:"not null;default:'user'" json:"role"` // "user", "moderator" or "admin"
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// UserParams holds the fields needed to build a User
type UserParams struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
}

// ValidRole reports whether role is one of the known roles
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// NewUser validates p and builds a User. An empty role defaults to "user".
func NewUser(p UserParams) (*User, error) {
	if blank(p.FirstName) {
		return nil, invalid("firstName", "First name is required")
	}
	if blank(p.LastName) {
		return nil, invalid("lastName", "Last name is required")
	}
	if blank(p.Email) {
		return nil, invalid("email", "Email is required")
	}
	if p.Password == "" {
		return nil, invalid("password", "Password is required")
	}

	role := p.Role
	if role == "" {
		role = RoleUser
	}
	if !ValidRole(role) {
		return nil, invalid("role", "Role must be one of user, moderator, admin")
	}

	return &User{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Password:  p.Password,
		Role:      role,
	}, nil
}

// Equal compares the domain fields of two users, ignoring ID and timestamps
func (u *User) Equal(other *User) bool {
	if u == nil || other == nil {
		return u == other
	}
	return u.FirstName == other.FirstName &&
		u.LastName == other.LastName &&
		u.Email == other.Email &&
		u.Password == other.Password &&
		u.Role == other.Role
}

// HasRole reports whether the user holds any of the given roles
func (u *User) HasRole(roles ...string) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
