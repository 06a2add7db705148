package entity

import (
	"time"
)

// Role is the authorization level of an account.
// It is server-authoritative: never accepted from client input.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// User is the aggregate root for the account domain.
// PasswordHash holds a bcrypt hash and is never serialized.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Photo        string
	Role         Role
	IsBlocked    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicUser is the projection returned to the account owner.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
	Photo string `json:"photo,omitempty"`
}

// AdminUser is the projection returned to administrators.
type AdminUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Photo     string    `json:"photo,omitempty"`
	IsBlocked bool      `json:"is_blocked"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
		Photo: u.Photo,
	}
}

func (u *User) AdminView() AdminUser {
	return AdminUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Photo:     u.Photo,
		IsBlocked: u.IsBlocked,
		CreatedAt: u.CreatedAt,
	}
}
