package domain

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	Role         Role
	Active       bool
	DateOfBirth  *time.Time
	Gender       string
	RegisteredAt time.Time
}

// TokenClaims is the identity resolved from a bearer token. Handlers
// trust it completely; no further credential checks happen downstream.
type TokenClaims struct {
	UserID int64
	Email  string
	Role   Role
}

func (c *TokenClaims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

type UserFilter struct {
	Role   string
	Active *bool
}

// UserUpdate is the admin-side patch for a user record. Nil fields are
// left untouched.
type UserUpdate struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
	Role      *Role   `json:"role"`
	Active    *bool   `json:"active"`
}

type UserStats struct {
	Total        int64
	Active       int64
	NewThisMonth int64
}
