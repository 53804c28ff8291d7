package domain

import "time"

// Role classifies what an account is allowed to do downstream.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Account is the identity record owned by the identity service.
// The email is the unique key and is always stored lowercase.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	Enabled      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SecurityProfile is the credential material the authentication service
// resolves through the identity lookup. PasswordHash is a one-way bcrypt
// hash; plaintext passwords never appear here.
type SecurityProfile struct {
	Email        string
	PasswordHash string
	Role         Role
	Enabled      bool
}
