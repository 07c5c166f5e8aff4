package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin  = "admin"
	RoleReader = "lecteur"
)

// User usuario del panel de administración.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt
	Name         string
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
