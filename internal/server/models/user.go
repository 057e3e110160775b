package models

import (
	"database/sql"
	"time"
)

// User is an account record from the user directory. The core treats it as
// read-only except for the password hash set during account creation.
type User struct {
	ID           int64
	RoleID       sql.NullInt64
	Username     string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
}
