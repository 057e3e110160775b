package models

// Role is stored alongside users but is not consulted by any service logic.
type Role struct {
	ID          int64
	Name        string
	Description string
}
