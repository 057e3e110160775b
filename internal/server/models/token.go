package models

import "time"

// Token is the persisted record of an issued token. The token string itself
// is the primary identifier; at most one record exists per user.
type Token struct {
	Token     string
	UserID    int64
	Uses      int
	CreatedAt time.Time
}
