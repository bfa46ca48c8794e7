package model

import "time"

// User is an authentication account. Its id is the acting-user identifier
// attached to audit entries.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
