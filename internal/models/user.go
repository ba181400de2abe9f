package models

import (
	"database/sql"
	"time"
)

// User represents a user record in DB (internal use only).
type User struct {
	ID           int64          `json:"id"`
	Email        string         `json:"email"`
	Username     string         `json:"username"`
	PasswordHash string         `json:"-"`
	ResetToken   sql.NullString `json:"-"` // set while a reset is pending
	ResetExpires sql.NullTime   `json:"-"`
	AdminID      sql.NullInt64  `json:"admin_id,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Admin owns a group of users and can view aggregate stats over them.
type Admin struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	AdminCode    string    `json:"admin_code"` // external admin identifier, unique
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
