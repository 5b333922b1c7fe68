package models

import "time"

// User is an account holder. PasswordHash never leaves the server and
// Salary stays nil until the user sets one on their profile.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salary       *float64  `json:"salary"`
	CreatedAt    time.Time `json:"created_at"`
}
