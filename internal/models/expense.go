package models

import "time"

// Expense is a single spending record owned by one user.
type Expense struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	UserID      int64     `json:"-"`
}
