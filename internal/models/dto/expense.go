package dto

import "github.com/hongminglow/expense-tracker-be/internal/models"

// CreateExpenseRequest is the body of POST /expenses. Amount is a pointer so
// an absent field can be told apart from an explicit value.
type CreateExpenseRequest struct {
	Description string   `json:"description"`
	Amount      *float64 `json:"amount"`
	Category    string   `json:"category"`
}

// CategoryTotal is one row of an expense summary.
type CategoryTotal struct {
	Category   string  `json:"category"`
	Total      float64 `json:"total"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// SummaryResponse aggregates a user's expenses, optionally for one month.
type SummaryResponse struct {
	Year       int             `json:"year,omitempty"`
	Month      int             `json:"month,omitempty"`
	Total      float64         `json:"total"`
	Count      int             `json:"count"`
	Categories []CategoryTotal `json:"categories"`
	Salary     *float64        `json:"salary"`
	Remaining  *float64        `json:"remaining"`
}

// ExpenseResponse carries a single expense under the "expense" key.
type ExpenseResponse struct {
	Expense models.Expense `json:"expense"`
}

// ExpenseListResponse carries the user's expenses under the "expenses" key.
type ExpenseListResponse struct {
	Expenses []models.Expense `json:"expenses"`
}
