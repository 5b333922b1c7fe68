package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/expense-tracker-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures user persistence operations needed by handlers.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	UpdateSalary(ctx context.Context, userID int64, salary *float64) error
	// DeleteUser removes the user and every expense it owns atomically.
	DeleteUser(ctx context.Context, userID int64) error
}

// ExpenseStore captures expense persistence. Every method is scoped to the
// owning user; a record owned by someone else behaves as ErrNotFound.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, expense models.Expense) (models.Expense, error)
	ListExpenses(ctx context.Context, userID int64) ([]models.Expense, error)
	GetExpense(ctx context.Context, userID, id int64) (models.Expense, error)
	DeleteExpense(ctx context.Context, userID, id int64) error
}

// Store is a full backend.
type Store interface {
	UserStore
	ExpenseStore
	Close()
}
