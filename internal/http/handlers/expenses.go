package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hongminglow/expense-tracker-be/internal/apperr"
	"github.com/hongminglow/expense-tracker-be/internal/http/respond"
	"github.com/hongminglow/expense-tracker-be/internal/models"
	"github.com/hongminglow/expense-tracker-be/internal/models/dto"
	"github.com/hongminglow/expense-tracker-be/internal/storage"
)

const errExpenseNotFound = "expense not found or unauthorized"

// ExpenseHandler serves the authenticated user's expense records.
type ExpenseHandler struct {
	store storage.ExpenseStore
}

// NewExpenseHandler constructs the handler.
func NewExpenseHandler(store storage.ExpenseStore) *ExpenseHandler {
	return &ExpenseHandler{store: store}
}

// Register attaches expense routes to the mux behind protect.
func (h *ExpenseHandler) Register(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	mux.Handle("POST /expenses", protect(http.HandlerFunc(h.handleCreate)))
	mux.Handle("GET /expenses", protect(http.HandlerFunc(h.handleList)))
	mux.Handle("GET /expenses/summary", protect(http.HandlerFunc(h.handleSummary)))
	mux.Handle("GET /expenses/{id}", protect(http.HandlerFunc(h.handleGet)))
	mux.Handle("DELETE /expenses/{id}", protect(http.HandlerFunc(h.handleDelete)))
}

// handleCreate records a new expense.
// @Summary Add an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateExpenseRequest true "Expense"
// @Success 201 {object} respond.Envelope{expense=models.Expense}
// @Failure 400 {object} respond.Envelope
// @Failure 401 {object} respond.Envelope
// @Router /expenses [post]
func (h *ExpenseHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respond.Fail(w, err)
		return
	}
	var req dto.CreateExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Fail(w, err)
		return
	}
	description := strings.TrimSpace(req.Description)
	category := strings.TrimSpace(req.Category)
	if description == "" || category == "" || req.Amount == nil || *req.Amount == 0 {
		respond.Fail(w, apperr.Validation("description, amount, and category are required"))
		return
	}

	created, err := h.store.CreateExpense(r.Context(), models.Expense{
		Description: description,
		Amount:      *req.Amount,
		Category:    category,
		UserID:      user.ID,
	})
	if err != nil {
		respond.Fail(w, fmt.Errorf("create expense: %w", err))
		return
	}
	respond.JSON(w, http.StatusCreated, "expense added successfully", dto.ExpenseResponse{Expense: created})
}

// handleList returns every expense of the user, oldest first.
// @Summary List expenses
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} respond.Envelope{expenses=[]models.Expense}
// @Failure 401 {object} respond.Envelope
// @Router /expenses [get]
func (h *ExpenseHandler) handleList(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respond.Fail(w, err)
		return
	}
	expenses, err := h.store.ListExpenses(r.Context(), user.ID)
	if err != nil {
		respond.Fail(w, fmt.Errorf("list expenses: %w", err))
		return
	}
	respond.JSON(w, http.StatusOK, "expenses retrieved", dto.ExpenseListResponse{Expenses: expenses})
}

// handleGet returns one expense.
// @Summary Get an expense
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Expense ID"
// @Success 200 {object} respond.Envelope{expense=models.Expense}
// @Failure 401 {object} respond.Envelope
// @Failure 404 {object} respond.Envelope
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respond.Fail(w, err)
		return
	}
	id, err := pathID(r, errExpenseNotFound)
	if err != nil {
		respond.Fail(w, err)
		return
	}
	expense, err := h.store.GetExpense(r.Context(), user.ID, id)
	if err != nil {
		respond.Fail(w, expenseError(err))
		return
	}
	respond.JSON(w, http.StatusOK, "expense retrieved", dto.ExpenseResponse{Expense: expense})
}

// handleDelete removes one expense.
// @Summary Delete an expense
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Expense ID"
// @Success 200 {object} respond.Envelope
// @Failure 401 {object} respond.Envelope
// @Failure 404 {object} respond.Envelope
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respond.Fail(w, err)
		return
	}
	id, err := pathID(r, errExpenseNotFound)
	if err != nil {
		respond.Fail(w, err)
		return
	}
	if err := h.store.DeleteExpense(r.Context(), user.ID, id); err != nil {
		respond.Fail(w, expenseError(err))
		return
	}
	respond.JSON(w, http.StatusOK, "expense deleted successfully", nil)
}

// expenseError hides whether a missing record exists under another owner.
func expenseError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound(errExpenseNotFound)
	}
	return err
}
