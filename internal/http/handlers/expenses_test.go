package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/expense-tracker-be/internal/models/dto"
)

type expenseBody struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
}

type expenseResult struct {
	Expense expenseBody `json:"expense"`
}

type expenseListResult struct {
	Expenses []expenseBody `json:"expenses"`
}

func (a *testAPI) addExpense(token, description string, amount float64, category string) expenseBody {
	a.t.Helper()
	rec, env := a.do(http.MethodPost, "/expenses", token, map[string]any{
		"description": description,
		"amount":      amount,
		"category":    category,
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, env.Message)
	return decodeBody[expenseResult](a.t, env).Expense
}

func TestAddExpense(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup("alice")

	e := api.addExpense(token, "coffee", 3.5, "food")
	assert.Equal(t, int64(1), e.ID)
	assert.Equal(t, "coffee", e.Description)
	assert.Equal(t, 3.5, e.Amount)
	assert.Equal(t, "food", e.Category)
	assert.WithinDuration(t, time.Now(), e.Date, time.Minute)
}

func TestAddExpenseValidation(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup("alice")

	cases := map[string]any{
		"missing description": map[string]any{"amount": 3.5, "category": "food"},
		"missing amount":      map[string]any{"description": "coffee", "category": "food"},
		"zero amount":         map[string]any{"description": "coffee", "amount": 0, "category": "food"},
		"missing category":    map[string]any{"description": "coffee", "amount": 3.5},
		"string amount":       map[string]any{"description": "coffee", "amount": "3.5", "category": "food"},
		"invalid json":        "{",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec, _ := api.do(http.MethodPost, "/expenses", token, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestExpensesRequireAuth(t *testing.T) {
	api := newTestAPI(t)
	routes := []struct{ method, path string }{
		{http.MethodPost, "/expenses"},
		{http.MethodGet, "/expenses"},
		{http.MethodGet, "/expenses/summary"},
		{http.MethodGet, "/expenses/1"},
		{http.MethodDelete, "/expenses/1"},
	}
	for _, rt := range routes {
		rec, env := api.do(rt.method, rt.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", rt.method, rt.path)
		assert.Equal(t, "token is missing", env.Message)
	}
}

func TestListExpensesOldestFirst(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup("alice")

	rec, env := api.do(http.MethodGet, "/expenses", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", string(payload(t, env)["expenses"]), "empty list must be an array")

	for i := 1; i <= 3; i++ {
		api.addExpense(token, fmt.Sprintf("item %d", i), float64(i), "misc")
	}
	_, env = api.do(http.MethodGet, "/expenses", token, nil)
	list := decodeBody[expenseListResult](t, env).Expenses
	require.Len(t, list, 3)
	for i, e := range list {
		assert.Equal(t, fmt.Sprintf("item %d", i+1), e.Description)
	}
}

func TestExpenseOwnershipIsolation(t *testing.T) {
	api := newTestAPI(t)
	aliceToken := api.signup("alice")
	bobToken := api.signup("bob")
	e := api.addExpense(aliceToken, "coffee", 3.5, "food")
	path := fmt.Sprintf("/expenses/%d", e.ID)

	_, env := api.do(http.MethodGet, "/expenses", bobToken, nil)
	assert.Empty(t, decodeBody[expenseListResult](t, env).Expenses)

	rec, env := api.do(http.MethodGet, path, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "expense not found or unauthorized", env.Message)

	rec, env = api.do(http.MethodDelete, path, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "expense not found or unauthorized", env.Message)

	rec, env = api.do(http.MethodGet, path, aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, e.ID, decodeBody[expenseResult](t, env).Expense.ID)
}

func TestDeleteExpense(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup("alice")
	e := api.addExpense(token, "coffee", 3.5, "food")
	path := fmt.Sprintf("/expenses/%d", e.ID)

	rec, _ := api.do(http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = api.do(http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = api.do(http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExpenseMalformedID(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup("alice")

	for _, path := range []string{"/expenses/abc", "/expenses/0", "/expenses/-4"} {
		rec, env := api.do(http.MethodDelete, path, token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "expense not found or unauthorized", env.Message)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	api := newTestAPI(t)
	token := api.signup("alice")
	api.addExpense(token, "coffee", 3, "food")
	api.addExpense(token, "lunch", 12, "food")
	api.addExpense(token, "bus", 5, "transport")

	rec, _ := api.do(http.MethodPut, "/profile", token, map[string]any{"salary": 100})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := api.do(http.MethodGet, "/expenses/summary", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decodeBody[dto.SummaryResponse](t, env)
	assert.Equal(t, 20.0, summary.Total)
	assert.Equal(t, 3, summary.Count)
	require.NotNil(t, summary.Remaining)
	assert.Equal(t, 80.0, *summary.Remaining)
	require.Len(t, summary.Categories, 2)
	assert.Equal(t, "food", summary.Categories[0].Category)

	now := time.Now().UTC()
	rec, _ = api.do(http.MethodGet, fmt.Sprintf("/expenses/summary?year=%d&month=%d", now.Year(), int(now.Month())), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, q := range []string{"?year=2024", "?month=3", "?year=2024&month=13", "?year=abc&month=1"} {
		rec, _ = api.do(http.MethodGet, "/expenses/summary"+q, token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}
