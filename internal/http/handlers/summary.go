package handlers

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/hongminglow/expense-tracker-be/internal/apperr"
	"github.com/hongminglow/expense-tracker-be/internal/http/respond"
	"github.com/hongminglow/expense-tracker-be/internal/models"
	"github.com/hongminglow/expense-tracker-be/internal/models/dto"
)

// period restricts a summary to one calendar month (UTC). The zero value
// means all time.
type period struct {
	year  int
	month int
}

func (p period) contains(t time.Time) bool {
	if p.year == 0 {
		return true
	}
	t = t.UTC()
	return t.Year() == p.year && int(t.Month()) == p.month
}

// parsePeriod reads ?year=&month=. Both or neither must be given.
func parsePeriod(r *http.Request) (period, error) {
	yearStr := r.URL.Query().Get("year")
	monthStr := r.URL.Query().Get("month")
	if yearStr == "" && monthStr == "" {
		return period{}, nil
	}
	if yearStr == "" || monthStr == "" {
		return period{}, apperr.Validation("year and month must be given together")
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1 || year > 9999 {
		return period{}, apperr.Validation("year must be a number between 1 and 9999")
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return period{}, apperr.Validation("month must be a number between 1 and 12")
	}
	return period{year: year, month: month}, nil
}

// handleSummary aggregates the user's spending by category.
// @Summary Summarize expenses
// @Description Totals per category, optionally for one month, with remaining salary.
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year (requires month)"
// @Param month query int false "Month 1-12 (requires year)"
// @Success 200 {object} respond.Envelope{year=integer,month=integer,total=number,count=integer,categories=[]dto.CategoryTotal,salary=number,remaining=number}
// @Failure 400 {object} respond.Envelope
// @Failure 401 {object} respond.Envelope
// @Router /expenses/summary [get]
func (h *ExpenseHandler) handleSummary(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respond.Fail(w, err)
		return
	}
	p, err := parsePeriod(r)
	if err != nil {
		respond.Fail(w, err)
		return
	}
	expenses, err := h.store.ListExpenses(r.Context(), user.ID)
	if err != nil {
		respond.Fail(w, fmt.Errorf("list expenses: %w", err))
		return
	}
	respond.JSON(w, http.StatusOK, "summary retrieved", summarize(expenses, user.Salary, p))
}

func summarize(expenses []models.Expense, salary *float64, p period) dto.SummaryResponse {
	out := dto.SummaryResponse{
		Year:       p.year,
		Month:      p.month,
		Categories: make([]dto.CategoryTotal, 0),
		Salary:     salary,
	}

	byCategory := make(map[string]*dto.CategoryTotal)
	for _, e := range expenses {
		if !p.contains(e.Date) {
			continue
		}
		out.Total += e.Amount
		out.Count++
		ct, ok := byCategory[e.Category]
		if !ok {
			ct = &dto.CategoryTotal{Category: e.Category}
			byCategory[e.Category] = ct
		}
		ct.Total += e.Amount
		ct.Count++
	}

	for _, ct := range byCategory {
		if out.Total != 0 {
			ct.Percentage = ct.Total / out.Total * 100
		}
		out.Categories = append(out.Categories, *ct)
	}
	sort.Slice(out.Categories, func(i, j int) bool {
		a, b := out.Categories[i], out.Categories[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Category < b.Category
	})

	if salary != nil {
		remaining := *salary - out.Total
		out.Remaining = &remaining
	}
	return out
}
