package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/hongminglow/expense-tracker-be/internal/apperr"
	"github.com/hongminglow/expense-tracker-be/internal/http/respond"
	"github.com/hongminglow/expense-tracker-be/internal/models/dto"
	"github.com/hongminglow/expense-tracker-be/internal/storage"
)

// ProfileHandler serves the authenticated user's own account.
type ProfileHandler struct {
	store storage.UserStore
}

// NewProfileHandler constructs the handler.
func NewProfileHandler(store storage.UserStore) *ProfileHandler {
	return &ProfileHandler{store: store}
}

// Register attaches profile routes to the mux behind protect.
func (h *ProfileHandler) Register(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	mux.Handle("GET /profile", protect(http.HandlerFunc(h.handleGet)))
	mux.Handle("PUT /profile", protect(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("DELETE /delete_account", protect(http.HandlerFunc(h.handleDeleteAccount)))
}

// handleGet returns the public profile fields.
// @Summary Get profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} respond.Envelope{username=string,email=string,salary=number}
// @Failure 401 {object} respond.Envelope
// @Router /profile [get]
func (h *ProfileHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respond.Fail(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "profile retrieved", dto.ProfileResponse{
		Username: user.Username,
		Email:    user.Email,
		Salary:   user.Salary,
	})
}

// handleUpdate applies a partial profile update. Only salary is writable;
// other fields are ignored. A null salary clears it.
// @Summary Update profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "Profile patch; only salary is applied"
// @Success 200 {object} respond.Envelope
// @Failure 400 {object} respond.Envelope
// @Failure 401 {object} respond.Envelope
// @Router /profile [put]
func (h *ProfileHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respond.Fail(w, err)
		return
	}
	var patch map[string]json.RawMessage
	if err := decodeJSON(w, r, &patch); err != nil {
		respond.Fail(w, err)
		return
	}

	raw, ok := patch["salary"]
	if !ok {
		respond.JSON(w, http.StatusOK, "profile updated successfully", nil)
		return
	}
	salary, err := parseSalary(raw)
	if err != nil {
		respond.Fail(w, err)
		return
	}
	if err := h.store.UpdateSalary(r.Context(), user.ID, salary); err != nil {
		respond.Fail(w, accountError(err))
		return
	}
	respond.JSON(w, http.StatusOK, "profile updated successfully", nil)
}

func parseSalary(raw json.RawMessage) (*float64, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	var salary float64
	if err := json.Unmarshal(raw, &salary); err != nil {
		return nil, apperr.Validation("salary must be a number")
	}
	if salary < 0 {
		return nil, apperr.Validation("salary must not be negative")
	}
	return &salary, nil
}

// handleDeleteAccount removes the user and all of their expenses.
// @Summary Delete account
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} respond.Envelope
// @Failure 401 {object} respond.Envelope
// @Router /delete_account [delete]
func (h *ProfileHandler) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respond.Fail(w, err)
		return
	}
	if err := h.store.DeleteUser(r.Context(), user.ID); err != nil {
		respond.Fail(w, accountError(err))
		return
	}
	respond.JSON(w, http.StatusOK, "account deleted successfully", nil)
}

// accountError maps a vanished account to the same error the auth gate uses.
func accountError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.Auth("invalid user")
	}
	return fmt.Errorf("account: %w", err)
}
