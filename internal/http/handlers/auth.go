package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hongminglow/expense-tracker-be/internal/apperr"
	"github.com/hongminglow/expense-tracker-be/internal/auth"
	"github.com/hongminglow/expense-tracker-be/internal/http/respond"
	"github.com/hongminglow/expense-tracker-be/internal/models"
	"github.com/hongminglow/expense-tracker-be/internal/models/dto"
	"github.com/hongminglow/expense-tracker-be/internal/storage"
)

const errInvalidCredentials = "invalid credentials"

// AuthHandler owns the register/login/logout endpoints.
type AuthHandler struct {
	store  storage.UserStore
	tokens *auth.TokenManager
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(store storage.UserStore, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /register", h.handleRegister)
	mux.HandleFunc("POST /login", h.handleLogin)
	mux.HandleFunc("GET /logout", h.handleLogout)
}

// handleRegister creates a user account.
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Account details"
// @Success 201 {object} respond.Envelope{username=string,email=string}
// @Failure 400 {object} respond.Envelope
// @Failure 409 {object} respond.Envelope
// @Router /register [post]
func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Fail(w, err)
		return
	}
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || strings.TrimSpace(req.Password) == "" {
		respond.Fail(w, apperr.Validation("username, email, and password are required"))
		return
	}

	created, err := h.createUser(r, username, email, req.Password)
	if err != nil {
		respond.Fail(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, "user registered successfully", dto.RegisterResponse{
		Username: created.Username,
		Email:    created.Email,
	})
}

func (h *AuthHandler) createUser(r *http.Request, username, email, password string) (models.User, error) {
	// The lookups only pick the message; the unique indexes reject duplicates.
	if _, err := h.store.FindByUsername(r.Context(), username); err == nil {
		return models.User{}, apperr.Conflict("username already taken")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.User{}, fmt.Errorf("lookup username: %w", err)
	}
	if _, err := h.store.FindByEmail(r.Context(), email); err == nil {
		return models.User{}, apperr.Conflict("email already in use")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.User{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := h.store.CreateUser(r.Context(), models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.User{}, apperr.Conflict("username or email already in use")
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// handleLogin exchanges credentials for a session token.
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} respond.Envelope{token=string}
// @Failure 400 {object} respond.Envelope
// @Failure 401 {object} respond.Envelope
// @Router /login [post]
func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Fail(w, err)
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		respond.Fail(w, apperr.Validation("username and password are required"))
		return
	}

	user, err := h.store.FindByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			auth.BurnPasswordCheck(req.Password)
			respond.Fail(w, apperr.Auth(errInvalidCredentials))
			return
		}
		respond.Fail(w, fmt.Errorf("login: fetch user %q: %w", username, err))
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respond.Fail(w, apperr.Auth(errInvalidCredentials))
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		respond.Fail(w, fmt.Errorf("generate token: %w", err))
		return
	}
	respond.JSON(w, http.StatusOK, "login successful", dto.LoginResponse{Token: token})
}

// handleLogout acknowledges a logout. Tokens are not tracked server side, so
// the client discards its token and it stays valid until it expires.
// @Summary Log out
// @Tags auth
// @Produce json
// @Success 200 {object} respond.Envelope
// @Router /logout [get]
func (h *AuthHandler) handleLogout(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, "logged out successfully", nil)
}
