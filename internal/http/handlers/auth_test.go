package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/expense-tracker-be/internal/models/dto"
)

func TestRegister(t *testing.T) {
	api := newTestAPI(t)

	rec, env := api.do(http.MethodPost, "/register", "", map[string]string{
		"username": "alice",
		"email":    "a@x.com",
		"password": "pw1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "user registered successfully", env.Message)
	assert.Equal(t, dto.RegisterResponse{Username: "alice", Email: "a@x.com"}, decodeBody[dto.RegisterResponse](t, env))
	assert.NotContains(t, rec.Body.String(), "password")

	user, err := api.store.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", user.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	api := newTestAPI(t)
	cases := map[string]any{
		"missing username": map[string]string{"email": "a@x.com", "password": "pw"},
		"missing email":    map[string]string{"username": "alice", "password": "pw"},
		"missing password": map[string]string{"username": "alice", "email": "a@x.com"},
		"blank username":   map[string]string{"username": "  ", "email": "a@x.com", "password": "pw"},
		"invalid json":     "{not json",
		"empty body":       "",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec, env := api.do(http.MethodPost, "/register", "", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	api := newTestAPI(t)
	api.register("alice", "a@x.com", "pw1")

	rec, env := api.do(http.MethodPost, "/register", "", map[string]string{
		"username": "alice",
		"email":    "b@y.com",
		"password": "pw2",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "username already taken", env.Message)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	api := newTestAPI(t)
	api.register("alice", "a@x.com", "pw1")

	rec, env := api.do(http.MethodPost, "/register", "", map[string]string{
		"username": "alicia",
		"email":    "a@x.com",
		"password": "pw2",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "email already in use", env.Message)
}

func TestLoginIssuesTokenForUser(t *testing.T) {
	api := newTestAPI(t)
	api.register("alice", "a@x.com", "pw1")

	token := api.login("alice", "pw1")
	claims, err := api.tokens.Parse(token)
	require.NoError(t, err)

	user, err := api.store.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	api := newTestAPI(t)
	api.register("alice", "a@x.com", "pw1")

	wrongPassword, _ := api.do(http.MethodPost, "/login", "", map[string]string{"username": "alice", "password": "nope"})
	unknownUser, _ := api.do(http.MethodPost, "/login", "", map[string]string{"username": "mallory", "password": "nope"})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, wrongPassword.Code, unknownUser.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
	assert.Contains(t, wrongPassword.Body.String(), "invalid credentials")
}

func TestLoginValidation(t *testing.T) {
	api := newTestAPI(t)
	for _, body := range []any{
		map[string]string{"username": "alice"},
		map[string]string{"password": "pw"},
		"[]",
	} {
		rec, _ := api.do(http.MethodPost, "/login", "", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %v", body)
	}
}

func TestLogout(t *testing.T) {
	api := newTestAPI(t)
	rec, env := api.do(http.MethodGet, "/logout", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "logged out successfully", env.Message)
}

func TestAuthRoutesRejectWrongMethod(t *testing.T) {
	api := newTestAPI(t)
	rec, _ := api.do(http.MethodGet, "/register", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
