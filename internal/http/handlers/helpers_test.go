package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hongminglow/expense-tracker-be/internal/auth"
	"github.com/hongminglow/expense-tracker-be/internal/middleware"
	"github.com/hongminglow/expense-tracker-be/internal/storage"
	"github.com/hongminglow/expense-tracker-be/internal/storage/sqlite"
)

const (
	testSecret = "test-secret"
	testIssuer = "expense-tracker"
)

// envelope is a decoded response: code and message plus the raw body that
// carries the payload fields beside them.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Raw     json.RawMessage `json:"-"`
}

type testAPI struct {
	t       *testing.T
	handler http.Handler
	store   storage.Store
	tokens  *auth.TokenManager
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store, err := sqlite.NewStore(context.Background(), ":memory:")
	require.NoError(t, err, "failed to create test database")
	t.Cleanup(store.Close)

	tokens := auth.NewTokenManager(testSecret, testIssuer, time.Hour)
	protect := middleware.RequireUser(tokens, store)

	mux := http.NewServeMux()
	NewHealthHandler(time.Now()).Register(mux)
	NewAuthHandler(store, tokens).Register(mux)
	NewExpenseHandler(store).Register(mux, protect)
	NewProfileHandler(store).Register(mux, protect)

	return &testAPI{t: t, handler: mux, store: store, tokens: tokens}
}

// do sends body (marshalled unless it is already a string) and decodes the envelope.
func (a *testAPI) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(b)
		require.NoError(a.t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
		env.Raw = json.RawMessage(rec.Body.Bytes())
	}
	return rec, env
}

func (a *testAPI) register(username, email, password string) {
	a.t.Helper()
	rec, env := a.do(http.MethodPost, "/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, env.Message)
}

func (a *testAPI) login(username, password string) string {
	a.t.Helper()
	rec, env := a.do(http.MethodPost, "/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(a.t, http.StatusOK, rec.Code, env.Message)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Raw, &out))
	require.NotEmpty(a.t, out.Token)
	return out.Token
}

// signup registers and logs in a user, returning its token.
func (a *testAPI) signup(username string) string {
	a.t.Helper()
	a.register(username, username+"@example.com", "pw-"+username)
	return a.login(username, "pw-"+username)
}

// decodeBody decodes the payload fields of a response into T.
func decodeBody[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Raw, &out), "body: %s", env.Raw)
	return out
}

// payload returns the response body without code and message.
func payload(t *testing.T, env envelope) map[string]json.RawMessage {
	t.Helper()
	fields := decodeBody[map[string]json.RawMessage](t, env)
	delete(fields, "code")
	delete(fields, "message")
	return fields
}
