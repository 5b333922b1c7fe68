package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("missing field"), http.StatusBadRequest},
		{"conflict", Conflict("taken"), http.StatusConflict},
		{"auth", Auth("invalid token"), http.StatusUnauthorized},
		{"not found", NotFound("gone"), http.StatusNotFound},
		{"wrapped", fmt.Errorf("handler: %w", NotFound("gone")), http.StatusNotFound},
		{"plain", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestMessageHidesInternalCause(t *testing.T) {
	assert.Equal(t, "internal server error", Message(errors.New("connection refused")))
	assert.Equal(t, "token has expired", Message(Auth("token has expired")))
}
