package handlers

import (
	"net/http"
	"time"

	"github.com/hongminglow/expense-tracker-be/internal/http/respond"
)

const rootGreeting = "Hello from the expense tracker backend!"

// HealthHandler returns uptime and basic status, and answers the bare root.
type HealthHandler struct {
	startedAt time.Time
}

// NewHealthHandler creates a health endpoint handler.
func NewHealthHandler(startedAt time.Time) *HealthHandler {
	return &HealthHandler{startedAt: startedAt}
}

// Register wires the handler into a ServeMux.
func (h *HealthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.handle)
	mux.HandleFunc("GET /{$}", h.handleRoot)
}

func (h *HealthHandler) handle(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, "ok", map[string]string{
		"status": "ok",
		"uptime": time.Since(h.startedAt).Truncate(time.Second).String(),
	})
}

func (h *HealthHandler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	respond.Text(w, http.StatusOK, rootGreeting)
}
