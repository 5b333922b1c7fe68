package respond

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/hongminglow/expense-tracker-be/internal/apperr"
)

// Envelope holds the fields every JSON response carries. Success payloads are
// written beside them at the top level.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// JSON writes code and message merged with the top-level fields of body.
// body must encode as a JSON object, or be nil for a bare envelope.
func JSON(w http.ResponseWriter, status int, message string, body any) {
	fields, err := flatten(body)
	if err != nil {
		log.Printf("respond: flatten payload failed: %v", err)
		Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	fields["code"] = status
	fields["message"] = message
	write(w, status, fields)
}

// Error writes an error response with the shared envelope structure.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Code: status, Message: message})
}

// Fail writes err using its apperr kind. Errors without a kind are logged
// and reported as a generic 500.
func Fail(w http.ResponseWriter, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		log.Printf("respond: internal error: %v", err)
	}
	Error(w, status, apperr.Message(err))
}

// Text writes a plain-text body.
func Text(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		log.Printf("respond: write text failed: %v", err)
	}
}

func flatten(body any) (map[string]any, error) {
	fields := make(map[string]any)
	if body == nil {
		return fields, nil
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	for k, v := range obj {
		fields[k] = v
	}
	return fields, nil
}

func write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("respond: encode payload failed: %v", err)
	}
}
