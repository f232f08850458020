package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"water-admin/internal/core"

	"github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeCreated writes 201 {"id": id}.
func writeCreated(w http.ResponseWriter, id int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]int{"id": id})
}

// statusForKind maps a core error kind to its HTTP status.
func statusForKind(k core.ErrorKind) int {
	switch k {
	case core.KindInvalidArgument, core.KindConstraint:
		return http.StatusBadRequest
	case core.KindNotFound:
		return http.StatusNotFound
	case core.KindConflict:
		return http.StatusConflict
	case core.KindUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError translates an error returned by the application service.
// 500-class errors are logged with the request id and answered with a
// generic message.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, core.ErrInvalidCredentials) {
		writeError(w, r, "invalid credentials", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}

	kind := core.KindOf(err)
	status := statusForKind(kind)
	if status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
		h.log.WithFields(logrus.Fields{
			"request_id": requestIDFromContext(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"kind":       kind.String(),
		}).WithError(err).Error("request failed")
		writeError(w, r, "internal server error", kind.String(), status)
		return
	}

	msg := err.Error()
	var ce *core.Error
	if errors.As(err, &ce) {
		msg = ce.Message
	}
	writeError(w, r, msg, kind.String(), status)
}
