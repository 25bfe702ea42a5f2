package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/thelocaljewel/backend/internal/usecase"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy onto HTTP statuses. Anything
// without a code is a plain 500; the detail stays in the log, not the body.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch usecase.CodeOf(err) {
	case usecase.CodeNotFound:
		status, message = http.StatusNotFound, err.Error()
	case usecase.CodeInvalidArgument:
		status, message = http.StatusBadRequest, err.Error()
	case usecase.CodeUnauthenticated:
		status, message = http.StatusUnauthorized, err.Error()
	case usecase.CodeRateLimited:
		status, message = http.StatusTooManyRequests, err.Error()
	case usecase.CodeConflict:
		status, message = http.StatusConflict, err.Error()
	}

	writeJSON(w, status, map[string]string{"error": message})
}

func badJSON(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
}

// getClientIP prefers proxy headers over the socket address.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func queryInt(r *http.Request, key string, fallback, max int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	if max > 0 && n > max {
		return max
	}
	return n
}

// parseDateFilter accepts RFC 3339 timestamps. A malformed value drops the
// filter instead of failing the request.
func parseDateFilter(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	return &t
}
