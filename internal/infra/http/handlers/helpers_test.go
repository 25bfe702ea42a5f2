package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/thelocaljewel/backend/internal/usecase"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{usecase.NotFound("missing"), http.StatusNotFound},
		{usecase.InvalidArgument("bad"), http.StatusBadRequest},
		{usecase.Unauthenticated("who"), http.StatusUnauthorized},
		{usecase.RateLimited("slow down"), http.StatusTooManyRequests},
		{usecase.Conflict("already"), http.StatusConflict},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		writeError(w, tc.err)
		assert.Equal(t, tc.status, w.Code)
	}

	// Internal detail never reaches the body.
	w := httptest.NewRecorder()
	writeError(w, assert.AnError)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1:1234", getClientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.9")
	assert.Equal(t, "198.51.100.9", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", getClientIP(req))
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest("GET", "/?page=3&limit=500&junk=abc&neg=-2", nil)

	assert.Equal(t, 3, queryInt(req, "page", 1, 0))
	assert.Equal(t, 100, queryInt(req, "limit", 20, 100))
	assert.Equal(t, 20, queryInt(req, "junk", 20, 100))
	assert.Equal(t, 20, queryInt(req, "neg", 20, 100))
	assert.Equal(t, 1, queryInt(req, "absent", 1, 0))
}

func TestParseDateFilter(t *testing.T) {
	assert.Nil(t, parseDateFilter(""))
	assert.Nil(t, parseDateFilter("yesterday"))

	got := parseDateFilter("2026-03-01T00:00:00Z")
	assert.NotNil(t, got)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), got.UTC())
}
