package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/thelocaljewel/backend/internal/entity"
	"github.com/thelocaljewel/backend/internal/infra/auth"
	"github.com/thelocaljewel/backend/internal/infra/database"
	"github.com/thelocaljewel/backend/internal/infra/http/middleware"
	"github.com/thelocaljewel/backend/internal/usecase"
)

// AdminAuthHandler logs staff in against the admins table, falling back to the
// env-configured bootstrap credentials when no record exists.
type AdminAuthHandler struct {
	Admins *database.AdminRepository
	Tokens *auth.Service

	FallbackEmail    string
	FallbackPassword string
}

func NewAdminAuthHandler(admins *database.AdminRepository, tokens *auth.Service, fallbackEmail, fallbackPassword string) *AdminAuthHandler {
	return &AdminAuthHandler{
		Admins:           admins,
		Tokens:           tokens,
		FallbackEmail:    fallbackEmail,
		FallbackPassword: fallbackPassword,
	}
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AdminAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSON(w)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	admin, err := h.Admins.FindByEmail(r.Context(), email)
	switch {
	case err == nil:
		if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
			writeError(w, usecase.Unauthenticated("invalid credentials"))
			return
		}
	case errors.Is(err, sql.ErrNoRows):
		if h.FallbackPassword == "" ||
			email != strings.ToLower(h.FallbackEmail) ||
			req.Password != h.FallbackPassword {
			writeError(w, usecase.Unauthenticated("invalid credentials"))
			return
		}
	default:
		writeError(w, err)
		return
	}

	token, err := h.Tokens.Issue(r.Context(), email, entity.TokenRoleStaff)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token, "email": email})
}

func (h *AdminAuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.TokenFromContext(r.Context())
	if !ok {
		writeError(w, usecase.Unauthenticated("not authenticated"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"email": token.Subject, "role": "admin"})
}
