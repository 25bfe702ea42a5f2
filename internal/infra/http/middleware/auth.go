package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/thelocaljewel/backend/internal/entity"
	"github.com/thelocaljewel/backend/internal/infra/auth"
)

type contextKey string

const tokenContextKey contextKey = "auth_token"

// TokenFromContext returns the verified token attached by RequireCustomer or
// RequireStaff.
func TokenFromContext(ctx context.Context) (*entity.AuthToken, bool) {
	t, ok := ctx.Value(tokenContextKey).(*entity.AuthToken)
	return t, ok
}

type Authenticator struct {
	Tokens *auth.Service
}

func NewAuthenticator(tokens *auth.Service) *Authenticator {
	return &Authenticator{Tokens: tokens}
}

func (a *Authenticator) RequireCustomer(next http.Handler) http.Handler {
	return a.require(next, entity.TokenRoleCustomer)
}

func (a *Authenticator) RequireStaff(next http.Handler) http.Handler {
	return a.require(next, entity.TokenRoleStaff)
}

func (a *Authenticator) require(next http.Handler, role entity.TokenRole) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			unauthenticated(w, "not authenticated")
			return
		}

		token, err := a.Tokens.Verify(r.Context(), strings.TrimPrefix(header, "Bearer "))
		if errors.Is(err, auth.ErrTokenExpired) {
			unauthenticated(w, "token expired")
			return
		}
		if err != nil {
			unauthenticated(w, "invalid token")
			return
		}

		if token.Role != role {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "forbidden"})
			return
		}

		ctx := context.WithValue(r.Context(), tokenContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthenticated(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
