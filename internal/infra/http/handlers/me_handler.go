package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/thelocaljewel/backend/internal/infra/database"
	"github.com/thelocaljewel/backend/internal/infra/http/middleware"
	"github.com/thelocaljewel/backend/internal/usecase"
)

// MeHandler serves the authenticated customer dashboard.
type MeHandler struct {
	Users  *database.UserRepository
	Leads  *database.LeadRepository
	Orders *database.OrderRepository
}

func NewMeHandler(users *database.UserRepository, leads *database.LeadRepository, orders *database.OrderRepository) *MeHandler {
	return &MeHandler{Users: users, Leads: leads, Orders: orders}
}

func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.TokenFromContext(r.Context())
	if !ok {
		writeError(w, usecase.Unauthenticated("not authenticated"))
		return
	}

	user, err := h.Users.FindByUserID(r.Context(), token.Subject)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, usecase.Unauthenticated("user not found"))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *MeHandler) MyLeads(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.TokenFromContext(r.Context())
	if !ok {
		writeError(w, usecase.Unauthenticated("not authenticated"))
		return
	}

	leads, err := h.Leads.ListByUserID(r.Context(), token.Subject)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leads": leads})
}

func (h *MeHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.TokenFromContext(r.Context())
	if !ok {
		writeError(w, usecase.Unauthenticated("not authenticated"))
		return
	}

	orders, err := h.Orders.ListByUserID(r.Context(), token.Subject)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}
