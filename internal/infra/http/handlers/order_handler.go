package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thelocaljewel/backend/internal/infra/database"
	"github.com/thelocaljewel/backend/internal/infra/http/middleware"
	"github.com/thelocaljewel/backend/internal/usecase"
)

type OrderHandler struct {
	QuoteOrder *usecase.QuoteOrderUseCase
	Orders     *database.OrderRepository
}

func NewOrderHandler(quoteOrder *usecase.QuoteOrderUseCase, orders *database.OrderRepository) *OrderHandler {
	return &OrderHandler{QuoteOrder: quoteOrder, Orders: orders}
}

type createOrderRequest struct {
	QuoteID string `json:"quote_id"`
	Notes   string `json:"notes"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSON(w)
		return
	}
	if req.QuoteID == "" {
		writeError(w, usecase.InvalidArgument("quote_id is required"))
		return
	}

	order, err := h.QuoteOrder.CreateOrder(r.Context(), req.QuoteID, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.RecordOrderCreated()
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1, 0)
	limit := queryInt(r, "limit", 20, 100)
	status := r.URL.Query().Get("status")

	orders, total, err := h.Orders.List(r.Context(), status, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"orders": orders,
		"total":  total,
		"page":   page,
		"pages":  pages,
	})
}

func (h *OrderHandler) Detail(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.FindByOrderID(r.Context(), chi.URLParam(r, "orderID"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, usecase.NotFound("order not found"))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch usecase.OrderPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		badJSON(w)
		return
	}

	if err := h.QuoteOrder.UpdateOrder(r.Context(), chi.URLParam(r, "orderID"), patch); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
