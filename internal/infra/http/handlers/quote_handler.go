package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thelocaljewel/backend/internal/entity"
	"github.com/thelocaljewel/backend/internal/infra/database"
	"github.com/thelocaljewel/backend/internal/infra/http/middleware"
	"github.com/thelocaljewel/backend/internal/usecase"
)

type QuoteHandler struct {
	QuoteOrder *usecase.QuoteOrderUseCase
	Quotes     *database.QuoteRepository
}

func NewQuoteHandler(quoteOrder *usecase.QuoteOrderUseCase, quotes *database.QuoteRepository) *QuoteHandler {
	return &QuoteHandler{QuoteOrder: quoteOrder, Quotes: quotes}
}

func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateQuoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		badJSON(w)
		return
	}

	quote, err := h.QuoteOrder.CreateQuote(r.Context(), chi.URLParam(r, "leadID"), input)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.RecordQuoteCreated()
	writeJSON(w, http.StatusOK, quote)
}

func (h *QuoteHandler) ListByLead(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.Quotes.ListByLeadID(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"quotes": quotes})
}

type quoteStatusRequest struct {
	Status string `json:"status"`
}

func (h *QuoteHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req quoteStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSON(w)
		return
	}

	err := h.QuoteOrder.UpdateQuoteStatus(r.Context(), chi.URLParam(r, "quoteID"), entity.QuoteStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
