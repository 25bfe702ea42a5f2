package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/thelocaljewel/backend/internal/entity"
	"github.com/thelocaljewel/backend/internal/infra/database"
	"github.com/thelocaljewel/backend/internal/infra/export"
	"github.com/thelocaljewel/backend/internal/infra/http/middleware"
	"github.com/thelocaljewel/backend/internal/usecase"
)

// AdminLeadHandler is the staff-facing lead CRM surface.
type AdminLeadHandler struct {
	Leads  *database.LeadRepository
	Quotes *database.QuoteRepository
	Orders *database.OrderRepository
}

func NewAdminLeadHandler(leads *database.LeadRepository, quotes *database.QuoteRepository, orders *database.OrderRepository) *AdminLeadHandler {
	return &AdminLeadHandler{Leads: leads, Quotes: quotes, Orders: orders}
}

func filtersFromQuery(r *http.Request) database.LeadFilters {
	q := r.URL.Query()
	return database.LeadFilters{
		Status:      q.Get("status"),
		ProductType: q.Get("product_type"),
		Budget:      q.Get("budget"),
		Source:      q.Get("source"),
		Search:      q.Get("search"),
		DateFrom:    parseDateFilter(q.Get("date_from")),
		DateTo:      parseDateFilter(q.Get("date_to")),
	}
}

func (h *AdminLeadHandler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1, 0)
	limit := queryInt(r, "limit", 25, 100)

	leads, total, err := h.Leads.List(r.Context(), filtersFromQuery(r), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"leads": leads,
		"total": total,
		"page":  page,
		"limit": limit,
		"pages": pages,
	})
}

func (h *AdminLeadHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Leads.ListAll(r.Context(), filtersFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=leads_export_%s.csv", time.Now().Format("20060102")))
	export.WriteCSV(w, leads)
}

func (h *AdminLeadHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Leads.ListAll(r.Context(), filtersFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=leads_export_%s.xlsx", time.Now().Format("20060102")))
	export.WriteXLSX(w, leads)
}

// Detail returns the lead with its quote and order history.
func (h *AdminLeadHandler) Detail(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	lead, err := h.Leads.FindByLeadID(r.Context(), leadID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, usecase.NotFound("lead not found"))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	quotes, err := h.Quotes.ListByLeadID(r.Context(), leadID)
	if err != nil {
		writeError(w, err)
		return
	}
	orders, err := h.Orders.ListByLeadID(r.Context(), leadID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"lead":   lead,
		"quotes": quotes,
		"orders": orders,
	})
}

type leadStatusRequest struct {
	Status string `json:"status"`
}

func (h *AdminLeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req leadStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSON(w)
		return
	}

	status := entity.LeadStatus(req.Status)
	if !status.Valid() {
		writeError(w, usecase.InvalidArgument("status must be one of: new, contacted, quoted, won, lost"))
		return
	}

	err := h.Leads.UpdateStatus(r.Context(), chi.URLParam(r, "leadID"), status)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, usecase.NotFound("lead not found"))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type noteRequest struct {
	Text string `json:"text"`
}

func (h *AdminLeadHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSON(w)
		return
	}

	author := ""
	if token, ok := middleware.TokenFromContext(r.Context()); ok {
		author = token.Subject
	}

	note := entity.Note{
		Text:      req.Text,
		Author:    author,
		CreatedAt: time.Now().UTC(),
	}

	err := h.Leads.AppendNote(r.Context(), chi.URLParam(r, "leadID"), note)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, usecase.NotFound("lead not found"))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "added", "note": note})
}
