package handlers

import (
	"net/http"
	"time"

	"github.com/thelocaljewel/backend/internal/infra/database"
	"github.com/thelocaljewel/backend/internal/usecase"
)

type AnalyticsHandler struct {
	Analytics *database.AnalyticsRepository
}

func NewAnalyticsHandler(analytics *database.AnalyticsRepository) *AnalyticsHandler {
	return &AnalyticsHandler{Analytics: analytics}
}

// windowSince resolves the ?days= query into a UTC cutoff, defaulting to the
// last 30 days and capping at a year.
func windowSince(r *http.Request) time.Time {
	days := queryInt(r, "days", 30, 365)
	return usecase.WindowStart(time.Now().UTC(), days)
}

func (h *AnalyticsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	report, err := h.Analytics.Overview(r.Context(),
		usecase.StartOfDay(now), usecase.StartOfWeek(now), usecase.StartOfMonth(now))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *AnalyticsHandler) Funnel(w http.ResponseWriter, r *http.Request) {
	report, err := h.Analytics.Funnel(r.Context(), windowSince(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *AnalyticsHandler) Sources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.Analytics.Sources(r.Context(), windowSince(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sources": sources})
}

func (h *AnalyticsHandler) Campaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.Analytics.Campaigns(r.Context(), windowSince(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"campaigns": campaigns})
}

func (h *AnalyticsHandler) Devices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.Analytics.Devices(r.Context(), windowSince(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"devices": devices})
}

func (h *AnalyticsHandler) Geo(w http.ResponseWriter, r *http.Request) {
	geo, err := h.Analytics.Geo(r.Context(), windowSince(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"countries": geo})
}

func (h *AnalyticsHandler) Abandonment(w http.ResponseWriter, r *http.Request) {
	report, err := h.Analytics.Abandonment(r.Context(), windowSince(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
