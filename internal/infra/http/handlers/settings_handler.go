package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/thelocaljewel/backend/internal/infra/database"
)

type SettingsHandler struct {
	Settings  *database.SettingsRepository
	Analytics *database.AnalyticsRepository
}

func NewSettingsHandler(settings *database.SettingsRepository, analytics *database.AnalyticsRepository) *SettingsHandler {
	return &SettingsHandler{Settings: settings, Analytics: analytics}
}

// Public serves the unauthenticated subset consumed by the storefront.
func (h *SettingsHandler) Public(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.GetSite(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings.Public())
}

func (h *SettingsHandler) GetSite(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.GetSite(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) UpdateSite(w http.ResponseWriter, r *http.Request) {
	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		badJSON(w)
		return
	}

	settings, err := h.Settings.UpdateSite(r.Context(), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) GetTracking(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.GetTracking(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) UpdateTracking(w http.ResponseWriter, r *http.Request) {
	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		badJSON(w)
		return
	}

	settings, err := h.Settings.UpdateTracking(r.Context(), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// VerifyTracking reports per tracked event how many have been stored and when
// the last one arrived, so a pixel setup can be checked end to end.
func (h *SettingsHandler) VerifyTracking(w http.ResponseWriter, r *http.Request) {
	verification, err := h.Analytics.TrackingVerification(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": verification})
}
