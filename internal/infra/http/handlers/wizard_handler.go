package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thelocaljewel/backend/internal/usecase"
)

type WizardHandler struct {
	Wizard *usecase.WizardUseCase
}

func NewWizardHandler(wizard *usecase.WizardUseCase) *WizardHandler {
	return &WizardHandler{Wizard: wizard}
}

func (h *WizardHandler) Start(w http.ResponseWriter, r *http.Request) {
	var input usecase.StartWizardInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		badJSON(w)
		return
	}

	leadID, err := h.Wizard.Start(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"lead_id": leadID,
		"status":  "started",
	})
}

func (h *WizardHandler) Autosave(w http.ResponseWriter, r *http.Request) {
	var input usecase.AutosaveInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		badJSON(w)
		return
	}

	if err := h.Wizard.Autosave(r.Context(), chi.URLParam(r, "leadID"), input); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (h *WizardHandler) Restore(w http.ResponseWriter, r *http.Request) {
	session, err := h.Wizard.Restore(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}
