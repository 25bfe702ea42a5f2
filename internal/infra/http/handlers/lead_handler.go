package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/thelocaljewel/backend/internal/infra/http/middleware"
	"github.com/thelocaljewel/backend/internal/usecase"
)

type LeadHandler struct {
	Submit *usecase.SubmitLeadUseCase
}

func NewLeadHandler(submit *usecase.SubmitLeadUseCase) *LeadHandler {
	return &LeadHandler{Submit: submit}
}

func (h *LeadHandler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	var input usecase.SubmitLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		badJSON(w)
		return
	}
	input.ClientIP = getClientIP(r)

	output, err := h.Submit.Execute(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.RecordLeadSubmitted()
	writeJSON(w, http.StatusOK, output)
}
