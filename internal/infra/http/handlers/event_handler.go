package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/thelocaljewel/backend/internal/entity"
	"github.com/thelocaljewel/backend/internal/infra/database"
	"github.com/thelocaljewel/backend/internal/infra/http/middleware"
)

type EventHandler struct {
	Events *database.EventRepository
	Logger *zap.Logger
}

func NewEventHandler(events *database.EventRepository, logger *zap.Logger) *EventHandler {
	return &EventHandler{Events: events, Logger: logger}
}

type eventRequest struct {
	EventName   string         `json:"event_name"`
	EventData   map[string]any `json:"event_data"`
	AnonymousID string         `json:"anonymous_id"`
	SessionID   string         `json:"session_id"`
	LeadID      string         `json:"lead_id"`
	Timestamp   string         `json:"timestamp"`
}

// LogEvent appends one interaction event. The server timestamp is stamped
// here and is the one analytics trusts.
func (h *EventHandler) LogEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badJSON(w)
		return
	}
	if req.EventName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "event_name is required"})
		return
	}

	now := time.Now().UTC()
	clientTimestamp := req.Timestamp
	if clientTimestamp == "" {
		clientTimestamp = now.Format(time.RFC3339)
	}

	event := &entity.Event{
		EventName:       req.EventName,
		EventData:       req.EventData,
		AnonymousID:     req.AnonymousID,
		SessionID:       req.SessionID,
		LeadID:          req.LeadID,
		Timestamp:       clientTimestamp,
		ServerTimestamp: now,
	}

	if err := h.Events.Insert(r.Context(), event); err != nil {
		h.Logger.Error("store event", zap.String("event_name", req.EventName), zap.Error(err))
		writeError(w, err)
		return
	}

	middleware.RecordEventLogged()
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged"})
}
