package entity

import "time"

// Canonical funnel-stage event names emitted by the wizard front-end. The
// analytics funnel only counts these; anything else is stored but not part of
// the funnel report.
var FunnelEventNames = []string{
	"tlj_landing_view",
	"tlj_wizard_start",
	"tlj_step_view",
	"tlj_step_complete",
	"tlj_value_reveal_view",
	"tlj_contact_submit_attempt",
	"tlj_lead_created",
}

// TrackedEventNames is the full set the tracking verification report covers.
var TrackedEventNames = []string{
	"tlj_landing_view",
	"tlj_wizard_start",
	"tlj_step_view",
	"tlj_step_complete",
	"tlj_step_back",
	"tlj_step_abandon",
	"tlj_value_reveal_view",
	"tlj_contact_submit_attempt",
	"tlj_lead_created",
	"tlj_file_upload_start",
	"tlj_file_upload_success",
	"tlj_file_upload_fail",
}

// Event is an append-only interaction record. ServerTimestamp is
// authoritative; Timestamp is whatever the client claimed.
type Event struct {
	ID              int64          `json:"-"`
	EventName       string         `json:"event_name"`
	EventData       map[string]any `json:"event_data,omitempty"`
	AnonymousID     string         `json:"anonymous_id,omitempty"`
	SessionID       string         `json:"session_id,omitempty"`
	LeadID          string         `json:"lead_id,omitempty"`
	Timestamp       string         `json:"timestamp,omitempty"`
	ServerTimestamp time.Time      `json:"server_timestamp"`
}
