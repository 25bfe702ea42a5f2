package entity

import "time"

type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusViewed   QuoteStatus = "viewed"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
)

func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusViewed, QuoteStatusAccepted, QuoteStatusRejected:
		return true
	}
	return false
}

// Quote is a priced proposal against one lead. Items are stored as freeform
// documents; pricing structure is the admin UI's concern. SentAt/ViewedAt/
// AcceptedAt are stamped on the first transition into the matching status and
// never re-stamped on re-entry.
type Quote struct {
	QuoteID      string           `json:"quote_id"`
	LeadID       string           `json:"lead_id"`
	Items        []map[string]any `json:"items"`
	Total        float64          `json:"total"`
	Currency     string           `json:"currency"`
	Notes        string           `json:"notes,omitempty"`
	TemplateName string           `json:"template_name,omitempty"`
	Status       QuoteStatus      `json:"status"`
	SentAt       *time.Time       `json:"sent_at,omitempty"`
	ViewedAt     *time.Time       `json:"viewed_at,omitempty"`
	AcceptedAt   *time.Time       `json:"accepted_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
