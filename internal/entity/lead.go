package entity

import (
	"time"
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQuoted    LeadStatus = "quoted"
	LeadStatusWon       LeadStatus = "won"
	LeadStatusLost      LeadStatus = "lost"
)

// Valid reports whether s is one of the five lead statuses. Any status is
// reachable from any other by explicit admin action; there is no transition
// graph beyond membership in the set.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQuoted, LeadStatusWon, LeadStatusLost:
		return true
	}
	return false
}

// Note is one entry of a lead's append-only internal note history.
type Note struct {
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// Lead is the durable record of a prospective customer's request. Its LeadID
// is shared with the wizard session it originated from. Resubmission with the
// same LeadID replaces the form-derived fields in place; Status and
// InternalNotes survive resubmission.
type Lead struct {
	LeadID    string `json:"lead_id"`
	FirstName string `json:"first_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Notes     string `json:"notes,omitempty"`

	// Flattened from the wizard answers by a fixed key mapping.
	ProductType       string   `json:"product_type,omitempty"`
	Occasion          string   `json:"occasion,omitempty"`
	Deadline          string   `json:"deadline,omitempty"`
	SettingStyle      string   `json:"setting_style,omitempty"`
	BraceletWristSize string   `json:"bracelet_wrist_size,omitempty"`
	BraceletMetal     string   `json:"bracelet_metal,omitempty"`
	DiamondShape      string   `json:"diamond_shape,omitempty"`
	CaratRange        string   `json:"carat_range,omitempty"`
	Priority          string   `json:"priority,omitempty"`
	Metal             string   `json:"metal,omitempty"`
	RingSizeKnown     string   `json:"ring_size_known,omitempty"`
	RingSize          string   `json:"ring_size,omitempty"`
	Budget            string   `json:"budget,omitempty"`
	HasInspiration    string   `json:"has_inspiration,omitempty"`
	InspirationLinks  []string `json:"inspiration_links,omitempty"`
	InspirationFiles  []string `json:"inspiration_files,omitempty"`

	Attribution   map[string]any `json:"attribution,omitempty"`
	Status        LeadStatus     `json:"status"`
	InternalNotes []Note         `json:"internal_notes,omitempty"`
	UserID        string         `json:"user_id,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// answerString coerces a freeform wizard answer to a string. Non-string
// values under a flattened key are ignored rather than rendered.
func answerString(answers map[string]any, key string) string {
	if v, ok := answers[key].(string); ok {
		return v
	}
	return ""
}

func answerStrings(answers map[string]any, key string) []string {
	switch v := answers[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// FlattenAnswers maps the whitelisted wizard answer keys onto the lead's
// derived attribute fields. Unknown keys stay in the raw answer map and are
// never interpreted here.
func (l *Lead) FlattenAnswers(answers map[string]any) {
	l.ProductType = answerString(answers, "product_type")
	l.Occasion = answerString(answers, "occasion")
	l.Deadline = answerString(answers, "deadline")
	l.SettingStyle = answerString(answers, "setting_style")
	l.BraceletWristSize = answerString(answers, "bracelet_wrist_size")
	l.BraceletMetal = answerString(answers, "bracelet_metal")
	l.DiamondShape = answerString(answers, "diamond_shape")
	l.CaratRange = answerString(answers, "carat_range")
	l.Priority = answerString(answers, "priority")
	l.Metal = answerString(answers, "metal")
	l.RingSizeKnown = answerString(answers, "ring_size_known")
	l.RingSize = answerString(answers, "ring_size")
	l.Budget = answerString(answers, "budget")
	l.HasInspiration = answerString(answers, "has_inspiration")
	l.InspirationLinks = answerStrings(answers, "inspiration_links")
	l.InspirationFiles = answerStrings(answers, "inspiration_files")
}
