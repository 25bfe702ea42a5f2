package entity

import "time"

// InitialWizardStep is the step every new session starts on.
const InitialWizardStep = "screen_1"

// WizardSession records a visitor's in-progress multi-step form state, keyed
// by a pre-allocated lead id. Autosave replaces the whole answer map; it never
// merges. FrozenStepTotal is a display-stability latch: once set it is only
// ever overwritten by a new non-null value, so the step count shown to the
// visitor cannot shrink.
type WizardSession struct {
	LeadID          string         `json:"lead_id"`
	AnonymousID     string         `json:"anonymous_id"`
	SessionID       string         `json:"session_id"`
	Attribution     map[string]any `json:"attribution,omitempty"`
	Answers         map[string]any `json:"answers"`
	CurrentStep     string         `json:"current_step"`
	FrozenStepTotal *int           `json:"frozen_step_total,omitempty"`
	StartedAt       time.Time      `json:"started_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty"`
}
