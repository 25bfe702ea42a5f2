package usecase

import "github.com/thelocaljewel/backend/internal/entity"

type StartWizardInput struct {
	AnonymousID string         `json:"anonymous_id"`
	SessionID   string         `json:"session_id"`
	Attribution map[string]any `json:"attribution"`
}

type AutosaveInput struct {
	Answers         map[string]any `json:"answers"`
	CurrentStep     string         `json:"current_step"`
	FrozenStepTotal *int           `json:"frozen_step_total"`
}

type SubmitLeadInput struct {
	LeadID      string         `json:"lead_id"`
	FirstName   string         `json:"first_name"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	Notes       string         `json:"notes"`
	Answers     map[string]any `json:"answers"`
	Attribution map[string]any `json:"attribution"`

	// ClientIP is resolved server-side, never from the request body.
	ClientIP string `json:"-"`
}

type SubmitLeadOutput struct {
	Status    string `json:"status"`
	LeadID    string `json:"lead_id"`
	UserID    string `json:"user_id"`
	Token     string `json:"token"`
	FirstName string `json:"first_name"`
}

type VerifyOTPOutput struct {
	Status string       `json:"status"`
	Token  string       `json:"token"`
	User   *entity.User `json:"user"`
}

type CreateQuoteInput struct {
	Items        []map[string]any `json:"items"`
	Total        float64          `json:"total"`
	Currency     string           `json:"currency"`
	Notes        string           `json:"notes"`
	TemplateName string           `json:"template_name"`
}

// OrderPatch is a partial order update; nil fields are left untouched.
type OrderPatch struct {
	Status           *string `json:"status"`
	TrackingNumber   *string `json:"tracking_number"`
	ShippingProvider *string `json:"shipping_provider"`
	ShippingURL      *string `json:"shipping_url"`
}
