package entity

import "time"

const (
	// OTPRateWindow is the minimum spacing between code issuances per identifier.
	OTPRateWindow = 60 * time.Second
	// OTPTTL is how long an issued code stays verifiable.
	OTPTTL = 10 * time.Minute
)

// OTPCode stores the one-way hash of an issued one-time code, never the code
// itself. A code is single-use: Used flips on first successful verification
// and the record can never match again.
type OTPCode struct {
	ID         int64     `json:"-"`
	Identifier string    `json:"identifier"`
	OTPHash    string    `json:"-"`
	UserID     string    `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	Used       bool      `json:"used"`
}
