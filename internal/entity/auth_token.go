package entity

import "time"

type TokenRole string

const (
	TokenRoleCustomer TokenRole = "customer"
	TokenRoleStaff    TokenRole = "staff"
)

const (
	CustomerTokenTTL = 30 * 24 * time.Hour
	StaffTokenTTL    = 7 * 24 * time.Hour
)

// AuthToken is a server-side opaque bearer token. Subject is a user_id for
// customer tokens and an admin email for staff tokens.
type AuthToken struct {
	Token     string    `json:"-"`
	Subject   string    `json:"subject"`
	Role      TokenRole `json:"role"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (t *AuthToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// Admin is a staff login record. Password hashes are bcrypt.
type Admin struct {
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
