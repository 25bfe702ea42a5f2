package entity

import (
	"errors"
	"time"
)

// User is the deduplicated customer identity, decoupled from any single lead.
// At least one of Email or Phone must be set; each present field is unique
// across users. Created lazily on first lead submission.
type User struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	FirstName string    `json:"first_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Validate() error {
	if u.Email == "" && u.Phone == "" {
		return errors.New("user requires an email or a phone")
	}
	return nil
}
