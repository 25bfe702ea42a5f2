package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/thelocaljewel/backend/internal/entity"
)

// Verification failures are distinct: an expired token is a different answer
// than one we have never issued.
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

type TokenStore interface {
	Insert(ctx context.Context, t *entity.AuthToken) error
	FindByToken(ctx context.Context, token string) (*entity.AuthToken, error)
}

// Service mints and verifies opaque bearer tokens backed by the token store.
type Service struct {
	Store TokenStore
}

func NewService(store TokenStore) *Service {
	return &Service{Store: store}
}

// Issue creates a random 256-bit token for the subject. Customer tokens live
// 30 days, staff tokens 7.
func (s *Service) Issue(ctx context.Context, subject string, role entity.TokenRole) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	token := hex.EncodeToString(raw)

	ttl := entity.CustomerTokenTTL
	if role == entity.TokenRoleStaff {
		ttl = entity.StaffTokenTTL
	}

	now := time.Now().UTC()
	record := &entity.AuthToken{
		Token:     token,
		Subject:   subject,
		Role:      role,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.Store.Insert(ctx, record); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return token, nil
}

// Verify resolves a presented token, failing with ErrTokenInvalid for unknown
// tokens and ErrTokenExpired for known-but-stale ones.
func (s *Service) Verify(ctx context.Context, token string) (*entity.AuthToken, error) {
	if token == "" {
		return nil, ErrTokenInvalid
	}

	record, err := s.Store.FindByToken(ctx, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTokenInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("look up token: %w", err)
	}

	if record.Expired(time.Now().UTC()) {
		return nil, ErrTokenExpired
	}
	return record, nil
}
