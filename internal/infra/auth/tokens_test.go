package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/thelocaljewel/backend/internal/entity"
)

type memoryTokenStore struct {
	tokens map[string]*entity.AuthToken
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{tokens: map[string]*entity.AuthToken{}}
}

func (s *memoryTokenStore) Insert(ctx context.Context, t *entity.AuthToken) error {
	s.tokens[t.Token] = t
	return nil
}

func (s *memoryTokenStore) FindByToken(ctx context.Context, token string) (*entity.AuthToken, error) {
	t, ok := s.tokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return t, nil
}

func TestIssueAndVerify(t *testing.T) {
	store := newMemoryTokenStore()
	svc := NewService(store)
	ctx := context.Background()

	token, err := svc.Issue(ctx, "user_abc", entity.TokenRoleCustomer)
	assert.NoError(t, err)
	assert.Len(t, token, 64)

	record, err := svc.Verify(ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, "user_abc", record.Subject)
	assert.Equal(t, entity.TokenRoleCustomer, record.Role)
}

func TestTokenTTLByRole(t *testing.T) {
	store := newMemoryTokenStore()
	svc := NewService(store)
	ctx := context.Background()

	customer, _ := svc.Issue(ctx, "user_abc", entity.TokenRoleCustomer)
	staff, _ := svc.Issue(ctx, "admin@example.com", entity.TokenRoleStaff)

	c := store.tokens[customer]
	s := store.tokens[staff]
	assert.Equal(t, entity.CustomerTokenTTL, c.ExpiresAt.Sub(c.IssuedAt))
	assert.Equal(t, entity.StaffTokenTTL, s.ExpiresAt.Sub(s.IssuedAt))
}

func TestVerifyFailures(t *testing.T) {
	store := newMemoryTokenStore()
	svc := NewService(store)
	ctx := context.Background()

	_, err := svc.Verify(ctx, "")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.Verify(ctx, "never-issued")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	// Known but stale gets the distinct expired answer.
	store.tokens["stale"] = &entity.AuthToken{
		Token:     "stale",
		Subject:   "user_abc",
		Role:      entity.TokenRoleCustomer,
		IssuedAt:  time.Now().UTC().Add(-31 * 24 * time.Hour),
		ExpiresAt: time.Now().UTC().Add(-24 * time.Hour),
	}
	_, err = svc.Verify(ctx, "stale")
	assert.ErrorIs(t, err, ErrTokenExpired)
}
