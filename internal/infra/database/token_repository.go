package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/thelocaljewel/backend/internal/entity"
)

type TokenRepository struct {
	DB *sql.DB
}

func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

func (r *TokenRepository) Insert(ctx context.Context, t *entity.AuthToken) error {
	query := `
		INSERT INTO auth_tokens (token, subject, role, issued_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.DB.ExecContext(ctx, query,
		t.Token, t.Subject, string(t.Role), t.IssuedAt, t.ExpiresAt)
	return err
}

func (r *TokenRepository) FindByToken(ctx context.Context, token string) (*entity.AuthToken, error) {
	query := `SELECT token, subject, role, issued_at, expires_at FROM auth_tokens WHERE token = $1`

	var t entity.AuthToken
	err := r.DB.QueryRowContext(ctx, query, token).Scan(
		&t.Token, &t.Subject, &t.Role, &t.IssuedAt, &t.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteExpired purges tokens past their expiry; the background sweeper owns
// the cadence.
func (r *TokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM auth_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
