package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/thelocaljewel/backend/internal/entity"
)

type OTPRepository struct {
	DB *sql.DB
}

func NewOTPRepository(db *sql.DB) *OTPRepository {
	return &OTPRepository{DB: db}
}

// IssuedSince reports whether any code for the identifier was created at or
// after the given instant, used or not. Backs the 60-second issue throttle.
func (r *OTPRepository) IssuedSince(ctx context.Context, identifier string, since time.Time) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM otp_codes WHERE identifier = $1 AND created_at >= $2)`,
		identifier, since).Scan(&exists)
	return exists, err
}

func (r *OTPRepository) Insert(ctx context.Context, code *entity.OTPCode) error {
	query := `
		INSERT INTO otp_codes (identifier, otp_hash, user_id, created_at, expires_at, used)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		code.Identifier,
		code.OTPHash,
		code.UserID,
		code.CreatedAt,
		code.ExpiresAt,
		code.Used,
	).Scan(&code.ID)
}

// FindValid matches an unused, unexpired code by identifier and hash.
func (r *OTPRepository) FindValid(ctx context.Context, identifier, otpHash string, now time.Time) (*entity.OTPCode, error) {
	query := `
		SELECT id, identifier, otp_hash, user_id, created_at, expires_at, used
		FROM otp_codes
		WHERE identifier = $1 AND otp_hash = $2 AND used = FALSE AND expires_at >= $3
		ORDER BY created_at DESC
		LIMIT 1
	`
	var code entity.OTPCode
	err := r.DB.QueryRowContext(ctx, query, identifier, otpHash, now).Scan(
		&code.ID,
		&code.Identifier,
		&code.OTPHash,
		&code.UserID,
		&code.CreatedAt,
		&code.ExpiresAt,
		&code.Used,
	)
	if err != nil {
		return nil, err
	}
	return &code, nil
}

// MarkUsed burns a code with a compare-and-set on used. When a concurrent
// verification already flipped it, zero rows match and the caller sees
// sql.ErrNoRows; only one verification per code can ever win.
func (r *OTPRepository) MarkUsed(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE otp_codes SET used = TRUE WHERE id = $1 AND used = FALSE`, id)
	if err != nil {
		return err
	}
	return requireMatch(res)
}

// DeleteExpired purges codes past their expiry; the background sweeper owns
// the cadence.
func (r *OTPRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM otp_codes WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
