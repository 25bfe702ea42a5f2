package database

import (
	"context"
	"database/sql"

	"github.com/thelocaljewel/backend/internal/entity"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `user_id, email, phone, first_name, created_at`

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (user_id, email, phone, first_name, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.DB.ExecContext(ctx, query,
		u.UserID,
		nullString(u.Email),
		nullString(u.Phone),
		u.FirstName,
		u.CreatedAt,
	)
	return err
}

func (r *UserRepository) FindByPhone(ctx context.Context, phone string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE phone = $1`, phone)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// FindByIdentifier resolves a lowercased email or phone, either field.
func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	return r.findOne(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1 OR phone = $1`, identifier)
}

func (r *UserRepository) FindByUserID(ctx context.Context, userID string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, userID)
}

func (r *UserRepository) SetPhone(ctx context.Context, userID, phone string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET phone = $2 WHERE user_id = $1 AND (phone IS NULL OR phone = '')`,
		userID, phone)
	if err != nil {
		return err
	}
	// A user that already has a phone is simply left alone.
	_, err = res.RowsAffected()
	return err
}

func (r *UserRepository) findOne(ctx context.Context, query string, args ...any) (*entity.User, error) {
	var (
		u     entity.User
		email sql.NullString
		phone sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(
		&u.UserID, &email, &phone, &u.FirstName, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	u.Email = fromNullString(email)
	u.Phone = fromNullString(phone)
	return &u, nil
}
