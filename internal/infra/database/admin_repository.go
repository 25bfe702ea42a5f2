package database

import (
	"context"
	"database/sql"

	"github.com/thelocaljewel/backend/internal/entity"
)

type AdminRepository struct {
	DB *sql.DB
}

func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{DB: db}
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*entity.Admin, error) {
	var a entity.Admin
	err := r.DB.QueryRowContext(ctx,
		`SELECT email, password_hash, created_at FROM admins WHERE email = $1`, email).
		Scan(&a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
