package database

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/thelocaljewel/backend/internal/entity"
	"github.com/thelocaljewel/backend/internal/usecase"
)

type OrderRepository struct {
	DB *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

const orderColumns = `
	order_id, lead_id, quote_id, notes, status,
	tracking_number, shipping_provider, shipping_url, created_at, updated_at
`

func (r *OrderRepository) Insert(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (
			order_id, lead_id, quote_id, notes, status,
			tracking_number, shipping_provider, shipping_url, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.DB.ExecContext(ctx, query,
		o.OrderID,
		o.LeadID,
		o.QuoteID,
		o.Notes,
		string(o.Status),
		o.TrackingNumber,
		o.ShippingProvider,
		o.ShippingURL,
		o.CreatedAt,
		o.UpdatedAt,
	)
	return err
}

func (r *OrderRepository) FindByOrderID(ctx context.Context, orderID string) (*entity.Order, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, orderID)
	return scanOrder(row)
}

func (r *OrderRepository) FindByQuoteID(ctx context.Context, quoteID string) (*entity.Order, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE quote_id = $1 ORDER BY created_at LIMIT 1`, quoteID)
	return scanOrder(row)
}

// Update applies a partial update; nil patch fields are left untouched.
func (r *OrderRepository) Update(ctx context.Context, orderID string, patch usecase.OrderPatch) error {
	set := []string{"updated_at = NOW()"}
	args := []any{orderID}
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, column+" = $"+strconv.Itoa(len(args)))
	}

	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.TrackingNumber != nil {
		add("tracking_number", *patch.TrackingNumber)
	}
	if patch.ShippingProvider != nil {
		add("shipping_provider", *patch.ShippingProvider)
	}
	if patch.ShippingURL != nil {
		add("shipping_url", *patch.ShippingURL)
	}

	query := `UPDATE orders SET ` + strings.Join(set, ", ") + ` WHERE order_id = $1`
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return requireMatch(res)
}

func (r *OrderRepository) List(ctx context.Context, status string, page, limit int) ([]entity.Order, int, error) {
	where := ""
	args := []any{}
	if status != "" {
		where = ` WHERE status = $1`
		args = append(args, status)
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + orderColumns + ` FROM orders` + where +
		` ORDER BY created_at DESC LIMIT ` + strconv.Itoa(limit) +
		` OFFSET ` + strconv.Itoa((page-1)*limit)

	orders, err := r.queryOrders(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrderRepository) ListByLeadID(ctx context.Context, leadID string) ([]entity.Order, error) {
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE lead_id = $1 ORDER BY created_at DESC`, leadID)
}

// ListByUserID joins through leads: orders carry no user link of their own.
func (r *OrderRepository) ListByUserID(ctx context.Context, userID string) ([]entity.Order, error) {
	query := `
		SELECT o.order_id, o.lead_id, o.quote_id, o.notes, o.status,
		       o.tracking_number, o.shipping_provider, o.shipping_url,
		       o.created_at, o.updated_at
		FROM orders o
		JOIN leads l ON l.lead_id = o.lead_id
		WHERE l.user_id = $1
		ORDER BY o.created_at DESC
	`
	return r.queryOrders(ctx, query, userID)
}

func (r *OrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]entity.Order, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []entity.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func scanOrder(row rowScanner) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(
		&o.OrderID,
		&o.LeadID,
		&o.QuoteID,
		&o.Notes,
		&o.Status,
		&o.TrackingNumber,
		&o.ShippingProvider,
		&o.ShippingURL,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
