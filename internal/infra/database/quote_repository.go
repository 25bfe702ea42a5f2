package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thelocaljewel/backend/internal/entity"
)

type QuoteRepository struct {
	DB *sql.DB
}

func NewQuoteRepository(db *sql.DB) *QuoteRepository {
	return &QuoteRepository{DB: db}
}

const quoteColumns = `
	quote_id, lead_id, items, total, currency, notes, template_name,
	status, sent_at, viewed_at, accepted_at, created_at, updated_at
`

func (r *QuoteRepository) Insert(ctx context.Context, q *entity.Quote) error {
	items, err := jsonbArray(q.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}

	query := `
		INSERT INTO quotes (
			quote_id, lead_id, items, total, currency, notes, template_name,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = r.DB.ExecContext(ctx, query,
		q.QuoteID,
		q.LeadID,
		items,
		q.Total,
		q.Currency,
		q.Notes,
		q.TemplateName,
		string(q.Status),
		q.CreatedAt,
		q.UpdatedAt,
	)
	return err
}

func (r *QuoteRepository) FindByQuoteID(ctx context.Context, quoteID string) (*entity.Quote, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+quoteColumns+` FROM quotes WHERE quote_id = $1`, quoteID)
	return scanQuote(row)
}

func (r *QuoteRepository) ListByLeadID(ctx context.Context, leadID string) ([]entity.Quote, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+quoteColumns+` FROM quotes WHERE lead_id = $1 ORDER BY created_at DESC`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quotes := []entity.Quote{}
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, *q)
	}
	return quotes, rows.Err()
}

// UpdateStatus sets the status and stamps the matching milestone timestamp
// only when it is still null, so re-entering a status never re-stamps.
func (r *QuoteRepository) UpdateStatus(ctx context.Context, quoteID string, status entity.QuoteStatus) error {
	query := `
		UPDATE quotes
		SET status = $2,
		    sent_at     = CASE WHEN $2 = 'sent'     AND sent_at     IS NULL THEN NOW() ELSE sent_at     END,
		    viewed_at   = CASE WHEN $2 = 'viewed'   AND viewed_at   IS NULL THEN NOW() ELSE viewed_at   END,
		    accepted_at = CASE WHEN $2 = 'accepted' AND accepted_at IS NULL THEN NOW() ELSE accepted_at END,
		    updated_at = NOW()
		WHERE quote_id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, quoteID, string(status))
	if err != nil {
		return err
	}
	return requireMatch(res)
}

func scanQuote(row rowScanner) (*entity.Quote, error) {
	var (
		q          entity.Quote
		items      []byte
		sentAt     sql.NullTime
		viewedAt   sql.NullTime
		acceptedAt sql.NullTime
	)
	err := row.Scan(
		&q.QuoteID,
		&q.LeadID,
		&items,
		&q.Total,
		&q.Currency,
		&q.Notes,
		&q.TemplateName,
		&q.Status,
		&sentAt,
		&viewedAt,
		&acceptedAt,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalJSONB(items, &q.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	if sentAt.Valid {
		q.SentAt = &sentAt.Time
	}
	if viewedAt.Valid {
		q.ViewedAt = &viewedAt.Time
	}
	if acceptedAt.Valid {
		q.AcceptedAt = &acceptedAt.Time
	}
	return &q, nil
}
