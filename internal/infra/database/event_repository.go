package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thelocaljewel/backend/internal/entity"
)

type EventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{DB: db}
}

// Insert appends one event. Events are never updated or deleted.
func (r *EventRepository) Insert(ctx context.Context, e *entity.Event) error {
	data, err := jsonb(e.EventData)
	if err != nil {
		return fmt.Errorf("encode event data: %w", err)
	}

	query := `
		INSERT INTO events (
			event_name, event_data, anonymous_id, session_id, lead_id,
			client_timestamp, server_timestamp
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.EventName,
		data,
		nullString(e.AnonymousID),
		nullString(e.SessionID),
		nullString(e.LeadID),
		nullString(e.Timestamp),
		e.ServerTimestamp,
	).Scan(&e.ID)
}
