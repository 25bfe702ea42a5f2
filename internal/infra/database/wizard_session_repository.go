package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/thelocaljewel/backend/internal/entity"
)

type WizardSessionRepository struct {
	DB *sql.DB
}

func NewWizardSessionRepository(db *sql.DB) *WizardSessionRepository {
	return &WizardSessionRepository{DB: db}
}

func (r *WizardSessionRepository) Create(ctx context.Context, s *entity.WizardSession) error {
	attribution, err := jsonb(s.Attribution)
	if err != nil {
		return fmt.Errorf("encode attribution: %w", err)
	}
	answers, err := jsonb(s.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}

	query := `
		INSERT INTO wizard_sessions (
			lead_id, anonymous_id, session_id, attribution, answers,
			current_step, frozen_step_total, started_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.DB.ExecContext(ctx, query,
		s.LeadID,
		s.AnonymousID,
		s.SessionID,
		attribution,
		answers,
		s.CurrentStep,
		s.FrozenStepTotal,
		s.StartedAt,
		s.UpdatedAt,
	)
	return err
}

// autosaveSessionQuery carries the frozen_step_total latch: a NULL bind keeps
// the stored value, a non-null bind overwrites it.
const autosaveSessionQuery = `
	UPDATE wizard_sessions
	SET answers = $2,
	    current_step = $3,
	    frozen_step_total = COALESCE($4, frozen_step_total),
	    updated_at = NOW()
	WHERE lead_id = $1
`

// Autosave replaces answers and current_step wholesale. A nil
// frozenStepTotal leaves the latched value alone.
func (r *WizardSessionRepository) Autosave(ctx context.Context, leadID string, answers map[string]any, currentStep string, frozenStepTotal *int) error {
	encoded, err := jsonb(answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}

	res, err := r.DB.ExecContext(ctx, autosaveSessionQuery, leadID, encoded, currentStep, frozenStepTotal)
	if err != nil {
		return err
	}
	return requireMatch(res)
}

func (r *WizardSessionRepository) FindByLeadID(ctx context.Context, leadID string) (*entity.WizardSession, error) {
	query := `
		SELECT lead_id, anonymous_id, session_id, attribution, answers,
		       current_step, frozen_step_total, started_at, updated_at, completed_at
		FROM wizard_sessions
		WHERE lead_id = $1
	`

	var (
		s               entity.WizardSession
		attribution     []byte
		answers         []byte
		frozenStepTotal sql.NullInt64
		completedAt     sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, query, leadID).Scan(
		&s.LeadID,
		&s.AnonymousID,
		&s.SessionID,
		&attribution,
		&answers,
		&s.CurrentStep,
		&frozenStepTotal,
		&s.StartedAt,
		&s.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalJSONB(attribution, &s.Attribution); err != nil {
		return nil, fmt.Errorf("decode attribution: %w", err)
	}
	if err := unmarshalJSONB(answers, &s.Answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	if frozenStepTotal.Valid {
		v := int(frozenStepTotal.Int64)
		s.FrozenStepTotal = &v
	}
	if completedAt.Valid {
		t := completedAt.Time
		s.CompletedAt = &t
	}

	return &s, nil
}

func (r *WizardSessionRepository) MarkCompleted(ctx context.Context, leadID string, at time.Time) error {
	query := `UPDATE wizard_sessions SET completed_at = $2, updated_at = $2 WHERE lead_id = $1`
	res, err := r.DB.ExecContext(ctx, query, leadID, at)
	if err != nil {
		return err
	}
	return requireMatch(res)
}

// requireMatch turns a zero-row update into sql.ErrNoRows so callers get the
// same absent-row signal as from a query.
func requireMatch(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
