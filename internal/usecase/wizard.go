package usecase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thelocaljewel/backend/internal/entity"
)

// NewLeadID allocates a fresh lead identifier. The 12-hex-char suffix comes
// from a v4 UUID, which makes collision with an existing session an insert
// constraint violation rather than something we check for up front.
func NewLeadID() string {
	return "lead_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}

type WizardUseCase struct {
	Sessions SessionRepository
	Logger   *zap.Logger
}

func NewWizardUseCase(sessions SessionRepository, logger *zap.Logger) *WizardUseCase {
	return &WizardUseCase{Sessions: sessions, Logger: logger}
}

// Start allocates a lead id and creates the session in its initial step with
// empty answers.
func (uc *WizardUseCase) Start(ctx context.Context, input StartWizardInput) (string, error) {
	session := &entity.WizardSession{
		LeadID:      NewLeadID(),
		AnonymousID: input.AnonymousID,
		SessionID:   input.SessionID,
		Attribution: input.Attribution,
		Answers:     map[string]any{},
		CurrentStep: entity.InitialWizardStep,
		StartedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := uc.Sessions.Create(ctx, session); err != nil {
		return "", fmt.Errorf("create wizard session: %w", err)
	}

	uc.Logger.Info("wizard session started",
		zap.String("lead_id", session.LeadID),
		zap.String("anonymous_id", session.AnonymousID))

	return session.LeadID, nil
}

// Autosave replaces the session's answers and current step wholesale. The
// frozen step total is only written when the client sends a non-null value;
// an autosave that omits it leaves the previously latched value in place.
func (uc *WizardUseCase) Autosave(ctx context.Context, leadID string, input AutosaveInput) error {
	answers := input.Answers
	if answers == nil {
		answers = map[string]any{}
	}

	err := uc.Sessions.Autosave(ctx, leadID, answers, input.CurrentStep, input.FrozenStepTotal)
	if errors.Is(err, sql.ErrNoRows) {
		return NotFound("session not found")
	}
	return err
}

// Restore returns the latest autosaved state for a session.
func (uc *WizardUseCase) Restore(ctx context.Context, leadID string) (*entity.WizardSession, error) {
	session, err := uc.Sessions.FindByLeadID(ctx, leadID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NotFound("session not found")
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}
