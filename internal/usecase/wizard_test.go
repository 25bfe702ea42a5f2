package usecase

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/thelocaljewel/backend/internal/entity"
)

func TestNewLeadID(t *testing.T) {
	id := NewLeadID()
	assert.True(t, strings.HasPrefix(id, "lead_"))
	assert.Len(t, id, len("lead_")+12)
	assert.NotEqual(t, id, NewLeadID())
}

func TestWizardStart(t *testing.T) {
	sessions := new(MockSessionRepository)
	uc := NewWizardUseCase(sessions, zap.NewNop())

	var created *entity.WizardSession
	sessions.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*entity.WizardSession)
	}).Return(nil)

	leadID, err := uc.Start(context.Background(), StartWizardInput{
		AnonymousID: "anon-1",
		SessionID:   "sess-1",
		Attribution: map[string]any{"utm_source": "google"},
	})

	assert.NoError(t, err)
	assert.Equal(t, created.LeadID, leadID)
	assert.Equal(t, entity.InitialWizardStep, created.CurrentStep)
	assert.Equal(t, map[string]any{}, created.Answers)
	assert.Nil(t, created.FrozenStepTotal)
	sessions.AssertExpectations(t)
}

func TestWizardAutosave(t *testing.T) {
	t.Run("nil answers become empty map", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		uc := NewWizardUseCase(sessions, zap.NewNop())

		sessions.On("Autosave", mock.Anything, "lead_abc", map[string]any{}, "screen_3", (*int)(nil)).Return(nil)

		err := uc.Autosave(context.Background(), "lead_abc", AutosaveInput{CurrentStep: "screen_3"})
		assert.NoError(t, err)
		sessions.AssertExpectations(t)
	})

	t.Run("unknown session is not found", func(t *testing.T) {
		sessions := new(MockSessionRepository)
		uc := NewWizardUseCase(sessions, zap.NewNop())

		sessions.On("Autosave", mock.Anything, "lead_missing", mock.Anything, mock.Anything, mock.Anything).
			Return(sql.ErrNoRows)

		err := uc.Autosave(context.Background(), "lead_missing", AutosaveInput{CurrentStep: "screen_2"})
		assert.True(t, IsNotFound(err))
	})
}

func TestWizardRestore(t *testing.T) {
	sessions := new(MockSessionRepository)
	uc := NewWizardUseCase(sessions, zap.NewNop())

	want := &entity.WizardSession{LeadID: "lead_abc", CurrentStep: "screen_4"}
	sessions.On("FindByLeadID", mock.Anything, "lead_abc").Return(want, nil)
	sessions.On("FindByLeadID", mock.Anything, "lead_gone").Return(nil, sql.ErrNoRows)

	got, err := uc.Restore(context.Background(), "lead_abc")
	assert.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = uc.Restore(context.Background(), "lead_gone")
	assert.True(t, IsNotFound(err))
}
