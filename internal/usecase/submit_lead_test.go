package usecase

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/thelocaljewel/backend/internal/entity"
)

func newSubmitFixture() (*SubmitLeadUseCase, *MockLeadRepository, *MockUserRepository, *MockSessionRepository, *MockTokenIssuer, *MockQueueProducer) {
	leads := new(MockLeadRepository)
	users := new(MockUserRepository)
	sessions := new(MockSessionRepository)
	tokens := new(MockTokenIssuer)
	producer := new(MockQueueProducer)
	uc := NewSubmitLeadUseCase(leads, users, sessions, tokens, producer, zap.NewNop())
	return uc, leads, users, sessions, tokens, producer
}

func TestSubmitLeadValidation(t *testing.T) {
	uc, _, _, _, _, _ := newSubmitFixture()

	cases := []struct {
		name  string
		input SubmitLeadInput
	}{
		{"missing lead id", SubmitLeadInput{FirstName: "Ana", Email: "a@b.com"}},
		{"missing first name", SubmitLeadInput{LeadID: "lead_1", Email: "a@b.com"}},
		{"no contact info", SubmitLeadInput{LeadID: "lead_1", FirstName: "Ana"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tc.input)
			assert.Equal(t, CodeInvalidArgument, CodeOf(err))
		})
	}
}

func TestSubmitLeadCreatesUser(t *testing.T) {
	uc, leads, users, sessions, tokens, producer := newSubmitFixture()

	var upserted *entity.Lead
	leads.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		upserted = args.Get(1).(*entity.Lead)
	}).Return(nil)
	users.On("FindByPhone", mock.Anything, "+15551234567").Return(nil, sql.ErrNoRows)
	users.On("FindByEmail", mock.Anything, "ana@example.com").Return(nil, sql.ErrNoRows)

	var created *entity.User
	users.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*entity.User)
	}).Return(nil)
	leads.On("SetUserID", mock.Anything, "lead_1", mock.Anything).Return(nil)
	sessions.On("MarkCompleted", mock.Anything, "lead_1", mock.Anything).Return(nil)
	tokens.On("Issue", mock.Anything, mock.Anything, entity.TokenRoleCustomer).Return("tok-1", nil)
	producer.On("PublishLeadSubmitted", mock.Anything, mock.Anything).Return(nil)

	out, err := uc.Execute(context.Background(), SubmitLeadInput{
		LeadID:    "lead_1",
		FirstName: "Ana",
		Email:     "Ana@Example.com",
		Phone:     "+15551234567",
		Answers: map[string]any{
			"product_type": "engagement_ring",
			"budget":       "5k_10k",
		},
		ClientIP: "203.0.113.7",
	})

	assert.NoError(t, err)
	assert.Equal(t, "submitted", out.Status)
	assert.Equal(t, "tok-1", out.Token)
	assert.Equal(t, created.UserID, out.UserID)

	// Email is normalized, answers are flattened, the client IP lands in
	// attribution.
	assert.Equal(t, "ana@example.com", upserted.Email)
	assert.Equal(t, "engagement_ring", upserted.ProductType)
	assert.Equal(t, "5k_10k", upserted.Budget)
	assert.Equal(t, "203.0.113.7", upserted.Attribution["client_ip"])

	leads.AssertExpectations(t)
	users.AssertExpectations(t)
	tokens.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestSubmitLeadReusesExistingIdentity(t *testing.T) {
	uc, leads, users, sessions, tokens, producer := newSubmitFixture()

	existing := &entity.User{UserID: "user_abc", Phone: "+15551234567", Email: "old@example.com"}

	leads.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	users.On("FindByPhone", mock.Anything, "+15551234567").Return(existing, nil)
	leads.On("SetUserID", mock.Anything, "lead_2", "user_abc").Return(nil)
	sessions.On("MarkCompleted", mock.Anything, "lead_2", mock.Anything).Return(nil)
	tokens.On("Issue", mock.Anything, "user_abc", entity.TokenRoleCustomer).Return("tok-2", nil)
	producer.On("PublishLeadSubmitted", mock.Anything, mock.Anything).Return(nil)

	out, err := uc.Execute(context.Background(), SubmitLeadInput{
		LeadID:    "lead_2",
		FirstName: "Ana",
		Phone:     "+15551234567",
	})

	assert.NoError(t, err)
	assert.Equal(t, "user_abc", out.UserID)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitLeadBackfillsPhone(t *testing.T) {
	uc, leads, users, sessions, tokens, producer := newSubmitFixture()

	// Known by email only; the new submission carries a phone.
	existing := &entity.User{UserID: "user_abc", Email: "ana@example.com"}

	leads.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	users.On("FindByPhone", mock.Anything, "+15550001111").Return(nil, sql.ErrNoRows)
	users.On("FindByEmail", mock.Anything, "ana@example.com").Return(existing, nil)
	users.On("SetPhone", mock.Anything, "user_abc", "+15550001111").Return(nil)
	leads.On("SetUserID", mock.Anything, "lead_3", "user_abc").Return(nil)
	sessions.On("MarkCompleted", mock.Anything, "lead_3", mock.Anything).Return(nil)
	tokens.On("Issue", mock.Anything, "user_abc", entity.TokenRoleCustomer).Return("tok-3", nil)
	producer.On("PublishLeadSubmitted", mock.Anything, mock.Anything).Return(nil)

	_, err := uc.Execute(context.Background(), SubmitLeadInput{
		LeadID:    "lead_3",
		FirstName: "Ana",
		Email:     "ana@example.com",
		Phone:     "+15550001111",
	})

	assert.NoError(t, err)
	users.AssertCalled(t, "SetPhone", mock.Anything, "user_abc", "+15550001111")
}

func TestSubmitLeadConcurrentCreateConflict(t *testing.T) {
	uc, leads, users, sessions, tokens, producer := newSubmitFixture()

	winner := &entity.User{UserID: "user_winner", Email: "ana@example.com"}

	leads.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	// First lookup misses, the insert loses the race, the re-read finds the
	// winner's row.
	users.On("FindByEmail", mock.Anything, "ana@example.com").Return(nil, sql.ErrNoRows).Once()
	users.On("Create", mock.Anything, mock.Anything).Return(&pq.Error{Code: "23505"})
	users.On("FindByEmail", mock.Anything, "ana@example.com").Return(winner, nil).Once()
	leads.On("SetUserID", mock.Anything, "lead_4", "user_winner").Return(nil)
	sessions.On("MarkCompleted", mock.Anything, "lead_4", mock.Anything).Return(nil)
	tokens.On("Issue", mock.Anything, "user_winner", entity.TokenRoleCustomer).Return("tok-4", nil)
	producer.On("PublishLeadSubmitted", mock.Anything, mock.Anything).Return(nil)

	out, err := uc.Execute(context.Background(), SubmitLeadInput{
		LeadID:    "lead_4",
		FirstName: "Ana",
		Email:     "ana@example.com",
	})

	assert.NoError(t, err)
	assert.Equal(t, "user_winner", out.UserID)
}

func TestSubmitLeadPublishFailureIsNotFatal(t *testing.T) {
	uc, leads, users, sessions, tokens, producer := newSubmitFixture()

	existing := &entity.User{UserID: "user_abc", Email: "ana@example.com"}

	leads.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	users.On("FindByEmail", mock.Anything, "ana@example.com").Return(existing, nil)
	leads.On("SetUserID", mock.Anything, "lead_5", "user_abc").Return(nil)
	sessions.On("MarkCompleted", mock.Anything, "lead_5", mock.Anything).Return(nil)
	tokens.On("Issue", mock.Anything, "user_abc", entity.TokenRoleCustomer).Return("tok-5", nil)
	producer.On("PublishLeadSubmitted", mock.Anything, mock.Anything).Return(assert.AnError)

	out, err := uc.Execute(context.Background(), SubmitLeadInput{
		LeadID:    "lead_5",
		FirstName: "Ana",
		Email:     "ana@example.com",
	})

	assert.NoError(t, err)
	assert.Equal(t, "submitted", out.Status)
}
