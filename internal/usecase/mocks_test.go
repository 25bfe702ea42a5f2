package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/thelocaljewel/backend/internal/entity"
	"github.com/thelocaljewel/backend/internal/infra/queue"
)

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, s *entity.WizardSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) Autosave(ctx context.Context, leadID string, answers map[string]any, currentStep string, frozenStepTotal *int) error {
	args := m.Called(ctx, leadID, answers, currentStep, frozenStepTotal)
	return args.Error(0)
}

func (m *MockSessionRepository) FindByLeadID(ctx context.Context, leadID string) (*entity.WizardSession, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.WizardSession), args.Error(1)
}

func (m *MockSessionRepository) MarkCompleted(ctx context.Context, leadID string, at time.Time) error {
	args := m.Called(ctx, leadID, at)
	return args.Error(0)
}

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) SetUserID(ctx context.Context, leadID, userID string) error {
	args := m.Called(ctx, leadID, userID)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByLeadID(ctx context.Context, leadID string) (*entity.Lead, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, leadID string, status entity.LeadStatus) error {
	args := m.Called(ctx, leadID, status)
	return args.Error(0)
}

func (m *MockLeadRepository) AppendNote(ctx context.Context, leadID string, note entity.Note) error {
	args := m.Called(ctx, leadID, note)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByPhone(ctx context.Context, phone string) (*entity.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUserID(ctx context.Context, userID string) (*entity.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) SetPhone(ctx context.Context, userID, phone string) error {
	args := m.Called(ctx, userID, phone)
	return args.Error(0)
}

type MockOTPRepository struct {
	mock.Mock
}

func (m *MockOTPRepository) IssuedSince(ctx context.Context, identifier string, since time.Time) (bool, error) {
	args := m.Called(ctx, identifier, since)
	return args.Bool(0), args.Error(1)
}

func (m *MockOTPRepository) Insert(ctx context.Context, code *entity.OTPCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockOTPRepository) FindValid(ctx context.Context, identifier, otpHash string, now time.Time) (*entity.OTPCode, error) {
	args := m.Called(ctx, identifier, otpHash, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.OTPCode), args.Error(1)
}

func (m *MockOTPRepository) MarkUsed(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) Insert(ctx context.Context, q *entity.Quote) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuoteRepository) FindByQuoteID(ctx context.Context, quoteID string) (*entity.Quote, error) {
	args := m.Called(ctx, quoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Quote), args.Error(1)
}

func (m *MockQuoteRepository) UpdateStatus(ctx context.Context, quoteID string, status entity.QuoteStatus) error {
	args := m.Called(ctx, quoteID, status)
	return args.Error(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Insert(ctx context.Context, o *entity.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByOrderID(ctx context.Context, orderID string) (*entity.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByQuoteID(ctx context.Context, quoteID string) (*entity.Order, error) {
	args := m.Called(ctx, quoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, orderID string, patch OrderPatch) error {
	args := m.Called(ctx, orderID, patch)
	return args.Error(0)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(ctx context.Context, subject string, role entity.TokenRole) (string, error) {
	args := m.Called(ctx, subject, role)
	return args.String(0), args.Error(1)
}

type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishLeadSubmitted(ctx context.Context, payload queue.LeadSubmittedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
