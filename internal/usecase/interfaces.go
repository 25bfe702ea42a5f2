package usecase

import (
	"context"
	"time"

	"github.com/thelocaljewel/backend/internal/entity"
	"github.com/thelocaljewel/backend/internal/infra/queue"
)

// Repositories report absent rows with database/sql.ErrNoRows; usecases
// translate that into the NOT_FOUND domain error at the boundary.

type SessionRepository interface {
	Create(ctx context.Context, s *entity.WizardSession) error
	Autosave(ctx context.Context, leadID string, answers map[string]any, currentStep string, frozenStepTotal *int) error
	FindByLeadID(ctx context.Context, leadID string) (*entity.WizardSession, error)
	MarkCompleted(ctx context.Context, leadID string, at time.Time) error
}

type LeadRepository interface {
	// Upsert replaces the form-derived fields of the lead row keyed by
	// LeadID; status, internal notes and created_at survive replacement.
	Upsert(ctx context.Context, lead *entity.Lead) error
	SetUserID(ctx context.Context, leadID, userID string) error
	FindByLeadID(ctx context.Context, leadID string) (*entity.Lead, error)
	UpdateStatus(ctx context.Context, leadID string, status entity.LeadStatus) error
	AppendNote(ctx context.Context, leadID string, note entity.Note) error
}

type UserRepository interface {
	FindByPhone(ctx context.Context, phone string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByIdentifier(ctx context.Context, identifier string) (*entity.User, error)
	FindByUserID(ctx context.Context, userID string) (*entity.User, error)
	Create(ctx context.Context, u *entity.User) error
	SetPhone(ctx context.Context, userID, phone string) error
}

type OTPRepository interface {
	IssuedSince(ctx context.Context, identifier string, since time.Time) (bool, error)
	Insert(ctx context.Context, code *entity.OTPCode) error
	FindValid(ctx context.Context, identifier, otpHash string, now time.Time) (*entity.OTPCode, error)
	MarkUsed(ctx context.Context, id int64) error
}

type QuoteRepository interface {
	Insert(ctx context.Context, q *entity.Quote) error
	FindByQuoteID(ctx context.Context, quoteID string) (*entity.Quote, error)
	UpdateStatus(ctx context.Context, quoteID string, status entity.QuoteStatus) error
}

type OrderRepository interface {
	Insert(ctx context.Context, o *entity.Order) error
	FindByOrderID(ctx context.Context, orderID string) (*entity.Order, error)
	FindByQuoteID(ctx context.Context, quoteID string) (*entity.Order, error)
	Update(ctx context.Context, orderID string, patch OrderPatch) error
}

// TokenIssuer mints opaque bearer tokens; verification lives with the issuer.
type TokenIssuer interface {
	Issue(ctx context.Context, subject string, role entity.TokenRole) (string, error)
}

type QueueProducer interface {
	PublishLeadSubmitted(ctx context.Context, payload queue.LeadSubmittedPayload) error
}
