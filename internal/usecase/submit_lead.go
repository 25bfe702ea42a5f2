package usecase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/thelocaljewel/backend/internal/entity"
	"github.com/thelocaljewel/backend/internal/infra/queue"
)

type SubmitLeadUseCase struct {
	Leads    LeadRepository
	Users    UserRepository
	Sessions SessionRepository
	Tokens   TokenIssuer
	Queue    QueueProducer
	Logger   *zap.Logger
}

func NewSubmitLeadUseCase(
	leads LeadRepository,
	users UserRepository,
	sessions SessionRepository,
	tokens TokenIssuer,
	producer QueueProducer,
	logger *zap.Logger,
) *SubmitLeadUseCase {
	return &SubmitLeadUseCase{
		Leads:    leads,
		Users:    users,
		Sessions: sessions,
		Tokens:   tokens,
		Queue:    producer,
		Logger:   logger,
	}
}

// Execute finalizes a wizard session into a durable lead. The whole flow is
// idempotent under retry with the same lead_id and contact info: the lead is
// upserted in place and identity resolution never creates a second user for
// a phone/email it has already seen.
func (uc *SubmitLeadUseCase) Execute(ctx context.Context, input SubmitLeadInput) (*SubmitLeadOutput, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	phone := strings.TrimSpace(input.Phone)

	if strings.TrimSpace(input.LeadID) == "" {
		return nil, InvalidArgument("lead_id is required")
	}
	if strings.TrimSpace(input.FirstName) == "" {
		return nil, InvalidArgument("first_name is required")
	}
	if email == "" && phone == "" {
		return nil, InvalidArgument("an email or a phone is required")
	}

	attribution := input.Attribution
	if attribution == nil {
		attribution = map[string]any{}
	}
	if input.ClientIP != "" {
		attribution["client_ip"] = input.ClientIP
	}

	now := time.Now().UTC()
	lead := &entity.Lead{
		LeadID:      input.LeadID,
		FirstName:   input.FirstName,
		Email:       email,
		Phone:       phone,
		Notes:       input.Notes,
		Attribution: attribution,
		Status:      entity.LeadStatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	lead.FlattenAnswers(input.Answers)

	if err := uc.Leads.Upsert(ctx, lead); err != nil {
		return nil, fmt.Errorf("upsert lead: %w", err)
	}

	user, err := uc.resolveIdentity(ctx, input.FirstName, email, phone)
	if err != nil {
		return nil, err
	}

	if err := uc.Leads.SetUserID(ctx, input.LeadID, user.UserID); err != nil {
		return nil, fmt.Errorf("link lead to user: %w", err)
	}

	// The session may be gone for leads submitted outside the wizard; that is
	// not an error.
	if err := uc.Sessions.MarkCompleted(ctx, input.LeadID, now); err != nil && !errors.Is(err, sql.ErrNoRows) {
		uc.Logger.Warn("mark session completed", zap.String("lead_id", input.LeadID), zap.Error(err))
	}

	token, err := uc.Tokens.Issue(ctx, user.UserID, entity.TokenRoleCustomer)
	if err != nil {
		return nil, fmt.Errorf("issue customer token: %w", err)
	}

	if uc.Queue != nil {
		payload := queue.LeadSubmittedPayload{
			LeadID:      input.LeadID,
			UserID:      user.UserID,
			FirstName:   input.FirstName,
			Email:       email,
			Phone:       phone,
			ProductType: lead.ProductType,
			Budget:      lead.Budget,
		}
		if err := uc.Queue.PublishLeadSubmitted(ctx, payload); err != nil {
			// Notification is best-effort; the lead is already durable.
			uc.Logger.Error("publish lead submitted", zap.String("lead_id", input.LeadID), zap.Error(err))
		}
	}

	uc.Logger.Info("lead submitted",
		zap.String("lead_id", input.LeadID),
		zap.String("user_id", user.UserID))

	return &SubmitLeadOutput{
		Status:    "submitted",
		LeadID:    input.LeadID,
		UserID:    user.UserID,
		Token:     token,
		FirstName: input.FirstName,
	}, nil
}

// resolveIdentity looks up an existing user by phone, then by email, and
// creates one only when both misses. A uniqueness violation on create means a
// concurrent submission won the insert; the loser re-reads instead of failing.
func (uc *SubmitLeadUseCase) resolveIdentity(ctx context.Context, firstName, email, phone string) (*entity.User, error) {
	user, err := uc.lookupIdentity(ctx, email, phone)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	if user != nil {
		// Backfill a phone the identity did not have yet.
		if phone != "" && user.Phone == "" {
			if err := uc.Users.SetPhone(ctx, user.UserID, phone); err != nil && !isUniqueViolation(err) {
				uc.Logger.Warn("backfill user phone", zap.String("user_id", user.UserID), zap.Error(err))
			}
		}
		return user, nil
	}

	created := &entity.User{
		UserID:    "user_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12],
		Email:     email,
		Phone:     phone,
		FirstName: firstName,
		CreatedAt: time.Now().UTC(),
	}
	if err := created.Validate(); err != nil {
		return nil, InvalidArgument(err.Error())
	}

	err = uc.Users.Create(ctx, created)
	if err == nil {
		return created, nil
	}
	if !isUniqueViolation(err) {
		return nil, fmt.Errorf("create user: %w", err)
	}

	user, err = uc.lookupIdentity(ctx, email, phone)
	if err != nil {
		return nil, fmt.Errorf("re-resolve identity after conflict: %w", err)
	}
	return user, nil
}

func (uc *SubmitLeadUseCase) lookupIdentity(ctx context.Context, email, phone string) (*entity.User, error) {
	if phone != "" {
		user, err := uc.Users.FindByPhone(ctx, phone)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}
	if email != "" {
		return uc.Users.FindByEmail(ctx, email)
	}
	return nil, sql.ErrNoRows
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
