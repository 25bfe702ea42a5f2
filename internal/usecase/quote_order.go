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

// QuoteOrderUseCase owns the quote/order state machines and their cascades
// back onto the lead. The cross-record side effects are not transactional:
// each write is an absolute set, applied child first, so a retry after a
// crash between writes converges to the same state.
type QuoteOrderUseCase struct {
	Leads  LeadRepository
	Quotes QuoteRepository
	Orders OrderRepository
	Logger *zap.Logger
}

func NewQuoteOrderUseCase(leads LeadRepository, quotes QuoteRepository, orders OrderRepository, logger *zap.Logger) *QuoteOrderUseCase {
	return &QuoteOrderUseCase{Leads: leads, Quotes: quotes, Orders: orders, Logger: logger}
}

// CreateQuote inserts a draft quote for an existing lead and forces the lead
// into quoted.
func (uc *QuoteOrderUseCase) CreateQuote(ctx context.Context, leadID string, input CreateQuoteInput) (*entity.Quote, error) {
	if _, err := uc.Leads.FindByLeadID(ctx, leadID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NotFound("lead not found")
		}
		return nil, fmt.Errorf("load lead: %w", err)
	}

	items := input.Items
	if items == nil {
		items = []map[string]any{}
	}
	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	now := time.Now().UTC()
	quote := &entity.Quote{
		QuoteID:      "q_" + shortID(10),
		LeadID:       leadID,
		Items:        items,
		Total:        input.Total,
		Currency:     currency,
		Notes:        input.Notes,
		TemplateName: input.TemplateName,
		Status:       entity.QuoteStatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.Quotes.Insert(ctx, quote); err != nil {
		return nil, fmt.Errorf("insert quote: %w", err)
	}

	if err := uc.Leads.UpdateStatus(ctx, leadID, entity.LeadStatusQuoted); err != nil {
		return nil, fmt.Errorf("mark lead quoted: %w", err)
	}

	uc.Logger.Info("quote created", zap.String("quote_id", quote.QuoteID), zap.String("lead_id", leadID))
	return quote, nil
}

// UpdateQuoteStatus moves a quote to any of the five statuses. The matching
// sent/viewed/accepted timestamp is stamped on the first transition only;
// passing the same status again is a no-op for the timestamp.
func (uc *QuoteOrderUseCase) UpdateQuoteStatus(ctx context.Context, quoteID string, status entity.QuoteStatus) error {
	if !status.Valid() {
		return InvalidArgument("status must be one of: draft, sent, viewed, accepted, rejected")
	}

	err := uc.Quotes.UpdateStatus(ctx, quoteID, status)
	if errors.Is(err, sql.ErrNoRows) {
		return NotFound("quote not found")
	}
	return err
}

// CreateOrder converts a quote into an order in processing, then forces the
// quote to accepted and the lead to won. A quote backs at most one order; a
// second call for the same quote is a conflict.
func (uc *QuoteOrderUseCase) CreateOrder(ctx context.Context, quoteID, notes string) (*entity.Order, error) {
	quote, err := uc.Quotes.FindByQuoteID(ctx, quoteID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NotFound("quote not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load quote: %w", err)
	}

	if _, err := uc.Orders.FindByQuoteID(ctx, quoteID); err == nil {
		return nil, Conflict("an order already exists for this quote")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check existing order: %w", err)
	}

	now := time.Now().UTC()
	order := &entity.Order{
		OrderID:   "ord_" + shortID(10),
		LeadID:    quote.LeadID,
		QuoteID:   quoteID,
		Notes:     notes,
		Status:    entity.OrderStatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.Orders.Insert(ctx, order); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	if err := uc.Quotes.UpdateStatus(ctx, quoteID, entity.QuoteStatusAccepted); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("mark quote accepted: %w", err)
	}
	if err := uc.Leads.UpdateStatus(ctx, quote.LeadID, entity.LeadStatusWon); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("mark lead won: %w", err)
	}

	uc.Logger.Info("order created",
		zap.String("order_id", order.OrderID),
		zap.String("quote_id", quoteID),
		zap.String("lead_id", quote.LeadID))
	return order, nil
}

// UpdateOrder applies a partial update; only provided fields are touched.
func (uc *QuoteOrderUseCase) UpdateOrder(ctx context.Context, orderID string, patch OrderPatch) error {
	if patch.Status != nil && !entity.OrderStatus(*patch.Status).Valid() {
		return InvalidArgument("status must be one of: processing, in_production, shipped, delivered")
	}

	err := uc.Orders.Update(ctx, orderID, patch)
	if errors.Is(err, sql.ErrNoRows) {
		return NotFound("order not found")
	}
	return err
}

func shortID(n int) string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:n]
}
