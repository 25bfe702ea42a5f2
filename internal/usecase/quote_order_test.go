package usecase

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/thelocaljewel/backend/internal/entity"
)

func newQuoteOrderFixture() (*QuoteOrderUseCase, *MockLeadRepository, *MockQuoteRepository, *MockOrderRepository) {
	leads := new(MockLeadRepository)
	quotes := new(MockQuoteRepository)
	orders := new(MockOrderRepository)
	return NewQuoteOrderUseCase(leads, quotes, orders, zap.NewNop()), leads, quotes, orders
}

func TestCreateQuote(t *testing.T) {
	t.Run("unknown lead", func(t *testing.T) {
		uc, leads, _, _ := newQuoteOrderFixture()
		leads.On("FindByLeadID", mock.Anything, "lead_gone").Return(nil, sql.ErrNoRows)

		_, err := uc.CreateQuote(context.Background(), "lead_gone", CreateQuoteInput{})
		assert.True(t, IsNotFound(err))
	})

	t.Run("creates draft and cascades the lead to quoted", func(t *testing.T) {
		uc, leads, quotes, _ := newQuoteOrderFixture()
		leads.On("FindByLeadID", mock.Anything, "lead_1").Return(&entity.Lead{LeadID: "lead_1"}, nil)
		quotes.On("Insert", mock.Anything, mock.Anything).Return(nil)
		leads.On("UpdateStatus", mock.Anything, "lead_1", entity.LeadStatusQuoted).Return(nil)

		quote, err := uc.CreateQuote(context.Background(), "lead_1", CreateQuoteInput{Total: 4200})
		assert.NoError(t, err)
		assert.Equal(t, entity.QuoteStatusDraft, quote.Status)
		assert.Equal(t, "USD", quote.Currency)
		assert.NotNil(t, quote.Items)
		assert.Contains(t, quote.QuoteID, "q_")
		leads.AssertCalled(t, "UpdateStatus", mock.Anything, "lead_1", entity.LeadStatusQuoted)
	})
}

func TestUpdateQuoteStatus(t *testing.T) {
	uc, _, quotes, _ := newQuoteOrderFixture()

	err := uc.UpdateQuoteStatus(context.Background(), "q_1", "paid")
	assert.Equal(t, CodeInvalidArgument, CodeOf(err))

	quotes.On("UpdateStatus", mock.Anything, "q_1", entity.QuoteStatusSent).Return(nil)
	assert.NoError(t, uc.UpdateQuoteStatus(context.Background(), "q_1", entity.QuoteStatusSent))

	quotes.On("UpdateStatus", mock.Anything, "q_gone", entity.QuoteStatusSent).Return(sql.ErrNoRows)
	assert.True(t, IsNotFound(uc.UpdateQuoteStatus(context.Background(), "q_gone", entity.QuoteStatusSent)))
}

func TestCreateOrder(t *testing.T) {
	t.Run("unknown quote", func(t *testing.T) {
		uc, _, quotes, _ := newQuoteOrderFixture()
		quotes.On("FindByQuoteID", mock.Anything, "q_gone").Return(nil, sql.ErrNoRows)

		_, err := uc.CreateOrder(context.Background(), "q_gone", "")
		assert.True(t, IsNotFound(err))
	})

	t.Run("second order for the same quote conflicts", func(t *testing.T) {
		uc, _, quotes, orders := newQuoteOrderFixture()
		quotes.On("FindByQuoteID", mock.Anything, "q_1").
			Return(&entity.Quote{QuoteID: "q_1", LeadID: "lead_1"}, nil)
		orders.On("FindByQuoteID", mock.Anything, "q_1").
			Return(&entity.Order{OrderID: "ord_existing"}, nil)

		_, err := uc.CreateOrder(context.Background(), "q_1", "")
		assert.True(t, IsConflict(err))
	})

	t.Run("creates processing order and cascades quote and lead", func(t *testing.T) {
		uc, leads, quotes, orders := newQuoteOrderFixture()
		quotes.On("FindByQuoteID", mock.Anything, "q_1").
			Return(&entity.Quote{QuoteID: "q_1", LeadID: "lead_1"}, nil)
		orders.On("FindByQuoteID", mock.Anything, "q_1").Return(nil, sql.ErrNoRows)
		orders.On("Insert", mock.Anything, mock.Anything).Return(nil)
		quotes.On("UpdateStatus", mock.Anything, "q_1", entity.QuoteStatusAccepted).Return(nil)
		leads.On("UpdateStatus", mock.Anything, "lead_1", entity.LeadStatusWon).Return(nil)

		order, err := uc.CreateOrder(context.Background(), "q_1", "rush job")
		assert.NoError(t, err)
		assert.Equal(t, entity.OrderStatusProcessing, order.Status)
		assert.Equal(t, "lead_1", order.LeadID)
		assert.Contains(t, order.OrderID, "ord_")
		quotes.AssertCalled(t, "UpdateStatus", mock.Anything, "q_1", entity.QuoteStatusAccepted)
		leads.AssertCalled(t, "UpdateStatus", mock.Anything, "lead_1", entity.LeadStatusWon)
	})
}

func TestUpdateOrder(t *testing.T) {
	uc, _, _, orders := newQuoteOrderFixture()

	bad := "teleported"
	err := uc.UpdateOrder(context.Background(), "ord_1", OrderPatch{Status: &bad})
	assert.Equal(t, CodeInvalidArgument, CodeOf(err))

	shipped := string(entity.OrderStatusShipped)
	tracking := "1Z999"
	orders.On("Update", mock.Anything, "ord_1", OrderPatch{Status: &shipped, TrackingNumber: &tracking}).Return(nil)
	assert.NoError(t, uc.UpdateOrder(context.Background(), "ord_1", OrderPatch{Status: &shipped, TrackingNumber: &tracking}))

	orders.On("Update", mock.Anything, "ord_gone", mock.Anything).Return(sql.ErrNoRows)
	assert.True(t, IsNotFound(uc.UpdateOrder(context.Background(), "ord_gone", OrderPatch{})))
}
