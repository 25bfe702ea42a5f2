package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeadStatusValid(t *testing.T) {
	for _, s := range []LeadStatus{LeadStatusNew, LeadStatusContacted, LeadStatusQuoted, LeadStatusWon, LeadStatusLost} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, LeadStatus("archived").Valid())
	assert.False(t, LeadStatus("").Valid())
}

func TestFlattenAnswers(t *testing.T) {
	lead := &Lead{}
	lead.FlattenAnswers(map[string]any{
		"product_type":      "engagement_ring",
		"diamond_shape":     "oval",
		"budget":            "5k_10k",
		"ring_size":         7.5, // non-string values are dropped
		"inspiration_links": []any{"https://a.example", 42, "https://b.example"},
		"free_text_extra":   "kept only in the raw answers",
	})

	assert.Equal(t, "engagement_ring", lead.ProductType)
	assert.Equal(t, "oval", lead.DiamondShape)
	assert.Equal(t, "5k_10k", lead.Budget)
	assert.Equal(t, "", lead.RingSize)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, lead.InspirationLinks)
	assert.Nil(t, lead.InspirationFiles)
}

func TestUserValidate(t *testing.T) {
	assert.Error(t, (&User{}).Validate())
	assert.NoError(t, (&User{Email: "a@b.com"}).Validate())
	assert.NoError(t, (&User{Phone: "+15550001111"}).Validate())
}

func TestQuoteAndOrderStatusValid(t *testing.T) {
	assert.True(t, QuoteStatusAccepted.Valid())
	assert.False(t, QuoteStatus("paid").Valid())
	assert.True(t, OrderStatusInProduction.Valid())
	assert.False(t, OrderStatus("returned").Valid())
}
