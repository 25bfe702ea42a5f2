package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfWeek(t *testing.T) {
	// 2026-08-26 is a Wednesday.
	wed := time.Date(2026, 8, 26, 15, 4, 5, 0, time.UTC)
	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, StartOfWeek(wed))

	// A Monday maps to its own midnight, not the previous week.
	assert.Equal(t, monday, StartOfWeek(monday.Add(10*time.Hour)))

	// Sunday still belongs to the week started the prior Monday.
	sun := time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, monday, StartOfWeek(sun))
}

func TestStartOfDayAndMonth(t *testing.T) {
	ts := time.Date(2026, 2, 14, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), StartOfDay(ts))
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), StartOfMonth(ts))
}

func TestAbandonmentRatePct(t *testing.T) {
	assert.Equal(t, 0.0, AbandonmentRatePct(0, 0))
	assert.Equal(t, 0.0, AbandonmentRatePct(5, 0))
	assert.Equal(t, 0.0, AbandonmentRatePct(10, 10))
	assert.Equal(t, 100.0, AbandonmentRatePct(0, 10))
	assert.Equal(t, 66.7, AbandonmentRatePct(1, 3))
	assert.Equal(t, 50.0, AbandonmentRatePct(5, 10))
}
