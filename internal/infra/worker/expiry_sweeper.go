package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/thelocaljewel/backend/internal/infra/database"
)

// ExpirySweeper periodically purges expired auth tokens and OTP codes. The
// verification paths already treat stale rows as absent; the sweeper only
// keeps the tables from growing without bound.
type ExpirySweeper struct {
	Tokens       *database.TokenRepository
	Codes        *database.OTPRepository
	TickInterval time.Duration
	Logger       *zap.Logger
}

func NewExpirySweeper(tokens *database.TokenRepository, codes *database.OTPRepository, logger *zap.Logger) *ExpirySweeper {
	return &ExpirySweeper{
		Tokens:       tokens,
		Codes:        codes,
		TickInterval: 10 * time.Minute,
		Logger:       logger,
	}
}

func (w *ExpirySweeper) Start(ctx context.Context) {
	w.Logger.Info("expiry sweeper started", zap.Duration("interval", w.TickInterval))

	ticker := time.NewTicker(w.TickInterval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("expiry sweeper stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpirySweeper) sweep(ctx context.Context) {
	now := time.Now().UTC()

	tokens, err := w.Tokens.DeleteExpired(ctx, now)
	if err != nil {
		w.Logger.Error("purge expired tokens", zap.Error(err))
	}

	codes, err := w.Codes.DeleteExpired(ctx, now)
	if err != nil {
		w.Logger.Error("purge expired otp codes", zap.Error(err))
	}

	if tokens > 0 || codes > 0 {
		w.Logger.Info("expired credentials purged",
			zap.Int64("tokens", tokens), zap.Int64("otp_codes", codes))
	}
}
