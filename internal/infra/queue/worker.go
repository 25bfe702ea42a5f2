package queue

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/thelocaljewel/backend/internal/entity"
)

// Notifier delivers the new-lead alert; the SMTP sender implements it.
type Notifier interface {
	SendNewLeadAlert(payload LeadSubmittedPayload) error
}

// SettingsReader gates notification on the email_notify_new_lead toggle.
type SettingsReader interface {
	GetSite(ctx context.Context) (*entity.SiteSettings, error)
}

// Worker consumes lead-submitted messages and drives admin notification. It
// is decoupled from the write path: a failed notification never affects the
// lead itself.
type Worker struct {
	Channel  *amqp.Channel
	Notifier Notifier
	Settings SettingsReader
	Logger   *zap.Logger
}

func NewWorker(ch *amqp.Channel, notifier Notifier, settings SettingsReader, logger *zap.Logger) *Worker {
	return &Worker{Channel: ch, Notifier: notifier, Settings: settings, Logger: logger}
}

func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer tag
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	w.Logger.Info("notification worker started", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var payload LeadSubmittedPayload
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		w.Logger.Error("malformed notification message", zap.Error(err))
		// Malformed messages go to the DLQ, not back onto the queue.
		d.Nack(false, false)
		return
	}

	if err := w.process(ctx, payload); err != nil {
		w.Logger.Error("lead notification failed",
			zap.String("lead_id", payload.LeadID), zap.Error(err))
		d.Nack(false, false)
		return
	}
	d.Ack(false)
}

func (w *Worker) process(ctx context.Context, payload LeadSubmittedPayload) error {
	settings, err := w.Settings.GetSite(ctx)
	if err != nil {
		return err
	}
	if !settings.EmailNotifyNewLead {
		w.Logger.Debug("new-lead notification disabled", zap.String("lead_id", payload.LeadID))
		return nil
	}

	if err := w.Notifier.SendNewLeadAlert(payload); err != nil {
		return err
	}

	w.Logger.Info("new-lead alert sent", zap.String("lead_id", payload.LeadID))
	return nil
}
