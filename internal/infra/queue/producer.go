package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// LeadSubmittedPayload is the message published after every successful lead
// submission; the notification worker consumes it.
type LeadSubmittedPayload struct {
	LeadID      string `json:"lead_id"`
	UserID      string `json:"user_id"`
	FirstName   string `json:"first_name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	ProductType string `json:"product_type,omitempty"`
	Budget      string `json:"budget,omitempty"`
}

type RabbitMQProducer struct {
	Ch *amqp.Channel
}

func NewProducer(ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishLeadSubmitted(ctx context.Context, payload LeadSubmittedPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish lead submitted: %w", err)
	}
	return nil
}
