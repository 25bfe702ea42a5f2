package entity

import "time"

type OrderStatus string

const (
	OrderStatusProcessing   OrderStatus = "processing"
	OrderStatusInProduction OrderStatus = "in_production"
	OrderStatusShipped      OrderStatus = "shipped"
	OrderStatusDelivered    OrderStatus = "delivered"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusProcessing, OrderStatusInProduction, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}

// Order is the fulfillment-tracked conversion of an accepted quote. Creating
// one forces the source quote to accepted and the lead to won. A quote backs
// at most one order.
type Order struct {
	OrderID          string      `json:"order_id"`
	LeadID           string      `json:"lead_id"`
	QuoteID          string      `json:"quote_id"`
	Notes            string      `json:"notes,omitempty"`
	Status           OrderStatus `json:"status"`
	TrackingNumber   string      `json:"tracking_number"`
	ShippingProvider string      `json:"shipping_provider"`
	ShippingURL      string      `json:"shipping_url"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}
