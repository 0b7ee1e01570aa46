package models

//go:generate mockgen -destination=mocks/mock_notification.go -package=mocks . NotificationService

import (
	"context"
	"time"
)

type EventType string

const (
	EventPaymentConfirmed EventType = "payment.confirmed"
	EventPaymentCancelled EventType = "payment.cancelled"
	EventPaymentExpired   EventType = "payment.expired"
)

// PaymentEvent describes a stored state change of a payment
type PaymentEvent struct {
	ID          string       `json:"id"`
	Type        EventType    `json:"type"`
	Payment     *Payment     `json:"payment"`
	Transaction *Transaction `json:"transaction,omitempty"`
	OccurredAt  time.Time    `json:"occurred_at"`
}

type NotificationService interface {
	// SendNotification delivers the event on every configured channel.
	// Delivery failures are logged and never returned.
	SendNotification(ctx context.Context, event *PaymentEvent)
}
