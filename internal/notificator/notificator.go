package notificator

import (
	"context"
	"runtime/debug"

	"github.com/kyro-pay/gateway/internal/metrics"
	"github.com/kyro-pay/gateway/internal/models"
	"github.com/kyro-pay/gateway/pkg/logger"
)

// Notificator fans a payment event out to the configured channels. Any channel
// may be nil. Failures are logged and counted, never returned.
type Notificator struct {
	logger  *logger.Logger
	metrics metrics.Recorder

	WebhookNotificator  *WebhookNotificator
	TelegramNotificator *TelegramNotificator
	EmailNotificator    *EmailNotificator
}

func NewNotificator(
	logger *logger.Logger,
	recorder metrics.Recorder,
	webhook *WebhookNotificator,
	telNotif *TelegramNotificator,
	emailNotif *EmailNotificator,
) *Notificator {
	return &Notificator{
		logger:              logger,
		metrics:             recorder,
		WebhookNotificator:  webhook,
		TelegramNotificator: telNotif,
		EmailNotificator:    emailNotif,
	}
}

// safeCall runs a function with panic recovery (synchronous, no goroutine spawning)
func (n *Notificator) safeCall(fn func() error, channel string, event *models.PaymentEvent) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("Function panicked",
				"context", channel,
				"panic", r,
				"stack", string(debug.Stack()))
			n.count(channel, "panic")
		}
	}()
	if err := fn(); err != nil {
		n.logger.Error("Failed to send notification",
			"channel", channel, "event", event.Type, "payment_id", event.Payment.ID, "error", err)
		n.count(channel, "error")
		return
	}
	n.logger.Debug("Notification sent", "channel", channel, "event", event.Type, "payment_id", event.Payment.ID)
	n.count(channel, "ok")
}

func (n *Notificator) count(channel, outcome string) {
	n.metrics.IncCounter(metrics.EventNotification, map[string]string{metrics.LabelKind: channel + ":" + outcome})
}

// SendNotification delivers the event synchronously on every applicable channel.
// The caller owns the goroutine.
func (n *Notificator) SendNotification(ctx context.Context, event *models.PaymentEvent) {
	if event == nil || event.Payment == nil {
		return
	}
	payment := event.Payment

	if n.WebhookNotificator != nil && payment.CallbackURL != nil && *payment.CallbackURL != "" {
		url := *payment.CallbackURL
		n.safeCall(func() error { return n.WebhookNotificator.SendNotification(ctx, url, event) }, "webhook", event)
	}

	if n.EmailNotificator != nil && event.Type == models.EventPaymentConfirmed &&
		payment.PayerEmail != nil && *payment.PayerEmail != "" {
		to := *payment.PayerEmail
		subject, body := ReceiptEmail(event)
		n.safeCall(func() error { return n.EmailNotificator.SendNotification(to, subject, body) }, "email", event)
	}

	if n.TelegramNotificator != nil {
		message := OperatorMessage(event)
		n.safeCall(func() error { return n.TelegramNotificator.SendNotification(ctx, message) }, "telegram", event)
	}
}
