package notificator

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kyro-pay/gateway/internal/models"
	"github.com/kyro-pay/gateway/pkg/logger"
)

const (
	SignatureHeader = "X-Kyro-Signature"
	EventHeader     = "X-Kyro-Event"
)

// WebhookNotificator POSTs payment events to the merchant's callback_url.
// The body is signed with HMAC-SHA256 over the raw JSON using the shared secret.
type WebhookNotificator struct {
	logger *logger.Logger
	client *http.Client
	secret []byte
}

// WebhookPayload is the JSON body delivered to callback URLs
type WebhookPayload struct {
	ID        string           `json:"id"`
	Type      models.EventType `json:"type"`
	CreatedAt time.Time        `json:"created_at"`
	Data      WebhookData      `json:"data"`
}

type WebhookData struct {
	Payment     *models.Payment     `json:"payment"`
	Transaction *models.Transaction `json:"transaction,omitempty"`
}

func NewWebhookNotificator(logger *logger.Logger, secret string, timeout time.Duration) *WebhookNotificator {
	return &WebhookNotificator{
		logger: logger,
		client: &http.Client{Timeout: timeout},
		secret: []byte(secret),
	}
}

func (w *WebhookNotificator) SendNotification(ctx context.Context, url string, event *models.PaymentEvent) error {
	body, err := json.Marshal(WebhookPayload{
		ID:        event.ID,
		Type:      event.Type,
		CreatedAt: event.OccurredAt,
		Data: WebhookData{
			Payment:     event.Payment,
			Transaction: event.Transaction,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "kyro-webhooks/1.0")
	req.Header.Set(EventHeader, string(event.Type))
	if len(w.secret) > 0 {
		req.Header.Set(SignatureHeader, Sign(w.secret, body))
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook %s answered with status %d", url, resp.StatusCode)
	}
	return nil
}

// Sign returns the hex encoded HMAC-SHA256 of body
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a signature produced by Sign in constant time
func Verify(secret, body []byte, signature string) bool {
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), expected)
}
