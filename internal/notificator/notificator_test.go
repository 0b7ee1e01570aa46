package notificator

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyro-pay/gateway/internal/metrics"
	"github.com/kyro-pay/gateway/internal/models"
	"github.com/kyro-pay/gateway/pkg/logger"
)

func confirmedEvent(callbackURL string) *models.PaymentEvent {
	hash := "0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060"
	from := "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"
	email := "payer@example.com"
	name := "Alice"
	confirmedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := &models.Payment{
		ID:              "pay_1",
		Amount:          decimal.RequireFromString("10.5"),
		CryptoTokenID:   "tok_usdc",
		Status:          models.StatusConfirmed,
		Workspace:       models.WorkspaceTestnet,
		TransactionHash: &hash,
		PaymentAddress:  &from,
		PayerEmail:      &email,
		PayerName:       &name,
		ConfirmedAt:     &confirmedAt,
		CryptoToken:     &models.CryptoToken{ID: "tok_usdc", Symbol: "USDC"},
	}
	if callbackURL != "" {
		p.CallbackURL = &callbackURL
	}
	return &models.PaymentEvent{ID: "evt_1", Type: models.EventPaymentConfirmed, Payment: p, OccurredAt: confirmedAt}
}

func TestWebhookSignsBody(t *testing.T) {
	var (
		gotBody      []byte
		gotSignature string
		gotEvent     string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSignature = r.Header.Get(SignatureHeader)
		gotEvent = r.Header.Get(EventHeader)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	w := NewWebhookNotificator(logger.NewNop(), "whsec_test", time.Second)
	require.NoError(t, w.SendNotification(context.Background(), srv.URL, confirmedEvent(srv.URL)))

	assert.Equal(t, string(models.EventPaymentConfirmed), gotEvent)
	assert.True(t, Verify([]byte("whsec_test"), gotBody, gotSignature))
	assert.False(t, Verify([]byte("other"), gotBody, gotSignature))

	var payload WebhookPayload
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	assert.Equal(t, "evt_1", payload.ID)
	assert.Equal(t, "pay_1", payload.Data.Payment.ID)
	assert.Equal(t, "10.5", payload.Data.Payment.Amount.String())
}

func TestWebhookRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	w := NewWebhookNotificator(logger.NewNop(), "", time.Second)
	err := w.SendNotification(context.Background(), srv.URL, confirmedEvent(srv.URL))
	assert.ErrorContains(t, err, "status 500")
}

func TestSignKnownVector(t *testing.T) {
	// RFC 4231 test case 2
	assert.Equal(t,
		"5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843",
		Sign([]byte("Jefe"), []byte("what do ya want for nothing?")))
}

func TestEmailNotificator(t *testing.T) {
	e := NewEmailNotificator(logger.NewNop(), "smtp.example.com", 587, "user", "pass", "receipts@kyro.example")
	var (
		gotAddr string
		gotTo   []string
		gotMsg  string
	)
	e.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		return nil
	}

	subject, body := ReceiptEmail(confirmedEvent(""))
	require.NoError(t, e.SendNotification("payer@example.com", subject, body))

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"payer@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Payment received: 10.5 USDC\r\n")
	assert.Contains(t, gotMsg, "Hello Alice")
	assert.Contains(t, gotMsg, "Transaction: 0x5c504ed4")
}

func TestFanOutSurvivesFailures(t *testing.T) {
	var mu sync.Mutex
	var hits []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits = append(hits, r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	email := NewEmailNotificator(logger.NewNop(), "smtp.example.com", 587, "", "", "receipts@kyro.example")
	var mailed []string
	email.sendMail = func(_ string, _ smtp.Auth, _ string, to []string, _ []byte) error {
		mailed = append(mailed, to...)
		panic("smtp exploded")
	}

	n := NewNotificator(logger.NewNop(), metrics.NewNoopRecorder(),
		NewWebhookNotificator(logger.NewNop(), "secret", time.Second), nil, email)

	assert.NotPanics(t, func() {
		n.SendNotification(context.Background(), confirmedEvent(srv.URL+"/hooks/kyro"))
	})
	assert.Equal(t, []string{"/hooks/kyro"}, hits)
	assert.Equal(t, []string{"payer@example.com"}, mailed)
}

func TestNoEmailForCancellation(t *testing.T) {
	email := NewEmailNotificator(logger.NewNop(), "smtp.example.com", 587, "", "", "receipts@kyro.example")
	email.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("cancellation must not send a receipt")
		return nil
	}
	n := NewNotificator(logger.NewNop(), metrics.NewNoopRecorder(), nil, nil, email)

	event := confirmedEvent("")
	event.Type = models.EventPaymentCancelled
	n.SendNotification(context.Background(), event)
}

func TestOperatorMessage(t *testing.T) {
	msg := OperatorMessage(confirmedEvent(""))
	assert.True(t, strings.HasPrefix(msg, "[testnet] payment.confirmed: 10.5 USDC"))
	assert.Contains(t, msg, "from: 0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
}

func TestTelegramNotificator(t *testing.T) {
	var mu sync.Mutex
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		mu.Lock()
		methods = append(methods, method)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		switch method {
		case "getMe":
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"kyro","username":"kyro_bot"}}`))
		default:
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":1,"chat":{"id":42,"type":"private"}}}`))
		}
	}))
	defer srv.Close()

	tg, err := NewTelegramNotificator(logger.NewNop(), "123:abc", "42", bot.WithServerURL(srv.URL))
	require.NoError(t, err)
	require.NoError(t, tg.SendNotification(context.Background(), "hello"))

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, methods, "sendMessage")
}
