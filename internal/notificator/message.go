package notificator

import (
	"fmt"
	"strings"

	"github.com/kyro-pay/gateway/internal/models"
)

func symbol(p *models.Payment) string {
	if p.CryptoToken != nil && p.CryptoToken.Symbol != "" {
		return p.CryptoToken.Symbol
	}
	return p.CryptoTokenID
}

// OperatorMessage is the one line summary sent to the operators' chat
func OperatorMessage(event *models.PaymentEvent) string {
	p := event.Payment
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %s %s", p.Workspace, event.Type, p.Amount.String(), symbol(p))
	fmt.Fprintf(&b, "\npayment: %s", p.ID)
	if p.TransactionHash != nil {
		fmt.Fprintf(&b, "\ntx: %s", *p.TransactionHash)
	}
	if p.PaymentAddress != nil {
		fmt.Fprintf(&b, "\nfrom: %s", *p.PaymentAddress)
	}
	return b.String()
}

// ReceiptEmail renders the payer's receipt for a confirmed payment
func ReceiptEmail(event *models.PaymentEvent) (subject, body string) {
	p := event.Payment
	subject = fmt.Sprintf("Payment received: %s %s", p.Amount.String(), symbol(p))

	var b strings.Builder
	if p.PayerName != nil && *p.PayerName != "" {
		fmt.Fprintf(&b, "Hello %s,\r\n\r\n", *p.PayerName)
	}
	fmt.Fprintf(&b, "Your payment of %s %s has been confirmed.\r\n\r\n", p.Amount.String(), symbol(p))
	fmt.Fprintf(&b, "Payment: %s\r\n", p.ID)
	if p.Description != "" {
		fmt.Fprintf(&b, "Description: %s\r\n", p.Description)
	}
	if p.TransactionHash != nil {
		fmt.Fprintf(&b, "Transaction: %s\r\n", *p.TransactionHash)
	}
	if p.ConfirmedAt != nil {
		fmt.Fprintf(&b, "Confirmed at: %s\r\n", p.ConfirmedAt.UTC().Format("2006-01-02 15:04:05 MST"))
	}
	return subject, b.String()
}
