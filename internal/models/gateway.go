package models

//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks . GatewayI

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CreatePaymentRequest is the merchant input for a new payment
type CreatePaymentRequest struct {
	UserID        string
	Workspace     Workspace
	Amount        decimal.Decimal
	CryptoTokenID string
	WalletID      string
	ExpiresAt     time.Time
	Description   string
	Metadata      Metadata
	CallbackURL   *string
	CancelURL     *string
}

// ConfirmPaymentRequest is a claim that TxHash, sent by SenderAddress, pays the payment
type ConfirmPaymentRequest struct {
	PaymentID     string
	SenderAddress string
	TxHash        string
	Payer         PayerInfo
	// UserID and Workspace scope the lookup for authenticated callers. Empty for public confirmation.
	UserID    string
	Workspace Workspace
}

type GatewayI interface {
	// Start starts background jobs (expiry sweeper)
	Start()
	// Stop stops background jobs and waits for in-flight notifications
	Stop()

	CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*Payment, error)
	// GetPayment returns the payment with its effective status. Empty userID skips the ownership check.
	GetPayment(ctx context.Context, id, userID string, workspace Workspace) (*Payment, error)
	ListPayments(ctx context.Context, filter PaymentFilter, page, limit int) (*PaymentPage, error)
	CancelPayment(ctx context.Context, id, userID string, workspace Workspace) (*Payment, error)
	// ConfirmPayment verifies the claimed transaction on-chain and confirms the payment
	ConfirmPayment(ctx context.Context, req *ConfirmPaymentRequest) (*Payment, error)
	// GetPaymentTransaction returns the transaction recorded when the payment was confirmed
	GetPaymentTransaction(ctx context.Context, id, userID string, workspace Workspace) (*Transaction, error)

	Ping(ctx context.Context) error
}

type APIServer interface {
	Start() error
	Shutdown(ctx context.Context) error
}
