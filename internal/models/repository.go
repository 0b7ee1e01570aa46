package models

import (
	"context"
	"time"
)

type Repository interface {
	CreatePayment(ctx context.Context, payment *Payment) error
	GetPayment(ctx context.Context, id string) (*Payment, error)
	// GetPaymentWithRelations loads the payment joined with its wallet, token and the token's network
	GetPaymentWithRelations(ctx context.Context, id string) (*Payment, error)
	ListPayments(ctx context.Context, filter PaymentFilter, page, limit int) ([]*Payment, int64, error)
	FindPaymentByTransactionHash(ctx context.Context, txHash string) (*Payment, error)

	// ConditionallyUpdatePayment applies patch only if the stored status equals expected.
	// It returns ErrStatusConflict when no row matched.
	ConditionallyUpdatePayment(ctx context.Context, id string, expected PaymentStatus, patch PaymentPatch) error
	// ConfirmPayment performs the pending -> confirmed conditional update and inserts record
	// in one database transaction. A non-zero unexpiredAt additionally requires expires_at
	// to be after it, otherwise ErrStatusConflict is returned.
	ConfirmPayment(ctx context.Context, id string, unexpiredAt time.Time, patch PaymentPatch, record *Transaction) error
	// FindOverduePayments returns up to limit ids of pending payments whose expiry is
	// before now, oldest first.
	FindOverduePayments(ctx context.Context, now time.Time, limit int) ([]string, error)

	GetWallet(ctx context.Context, id string) (*Wallet, error)
	UpsertWallet(ctx context.Context, wallet *Wallet) error
	GetCryptoToken(ctx context.Context, id string) (*CryptoToken, error)
	UpsertCryptoToken(ctx context.Context, token *CryptoToken) error
	GetBlockchainNetwork(ctx context.Context, id string) (*BlockchainNetwork, error)
	UpsertBlockchainNetwork(ctx context.Context, network *BlockchainNetwork) error
	GetTransactionByHash(ctx context.Context, hash string) (*Transaction, error)

	// AcquireLock takes or renews the named lease for instanceID. It returns ErrLockNotAcquired
	// while another instance holds an unexpired lease.
	AcquireLock(ctx context.Context, name, instanceID string, ttl time.Duration) error
	ReleaseLock(ctx context.Context, name, instanceID string) error

	Ping(ctx context.Context) error
	Close() error
}
