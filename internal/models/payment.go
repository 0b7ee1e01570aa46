package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the stored state of a payment.
type PaymentStatus string

const (
	StatusPending   PaymentStatus = "pending"
	StatusConfirmed PaymentStatus = "confirmed"
	StatusCancelled PaymentStatus = "cancelled"
	StatusExpired   PaymentStatus = "expired"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// Workspace partitions reference data and payments.
type Workspace string

const (
	WorkspaceTestnet Workspace = "testnet"
	WorkspaceMainnet Workspace = "mainnet"
)

func (w Workspace) Valid() bool {
	return w == WorkspaceTestnet || w == WorkspaceMainnet
}

// ExpiryPolicy decides how expires_at is enforced.
type ExpiryPolicy string

const (
	// ExpiryNone ignores expires_at entirely.
	ExpiryNone ExpiryPolicy = "none"
	// ExpiryRead reports a pending payment past expires_at as expired and
	// refuses to confirm it. Nothing is written.
	ExpiryRead ExpiryPolicy = "read"
	// ExpirySweep behaves like ExpiryRead and additionally stores the
	// pending -> expired transition from a background sweeper.
	ExpirySweep ExpiryPolicy = "sweep"
)

func (p ExpiryPolicy) Valid() bool {
	return p == ExpiryNone || p == ExpiryRead || p == ExpirySweep
}

// Payment is a request for a specific amount of a specific token to be paid into a specific wallet.
type Payment struct {
	// ID is the public identifier, "pay_" followed by a UUID.
	ID string `json:"id" gorm:"column:id;primaryKey;size:64"`
	// Amount is the human decimal amount. Stored as text so no dialect rounds it.
	Amount decimal.Decimal `json:"amount" gorm:"column:amount;type:varchar(100);not null"`
	// CryptoTokenID references the token the payment is denominated in.
	CryptoTokenID string `json:"crypto_token_id" gorm:"column:crypto_token_id;size:64;not null;index"`
	// WalletID references the payee wallet.
	WalletID string `json:"wallet_id" gorm:"column:wallet_id;size:64;not null;index"`
	// UserID is the merchant owning the payment.
	UserID string `json:"user_id" gorm:"column:user_id;size:64;not null;index"`
	// Status is the stored state. See EffectiveStatus for the read-time view.
	Status PaymentStatus `json:"status" gorm:"column:status;size:16;not null;index"`

	Description string   `json:"description" gorm:"column:description;size:500"`
	Metadata    Metadata `json:"metadata,omitempty" gorm:"column:metadata;type:text"`
	CallbackURL *string  `json:"callback_url,omitempty" gorm:"column:callback_url"`
	CancelURL   *string  `json:"cancel_url,omitempty" gorm:"column:cancel_url"`

	ExpiresAt time.Time `json:"expires_at" gorm:"column:expires_at;not null;index"`

	// TransactionHash and PaymentAddress are set if and only if the payment is confirmed.
	TransactionHash *string `json:"transaction_hash" gorm:"column:transaction_hash;size:66;uniqueIndex"`
	PaymentAddress  *string `json:"payment_address" gorm:"column:payment_address;size:42"`

	PayerName  *string `json:"payer_name,omitempty" gorm:"column:payer_name"`
	PayerEmail *string `json:"payer_email,omitempty" gorm:"column:payer_email"`
	PayerPhone *string `json:"payer_phone,omitempty" gorm:"column:payer_phone"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty" gorm:"column:confirmed_at"`
	Workspace   Workspace  `json:"workspace" gorm:"column:workspace;size:16;not null;index"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"column:updated_at"`

	Wallet      *Wallet      `json:"wallet,omitempty" gorm:"foreignKey:WalletID"`
	CryptoToken *CryptoToken `json:"crypto_token,omitempty" gorm:"foreignKey:CryptoTokenID"`
}

// IsExpired reports whether now is past the payment's expiry.
func (p *Payment) IsExpired(now time.Time) bool {
	return !p.ExpiresAt.IsZero() && now.After(p.ExpiresAt)
}

// EffectiveStatus is the status as seen by readers under the given policy:
// a pending payment past its expiry reads as expired unless the policy is ExpiryNone.
func (p *Payment) EffectiveStatus(now time.Time, policy ExpiryPolicy) PaymentStatus {
	if p.Status == StatusPending && policy != ExpiryNone && p.IsExpired(now) {
		return StatusExpired
	}
	return p.Status
}

// PayerInfo carries optional payer contact details supplied at confirmation.
type PayerInfo struct {
	Name  *string `json:"payer_name,omitempty"`
	Email *string `json:"payer_email,omitempty"`
	Phone *string `json:"payer_phone,omitempty"`
}

// PaymentPatch is the set of columns a state transition writes.
// Nil fields are left untouched. Amount, token and wallet are deliberately absent.
type PaymentPatch struct {
	Status          PaymentStatus
	TransactionHash *string
	PaymentAddress  *string
	PayerName       *string
	PayerEmail      *string
	PayerPhone      *string
	ConfirmedAt     *time.Time
	UpdatedAt       time.Time
}

// Columns renders the patch as a gorm column map.
func (p PaymentPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{
		"status":     p.Status,
		"updated_at": p.UpdatedAt,
	}
	if p.TransactionHash != nil {
		cols["transaction_hash"] = *p.TransactionHash
	}
	if p.PaymentAddress != nil {
		cols["payment_address"] = *p.PaymentAddress
	}
	if p.PayerName != nil {
		cols["payer_name"] = *p.PayerName
	}
	if p.PayerEmail != nil {
		cols["payer_email"] = *p.PayerEmail
	}
	if p.PayerPhone != nil {
		cols["payer_phone"] = *p.PayerPhone
	}
	if p.ConfirmedAt != nil {
		cols["confirmed_at"] = *p.ConfirmedAt
	}
	return cols
}

// PaymentFilter narrows ListPayments.
type PaymentFilter struct {
	Workspace Workspace
	UserID    string
	Status    PaymentStatus
	WalletID  string
}

// PaymentPage is one page of a payment listing.
type PaymentPage struct {
	Payments   []*Payment `json:"payments"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}

// Metadata is a free-form JSON object attached to a payment.
type Metadata map[string]interface{}

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return string(b), nil
}

func (m *Metadata) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*m = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported metadata column type %T", value)
	}
	if len(raw) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(raw, m)
}
