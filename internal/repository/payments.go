package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kyro-pay/gateway/internal/models"
)

func (db *DB) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if err := db.Conn.WithContext(ctx).Omit("Wallet", "CryptoToken").Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (db *DB) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	var payment models.Payment
	if err := db.Conn.WithContext(ctx).Where("id = ?", id).First(&payment).Error; err != nil {
		return nil, wrapNotFound(err, "failed to get payment")
	}
	return &payment, nil
}

func (db *DB) GetPaymentWithRelations(ctx context.Context, id string) (*models.Payment, error) {
	var payment models.Payment
	if err := db.Conn.WithContext(ctx).
		Preload("Wallet").
		Preload("CryptoToken").
		Preload("CryptoToken.BlockchainNetwork").
		Where("id = ?", id).
		First(&payment).Error; err != nil {
		return nil, wrapNotFound(err, "failed to get payment with relations")
	}
	return &payment, nil
}

func (db *DB) ListPayments(ctx context.Context, filter models.PaymentFilter, page, limit int) ([]*models.Payment, int64, error) {
	query := db.Conn.WithContext(ctx).Model(&models.Payment{}).Scopes(filterPayments(filter))

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	var payments []*models.Payment
	if err := query.Session(&gorm.Session{}).
		Preload("CryptoToken").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&payments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, total, nil
}

func filterPayments(filter models.PaymentFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if filter.Workspace != "" {
			q = q.Where("workspace = ?", filter.Workspace)
		}
		if filter.UserID != "" {
			q = q.Where("user_id = ?", filter.UserID)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.WalletID != "" {
			q = q.Where("wallet_id = ?", filter.WalletID)
		}
		return q
	}
}

func (db *DB) FindPaymentByTransactionHash(ctx context.Context, txHash string) (*models.Payment, error) {
	var payment models.Payment
	if err := db.Conn.WithContext(ctx).Where("transaction_hash = ?", txHash).First(&payment).Error; err != nil {
		return nil, wrapNotFound(err, "failed to find payment by transaction hash")
	}
	return &payment, nil
}

func (db *DB) ConditionallyUpdatePayment(ctx context.Context, id string, expected models.PaymentStatus, patch models.PaymentPatch) error {
	return conditionalUpdate(db.Conn.WithContext(ctx), id, expected, patch)
}

func (db *DB) ConfirmPayment(ctx context.Context, id string, unexpiredAt time.Time, patch models.PaymentPatch, record *models.Transaction) error {
	return db.Conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := tx
		if !unexpiredAt.IsZero() {
			scope = tx.Where("expires_at > ?", unexpiredAt.UTC())
		}
		if err := conditionalUpdate(scope, id, models.StatusPending, patch); err != nil {
			return err
		}
		if record == nil {
			return nil
		}
		if err := tx.Create(record).Error; err != nil {
			if isDuplicateKey(err) {
				return models.ErrDuplicateTxHash
			}
			return fmt.Errorf("failed to record transaction: %w", err)
		}
		return nil
	})
}

func (db *DB) FindOverduePayments(ctx context.Context, now time.Time, limit int) ([]string, error) {
	var ids []string
	if err := db.Conn.WithContext(ctx).
		Model(&models.Payment{}).
		Where("status = ? AND expires_at < ?", models.StatusPending, now.UTC()).
		Order("expires_at ASC").
		Limit(limit).
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to select overdue payments: %w", err)
	}
	return ids, nil
}

func (db *DB) GetTransactionByHash(ctx context.Context, hash string) (*models.Transaction, error) {
	var record models.Transaction
	if err := db.Conn.WithContext(ctx).Where("hash = ?", hash).First(&record).Error; err != nil {
		return nil, wrapNotFound(err, "failed to get transaction")
	}
	return &record, nil
}

// conditionalUpdate is the compare-and-swap on the status column. It is the
// only place a payment's status is written.
func conditionalUpdate(conn *gorm.DB, id string, expected models.PaymentStatus, patch models.PaymentPatch) error {
	if patch.UpdatedAt.IsZero() {
		patch.UpdatedAt = time.Now().UTC()
	}
	result := conn.Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(patch.Columns())
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return models.ErrDuplicateTxHash
		}
		return fmt.Errorf("failed to update payment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrStatusConflict
	}
	return nil
}

func wrapNotFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}
