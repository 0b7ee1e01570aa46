package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"github.com/kyro-pay/gateway/internal/models"
)

// AcquireLock inserts the lease row, or takes it over when it expired or is
// already ours. A conflicting live lease leaves the row untouched.
func (db *DB) AcquireLock(ctx context.Context, name, instanceID string, ttl time.Duration) error {
	now := time.Now().UTC()
	lock := models.AppLock{
		LockName:   name,
		InstanceID: instanceID,
		AcquiredAt: now,
		ExpiresAt:  now.Add(ttl),
	}
	result := db.Conn.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "lock_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"instance_id", "acquired_at", "expires_at"}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{
				SQL:  "app_locks.expires_at < ? OR app_locks.instance_id = ?",
				Vars: []interface{}{now, instanceID},
			},
		}},
	}).Create(&lock)
	if result.Error != nil {
		return fmt.Errorf("failed to acquire lock %s: %w", name, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrLockNotAcquired
	}
	return nil
}

func (db *DB) ReleaseLock(ctx context.Context, name, instanceID string) error {
	if err := db.Conn.WithContext(ctx).
		Where("lock_name = ? AND instance_id = ?", name, instanceID).
		Delete(&models.AppLock{}).Error; err != nil {
		return fmt.Errorf("failed to release lock %s: %w", name, err)
	}
	return nil
}
