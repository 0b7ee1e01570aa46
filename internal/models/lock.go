package models

import "time"

// AppLock is a lease row used to elect the single instance running a background job
type AppLock struct {
	LockName   string    `gorm:"primaryKey;size:255"`
	InstanceID string    `gorm:"size:255;not null"`
	AcquiredAt time.Time `gorm:"not null"`
	ExpiresAt  time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for GORM
func (AppLock) TableName() string {
	return "app_locks"
}
