package models

import "time"

// Wallet is a merchant-provided payee address on one network type
type Wallet struct {
	ID            string    `json:"id" gorm:"column:id;primaryKey;size:64"`
	UserID        string    `json:"user_id" gorm:"column:user_id;size:64;not null;index"`
	Name          string    `json:"name" gorm:"column:name;size:255"`
	Address       string    `json:"address" gorm:"column:address;size:42;not null;index"`
	NetworkTypeID string    `json:"network_type_id" gorm:"column:network_type_id;size:64;not null"`
	Workspace     Workspace `json:"workspace" gorm:"column:workspace;size:16;not null;index"`
	CreatedAt     time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"column:updated_at"`
}
