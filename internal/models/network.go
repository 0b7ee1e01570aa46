package models

import "time"

// BlockchainNetwork describes one chain reachable over JSON-RPC
type BlockchainNetwork struct {
	ID string `json:"id" gorm:"column:id;primaryKey;size:64"`
	// Name is a display name (e.g., "Ethereum Sepolia")
	Name string `json:"name" gorm:"column:name;size:255;not null"`
	// RPCURL is the JSON-RPC endpoint the chain client dials
	RPCURL string `json:"-" gorm:"column:rpc_url;not null"`
	// ChainID is the EIP-155 chain id
	ChainID   int64     `json:"chain_id" gorm:"column:chain_id;not null"`
	Workspace Workspace `json:"workspace" gorm:"column:workspace;size:16;not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}
