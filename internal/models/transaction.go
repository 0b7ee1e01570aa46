package models

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Transaction is the persisted record of the on-chain transfer that confirmed a payment
type Transaction struct {
	ID                  string    `json:"id" gorm:"column:id;primaryKey;size:64"`
	PaymentID           string    `json:"payment_id" gorm:"column:payment_id;size:64;not null;index"`
	Hash                string    `json:"hash" gorm:"column:hash;size:66;not null;uniqueIndex"`
	FromAddress         string    `json:"from_address" gorm:"column:from_address;size:42;not null"`
	ToAddress           string    `json:"to_address" gorm:"column:to_address;size:42;not null"`
	Amount              string    `json:"amount" gorm:"column:amount;type:varchar(100);not null"`
	Decimals            int32     `json:"decimals" gorm:"column:decimals;not null"`
	BlockNumber         uint64    `json:"block_number" gorm:"column:block_number"`
	BlockHash           string    `json:"block_hash" gorm:"column:block_hash;size:66"`
	BlockchainNetworkID string    `json:"blockchain_network_id" gorm:"column:blockchain_network_id;size:64;not null"`
	Workspace           Workspace `json:"workspace" gorm:"column:workspace;size:16;not null"`
	CreatedAt           time.Time `json:"created_at" gorm:"column:created_at"`

	// Network is attached on read, not stored
	Network *BlockchainNetwork `json:"blockchain_network,omitempty" gorm:"-"`
}

// Transfer is the canonical movement extracted from a transaction. It is never persisted as is.
type Transfer struct {
	From     common.Address
	To       common.Address
	Amount   *big.Int
	Decimals int32
	// LogIndex is set when the transfer was decoded from an event log
	LogIndex *uint
}

// VerificationResult is returned when a transaction satisfies a payment
type VerificationResult struct {
	TxHash        string
	SenderAddress string
	BlockNumber   *uint64
	BlockHash     string
	Transfer      Transfer
}
