package models

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kyro-pay/gateway/pkg/validation"
)

// CryptoToken describes a fungible asset on one BlockchainNetwork
type CryptoToken struct {
	ID string `json:"id" gorm:"column:id;primaryKey;size:64"`
	// Name is the full name of the token
	Name string `json:"name" gorm:"column:name;size:255"`
	// Symbol is the short symbol of the token (e.g., ETH, USDC)
	Symbol              string `json:"symbol" gorm:"column:symbol;size:32;not null"`
	BlockchainNetworkID string `json:"blockchain_network_id" gorm:"column:blockchain_network_id;size:64;not null;index"`
	// Decimals is the configured precision. Nil means resolve on-chain, then fall back to the default.
	Decimals *int32 `json:"decimals" gorm:"column:decimals"`
	// ContractAddress is nil for the chain's native coin
	ContractAddress *string   `json:"contract_address" gorm:"column:contract_address;size:42"`
	IsActive        bool      `json:"is_active" gorm:"column:is_active;not null"`
	CreatedAt       time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"column:updated_at"`

	BlockchainNetwork *BlockchainNetwork `json:"blockchain_network,omitempty" gorm:"foreignKey:BlockchainNetworkID"`
}

// TokenKind tells the transfer extractor where a token's transfers are recorded.
// It is either NativeCoin or ContractToken.
type TokenKind interface {
	isTokenKind()
}

// NativeCoin is the chain's base asset, moved by the transaction value.
type NativeCoin struct{}

// ContractToken is an ERC20 style token, moved by Transfer event logs emitted by Address.
type ContractToken struct {
	Address common.Address
}

func (NativeCoin) isTokenKind()    {}
func (ContractToken) isTokenKind() {}

// Kind classifies the token. A malformed contract address is an error rather than a native coin.
func (t *CryptoToken) Kind() (TokenKind, error) {
	if t.ContractAddress == nil || *t.ContractAddress == "" {
		return NativeCoin{}, nil
	}
	if err := validation.ValidateAddress(*t.ContractAddress); err != nil {
		return nil, fmt.Errorf("token %s: %w", t.ID, err)
	}
	return ContractToken{Address: common.HexToAddress(*t.ContractAddress)}, nil
}
