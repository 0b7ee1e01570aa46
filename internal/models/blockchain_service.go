package models

//go:generate mockgen -destination=mocks/mock_chain.go -package=mocks . ChainClient,ChainClientProvider

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ChainTransaction is the subset of a transaction the verifier needs
type ChainTransaction struct {
	Hash common.Hash
	From common.Address
	// To is nil for contract creation
	To    *common.Address
	Value *big.Int
	// BlockHash is nil or all zeros while the transaction sits in the mempool
	BlockHash   *common.Hash
	BlockNumber *uint64
}

// IsMined reports whether the transaction is included in a block
func (t *ChainTransaction) IsMined() bool {
	return t.BlockHash != nil && *t.BlockHash != (common.Hash{})
}

// ChainReceipt is the subset of a transaction receipt the verifier needs
type ChainReceipt struct {
	TxHash common.Hash
	// Status is nil for pre-Byzantium receipts, which carry a state root instead
	Status      *uint64
	BlockNumber *uint64
	BlockHash   common.Hash
	Logs        []ChainLog
}

// Succeeded reports whether the receipt does not signal failure.
// A missing status is not a failure.
func (r *ChainReceipt) Succeeded() bool {
	return r.Status == nil || *r.Status != 0
}

// ChainLog is one event log entry of a receipt
type ChainLog struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
	Index   uint
	Removed bool
}

// ChainClient is a read-only capability over one network's RPC endpoint.
// Lookups of absent objects return TransactionNotFound / ReceiptUnavailable PaymentErrors,
// transport failures return NetworkError.
type ChainClient interface {
	GetTransaction(ctx context.Context, txHash common.Hash) (*ChainTransaction, error)
	GetTransactionReceipt(ctx context.Context, txHash common.Hash) (*ChainReceipt, error)
	// GetTokenDecimals calls decimals() on the contract. Any failure of the call itself
	// is reported as DecimalsUnavailable.
	GetTokenDecimals(ctx context.Context, contract common.Address) (int32, error)
	Close()
}

// ChainClientProvider hands out chain clients per network descriptor
type ChainClientProvider interface {
	ClientFor(ctx context.Context, network *BlockchainNetwork) (ChainClient, error)
	Close()
}
