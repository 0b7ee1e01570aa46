package transfer

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/kyro-pay/gateway/internal/blockchain"
	"github.com/kyro-pay/gateway/internal/models"
)

// Selection decides which Transfer log is used when a receipt holds several qualifying ones
type Selection string

const (
	// SelectRecipient prefers the first qualifying log paying the payee and
	// otherwise falls back to the first qualifying log.
	SelectRecipient Selection = "recipient"
	// SelectFirst always uses the first qualifying log in log order.
	SelectFirst Selection = "first"
)

func (s Selection) Valid() bool {
	return s == SelectRecipient || s == SelectFirst
}

// DecimalsResolver resolves a token's precision, falling back to a default on failure
type DecimalsResolver interface {
	Decimals(ctx context.Context, client models.ChainClient, token *models.CryptoToken) int32
}

// Extractor turns a transaction and its receipt into the canonical Transfer
type Extractor struct {
	selection Selection
}

func NewExtractor(selection Selection) *Extractor {
	if !selection.Valid() {
		selection = SelectRecipient
	}
	return &Extractor{selection: selection}
}

// Extract reads the transfer of kind out of tx and receipt. payee is only used to
// pick among several qualifying Transfer logs.
func (e *Extractor) Extract(
	tx *models.ChainTransaction,
	receipt *models.ChainReceipt,
	kind models.TokenKind,
	decimals int32,
	payee common.Address,
) (*models.Transfer, error) {
	switch k := kind.(type) {
	case models.NativeCoin:
		return nativeTransfer(tx, decimals), nil
	case models.ContractToken:
		return e.tokenTransfer(tx, receipt, k.Address, decimals, payee)
	default:
		return nil, models.NewInternal(fmt.Sprintf("unsupported token kind %T", kind), nil)
	}
}

func nativeTransfer(tx *models.ChainTransaction, decimals int32) *models.Transfer {
	transfer := &models.Transfer{
		From:     tx.From,
		Amount:   new(big.Int),
		Decimals: decimals,
	}
	// a contract creation has no recipient and leaves To as the zero address
	if tx.To != nil {
		transfer.To = *tx.To
	}
	if tx.Value != nil {
		transfer.Amount.Set(tx.Value)
	}
	return transfer
}

func (e *Extractor) tokenTransfer(
	tx *models.ChainTransaction,
	receipt *models.ChainReceipt,
	contract common.Address,
	decimals int32,
	payee common.Address,
) (*models.Transfer, error) {
	var selected *models.ChainLog
	for i := range receipt.Logs {
		log := &receipt.Logs[i]
		if !IsTransferLog(log, contract) {
			continue
		}
		if selected == nil {
			selected = log
			if e.selection == SelectFirst {
				break
			}
		}
		if AddressFromTopic(log.Topics[2]) == payee {
			selected = log
			break
		}
	}
	if selected == nil {
		return nil, models.NewNoTransferEvent(tx.Hash.Hex())
	}

	index := selected.Index
	return &models.Transfer{
		From:     AddressFromTopic(selected.Topics[1]),
		To:       AddressFromTopic(selected.Topics[2]),
		Amount:   new(big.Int).SetBytes(selected.Data),
		Decimals: decimals,
		LogIndex: &index,
	}, nil
}

// IsTransferLog reports whether log is a well formed ERC20 Transfer emitted by contract.
// ERC721 Transfer shares topic 0 but indexes the token id as a fourth topic and is rejected.
func IsTransferLog(log *models.ChainLog, contract common.Address) bool {
	if log.Removed || log.Address != contract {
		return false
	}
	if len(log.Topics) != 3 || log.Topics[0] != blockchain.TransferEventTopic {
		return false
	}
	if len(log.Data) != common.HashLength {
		return false
	}
	return isAddressTopic(log.Topics[1]) && isAddressTopic(log.Topics[2])
}

// AddressFromTopic returns the address held in the last 20 bytes of an indexed topic
func AddressFromTopic(topic common.Hash) common.Address {
	return common.BytesToAddress(topic[common.HashLength-common.AddressLength:])
}

// isAddressTopic reports whether the 12 padding bytes in front of the address are zero
func isAddressTopic(topic common.Hash) bool {
	for _, b := range topic[:common.HashLength-common.AddressLength] {
		if b != 0 {
			return false
		}
	}
	return true
}
