package transfer

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyro-pay/gateway/internal/blockchain"
	"github.com/kyro-pay/gateway/internal/models"
)

var (
	payer    = common.HexToAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	payee    = common.HexToAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
	attacker = common.HexToAddress("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc")
	usdc     = common.HexToAddress("0x1c7d4b196cb0c7b01d743fbc6116a902379c7238")
	txHash   = common.HexToHash("0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060")
)

func addressTopic(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}

func transferLog(index uint, emitter, from, to common.Address, amount int64) models.ChainLog {
	return models.ChainLog{
		Address: emitter,
		Topics:  []common.Hash{blockchain.TransferEventTopic, addressTopic(from), addressTopic(to)},
		Data:    common.LeftPadBytes(big.NewInt(amount).Bytes(), 32),
		Index:   index,
	}
}

func TestAddressFromTopic(t *testing.T) {
	topic := common.HexToHash("0x00000000000000000000000070997970c51812dc3a010c7d01b50e0d17dc79c8")
	assert.Equal(t, payee, AddressFromTopic(topic))
}

func TestExtractNative(t *testing.T) {
	e := NewExtractor(SelectRecipient)
	value, _ := new(big.Int).SetString("500000000000000000", 10)
	tx := &models.ChainTransaction{Hash: txHash, From: payer, To: &payee, Value: value}

	transfer, err := e.Extract(tx, &models.ChainReceipt{}, models.NativeCoin{}, 18, payee)
	require.NoError(t, err)

	assert.Equal(t, payer, transfer.From)
	assert.Equal(t, payee, transfer.To)
	assert.Equal(t, "500000000000000000", transfer.Amount.String())
	assert.Equal(t, int32(18), transfer.Decimals)
	assert.Nil(t, transfer.LogIndex)

	value.SetInt64(1)
	assert.Equal(t, "500000000000000000", transfer.Amount.String(), "amount is copied")
}

func TestExtractNativeContractCreation(t *testing.T) {
	e := NewExtractor(SelectRecipient)
	tx := &models.ChainTransaction{Hash: txHash, From: payer, Value: big.NewInt(1)}

	transfer, err := e.Extract(tx, nil, models.NativeCoin{}, 18, payee)
	require.NoError(t, err)
	assert.Equal(t, common.Address{}, transfer.To)
}

func TestExtractToken(t *testing.T) {
	e := NewExtractor(SelectRecipient)
	tx := &models.ChainTransaction{Hash: txHash, From: payer, To: &usdc, Value: new(big.Int)}
	receipt := &models.ChainReceipt{Logs: []models.ChainLog{transferLog(0, usdc, payer, payee, 10000000)}}

	transfer, err := e.Extract(tx, receipt, models.ContractToken{Address: usdc}, 6, payee)
	require.NoError(t, err)

	assert.Equal(t, payer, transfer.From)
	assert.Equal(t, payee, transfer.To)
	assert.Equal(t, "10000000", transfer.Amount.String())
	assert.Equal(t, int32(6), transfer.Decimals)
	require.NotNil(t, transfer.LogIndex)
	assert.Equal(t, uint(0), *transfer.LogIndex)
}

func TestExtractTokenIgnoresNonQualifyingLogs(t *testing.T) {
	other := common.HexToAddress("0xdac17f958d2ee523a2206206994597c13d831ec7")

	erc721 := transferLog(0, usdc, payer, payee, 10000000)
	erc721.Topics = append(erc721.Topics, common.BigToHash(big.NewInt(7)))
	erc721.Data = nil

	removed := transferLog(1, usdc, payer, payee, 10000000)
	removed.Removed = true

	dirtyTopic := transferLog(2, usdc, payer, payee, 10000000)
	dirtyTopic.Topics[2][0] = 0xff

	approval := transferLog(3, usdc, payer, payee, 10000000)
	approval.Topics[0] = common.HexToHash("0x8c5be1e5ebec7d5bd14f71427d1e84f3dd0314c0f7b2291e5b200ac8c7c3b925")

	logs := []models.ChainLog{
		transferLog(4, other, payer, payee, 10000000),
		erc721,
		removed,
		dirtyTopic,
		approval,
	}
	e := NewExtractor(SelectRecipient)
	tx := &models.ChainTransaction{Hash: txHash, From: payer, To: &usdc}

	_, err := e.Extract(tx, &models.ChainReceipt{Logs: logs}, models.ContractToken{Address: usdc}, 6, payee)
	assert.ErrorIs(t, err, models.ErrNoTransferEvent)
}

func TestExtractTokenSelection(t *testing.T) {
	logs := []models.ChainLog{
		transferLog(0, usdc, payer, attacker, 1),
		transferLog(1, usdc, payer, payee, 10000000),
	}
	tx := &models.ChainTransaction{Hash: txHash, From: payer, To: &usdc}
	receipt := &models.ChainReceipt{Logs: logs}
	kind := models.ContractToken{Address: usdc}

	byRecipient, err := NewExtractor(SelectRecipient).Extract(tx, receipt, kind, 6, payee)
	require.NoError(t, err)
	assert.Equal(t, payee, byRecipient.To)
	assert.Equal(t, "10000000", byRecipient.Amount.String())

	first, err := NewExtractor(SelectFirst).Extract(tx, receipt, kind, 6, payee)
	require.NoError(t, err)
	assert.Equal(t, attacker, first.To)
}

func TestExtractTokenFallsBackToFirstQualifying(t *testing.T) {
	logs := []models.ChainLog{
		transferLog(0, usdc, payer, attacker, 5),
		transferLog(1, usdc, payer, attacker, 6),
	}
	tx := &models.ChainTransaction{Hash: txHash, From: payer, To: &usdc}

	transfer, err := NewExtractor(SelectRecipient).
		Extract(tx, &models.ChainReceipt{Logs: logs}, models.ContractToken{Address: usdc}, 6, payee)
	require.NoError(t, err)
	assert.Equal(t, attacker, transfer.To)
	assert.Equal(t, "5", transfer.Amount.String())
}
