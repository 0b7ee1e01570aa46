package blockchain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"golang.org/x/time/rate"

	"github.com/kyro-pay/gateway/internal/metrics"
	"github.com/kyro-pay/gateway/internal/models"
	"github.com/kyro-pay/gateway/pkg/logger"
)

// EVMClient is a read-only models.ChainClient over one network's JSON-RPC endpoint.
//
// Transactions and receipts are decoded into local structs instead of go-ethereum's
// types.Transaction so that sender recovery does not depend on the signer and
// unknown transaction types (L2 deposits, blob transactions) still decode.
type EVMClient struct {
	logger  *logger.Logger
	metrics metrics.Recorder
	network string
	timeout time.Duration
	limiter *rate.Limiter

	rpc *rpc.Client
	eth *ethclient.Client
}

type rpcTransaction struct {
	Hash        common.Hash     `json:"hash"`
	From        common.Address  `json:"from"`
	To          *common.Address `json:"to"`
	Value       *hexutil.Big    `json:"value"`
	BlockHash   *common.Hash    `json:"blockHash"`
	BlockNumber *hexutil.Uint64 `json:"blockNumber"`
}

type rpcReceipt struct {
	TransactionHash common.Hash     `json:"transactionHash"`
	Status          *hexutil.Uint64 `json:"status"`
	BlockNumber     *hexutil.Uint64 `json:"blockNumber"`
	BlockHash       common.Hash     `json:"blockHash"`
	Logs            []rpcLog        `json:"logs"`
}

type rpcLog struct {
	Address  common.Address `json:"address"`
	Topics   []common.Hash  `json:"topics"`
	Data     hexutil.Bytes  `json:"data"`
	LogIndex hexutil.Uint   `json:"logIndex"`
	Removed  bool           `json:"removed"`
}

// DialEVM connects to rpcURL. HTTP endpoints connect lazily, so an unreachable
// node surfaces on the first call as a NetworkError.
func DialEVM(ctx context.Context, rpcURL, network string, opts ClientOptions, logger *logger.Logger, recorder metrics.Recorder) (*EVMClient, error) {
	client, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the RPC server %s: %w", network, err)
	}
	return newEVMClient(client, network, opts, logger, recorder), nil
}

func newEVMClient(client *rpc.Client, network string, opts ClientOptions, logger *logger.Logger, recorder metrics.Recorder) *EVMClient {
	opts = opts.withDefaults()
	return &EVMClient{
		logger:  logger.With("network", network),
		metrics: recorder,
		network: network,
		timeout: opts.Timeout,
		limiter: rate.NewLimiter(opts.RateLimit, opts.RateBurst),
		rpc:     client,
		eth:     ethclient.NewClient(client),
	}
}

func (c *EVMClient) Close() {
	c.rpc.Close()
}

func (c *EVMClient) GetTransaction(ctx context.Context, txHash common.Hash) (*models.ChainTransaction, error) {
	var tx *rpcTransaction
	if err := c.call(ctx, "eth_getTransactionByHash", func(ctx context.Context) error {
		return c.rpc.CallContext(ctx, &tx, "eth_getTransactionByHash", txHash)
	}); err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, models.NewTransactionNotFound(txHash.Hex())
	}

	value := new(big.Int)
	if tx.Value != nil {
		value = tx.Value.ToInt()
	}
	result := &models.ChainTransaction{
		Hash:      tx.Hash,
		From:      tx.From,
		To:        tx.To,
		Value:     value,
		BlockHash: tx.BlockHash,
	}
	if tx.BlockNumber != nil {
		n := uint64(*tx.BlockNumber)
		result.BlockNumber = &n
	}
	return result, nil
}

func (c *EVMClient) GetTransactionReceipt(ctx context.Context, txHash common.Hash) (*models.ChainReceipt, error) {
	var receipt *rpcReceipt
	if err := c.call(ctx, "eth_getTransactionReceipt", func(ctx context.Context) error {
		return c.rpc.CallContext(ctx, &receipt, "eth_getTransactionReceipt", txHash)
	}); err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, models.NewReceiptUnavailable(txHash.Hex())
	}

	result := &models.ChainReceipt{
		TxHash:    receipt.TransactionHash,
		BlockHash: receipt.BlockHash,
		Logs:      make([]models.ChainLog, 0, len(receipt.Logs)),
	}
	if receipt.Status != nil {
		s := uint64(*receipt.Status)
		result.Status = &s
	}
	if receipt.BlockNumber != nil {
		n := uint64(*receipt.BlockNumber)
		result.BlockNumber = &n
	}
	for _, l := range receipt.Logs {
		result.Logs = append(result.Logs, models.ChainLog{
			Address: l.Address,
			Topics:  l.Topics,
			Data:    l.Data,
			Index:   uint(l.LogIndex),
			Removed: l.Removed,
		})
	}
	return result, nil
}

func (c *EVMClient) GetTokenDecimals(ctx context.Context, contract common.Address) (int32, error) {
	input, err := erc20ABI.Pack("decimals")
	if err != nil {
		return 0, models.NewInternal("failed to pack decimals call", err)
	}

	var output []byte
	err = c.call(ctx, "eth_call", func(ctx context.Context) error {
		var callErr error
		output, callErr = c.eth.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: input}, nil)
		return callErr
	})
	if err != nil {
		return 0, models.NewDecimalsUnavailable(contract.Hex(), err)
	}
	if len(output) == 0 {
		return 0, models.NewDecimalsUnavailable(contract.Hex(), errors.New("empty return data"))
	}

	values, err := erc20ABI.Unpack("decimals", output)
	if err != nil || len(values) != 1 {
		return 0, models.NewDecimalsUnavailable(contract.Hex(), fmt.Errorf("failed to unpack decimals: %v", err))
	}
	decimals, ok := values[0].(uint8)
	if !ok {
		return 0, models.NewDecimalsUnavailable(contract.Hex(), fmt.Errorf("unexpected decimals type %T", values[0]))
	}
	return int32(decimals), nil
}

// ChainID reads eth_chainId
func (c *EVMClient) ChainID(ctx context.Context) (*big.Int, error) {
	var id *big.Int
	err := c.call(ctx, "eth_chainId", func(ctx context.Context) error {
		var callErr error
		id, callErr = c.eth.ChainID(ctx)
		return callErr
	})
	return id, err
}

// call throttles, bounds and measures one RPC round trip. Transport and node
// errors come back as NetworkError. No retries are attempted.
func (c *EVMClient) call(ctx context.Context, method string, fn func(ctx context.Context) error) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return models.NewNetworkError(method, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	c.metrics.ObserveLatency(metrics.OpRPCCall, time.Since(start), map[string]string{metrics.LabelNetwork: c.network})

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.metrics.IncCounter(metrics.EventRPCCall, map[string]string{metrics.LabelNetwork: c.network, metrics.LabelKind: method + ":" + outcome})

	if err != nil {
		c.logger.Warn("RPC call failed", "method", method, "error", err)
		return models.NewNetworkError(method, err)
	}
	return nil
}
