package tokenmeta

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/kyro-pay/gateway/internal/models"
	"github.com/kyro-pay/gateway/pkg/logger"
)

// DefaultDecimals is used when neither the token configuration nor the chain provides a precision
const DefaultDecimals int32 = 18

// Source tells where a decimals value came from
type Source string

const (
	SourceConfigured Source = "configured"
	SourceCache      Source = "cache"
	SourceChain      Source = "chain"
	SourceDefault    Source = "default"
)

// Resolver resolves token precision: configured value, then cached on-chain value,
// then decimals() on the contract, then the default. Only successful on-chain reads are cached.
type Resolver struct {
	logger          *logger.Logger
	defaultDecimals int32
	cache           *expirable.LRU[string, int32]
}

func NewResolver(size int, ttl time.Duration, defaultDecimals int32, logger *logger.Logger) *Resolver {
	if size <= 0 {
		size = 1024
	}
	if defaultDecimals < 0 {
		defaultDecimals = DefaultDecimals
	}
	return &Resolver{
		logger:          logger,
		defaultDecimals: defaultDecimals,
		cache:           expirable.NewLRU[string, int32](size, nil, ttl),
	}
}

// Decimals returns the token precision. It never fails; failures fall back to the default.
func (r *Resolver) Decimals(ctx context.Context, client models.ChainClient, token *models.CryptoToken) int32 {
	decimals, _ := r.Lookup(ctx, client, token)
	return decimals
}

// Lookup is Decimals that also reports the source of the value
func (r *Resolver) Lookup(ctx context.Context, client models.ChainClient, token *models.CryptoToken) (int32, Source) {
	if token.Decimals != nil {
		return *token.Decimals, SourceConfigured
	}

	kind, err := token.Kind()
	if err != nil {
		r.logger.Warn("Invalid token contract address, using default decimals", "token", token.ID, "error", err)
		return r.defaultDecimals, SourceDefault
	}
	contract, ok := kind.(models.ContractToken)
	if !ok {
		return r.defaultDecimals, SourceDefault
	}

	key := cacheKey(token.BlockchainNetworkID, contract.Address.Hex())
	if decimals, ok := r.cache.Get(key); ok {
		return decimals, SourceCache
	}

	if client == nil {
		return r.defaultDecimals, SourceDefault
	}
	decimals, err := client.GetTokenDecimals(ctx, contract.Address)
	if err != nil {
		r.logger.Warn("Failed to read token decimals, using default",
			"token", token.ID, "contract", contract.Address.Hex(), "default", r.defaultDecimals, "error", err)
		return r.defaultDecimals, SourceDefault
	}

	r.cache.Add(key, decimals)
	r.logger.Debug("Token decimals cached", "token", token.ID, "contract", contract.Address.Hex(), "decimals", decimals)
	return decimals, SourceChain
}

func cacheKey(networkID, contract string) string {
	return networkID + ":" + strings.ToLower(contract)
}
