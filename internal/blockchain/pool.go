package blockchain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/kyro-pay/gateway/internal/metrics"
	"github.com/kyro-pay/gateway/internal/models"
	"github.com/kyro-pay/gateway/pkg/logger"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultRateLimit = 10
	defaultRateBurst = 20
)

// ClientOptions bound every RPC call made by a client
type ClientOptions struct {
	Timeout   time.Duration
	RateLimit rate.Limit
	RateBurst int
}

func (o ClientOptions) withDefaults() ClientOptions {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.RateLimit <= 0 {
		o.RateLimit = defaultRateLimit
	}
	if o.RateBurst <= 0 {
		o.RateBurst = defaultRateBurst
	}
	return o
}

// Pool is the models.ChainClientProvider: one client per network, dialed on first use
// and shared by all verifications on that network. A slow or dead endpoint only
// delays callers of that network.
type Pool struct {
	logger  *logger.Logger
	metrics metrics.Recorder
	opts    ClientOptions

	mu      sync.Mutex
	clients map[string]*EVMClient
	dials   singleflight.Group
}

func NewPool(opts ClientOptions, logger *logger.Logger, recorder metrics.Recorder) *Pool {
	return &Pool{
		logger:  logger,
		metrics: recorder,
		opts:    opts.withDefaults(),
		clients: make(map[string]*EVMClient),
	}
}

func (p *Pool) ClientFor(ctx context.Context, network *models.BlockchainNetwork) (models.ChainClient, error) {
	if network == nil || network.RPCURL == "" {
		return nil, models.NewInternal("network has no RPC endpoint", nil)
	}
	key := network.ID + "|" + network.RPCURL

	if client, ok := p.cached(key); ok {
		return client, nil
	}

	// concurrent first calls for one network share a single dial
	v, err, _ := p.dials.Do(key, func() (interface{}, error) {
		if client, ok := p.cached(key); ok {
			return client, nil
		}
		client, err := p.dial(ctx, network)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.clients[key] = client
		p.mu.Unlock()
		return client, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*EVMClient), nil
}

func (p *Pool) cached(key string) (*EVMClient, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	client, ok := p.clients[key]
	return client, ok
}

// dial connects and checks the endpoint serves the configured chain
func (p *Pool) dial(ctx context.Context, network *models.BlockchainNetwork) (*EVMClient, error) {
	client, err := DialEVM(ctx, network.RPCURL, network.Name, p.opts, p.logger, p.metrics)
	if err != nil {
		return nil, models.NewNetworkError("dial", err)
	}

	if network.ChainID != 0 {
		id, err := client.ChainID(ctx)
		if err != nil {
			client.Close()
			return nil, err
		}
		if id.Int64() != network.ChainID {
			client.Close()
			return nil, models.NewInternal(
				fmt.Sprintf("RPC endpoint of %s serves chain %s, expected %d", network.Name, id, network.ChainID), nil)
		}
	}

	p.logger.Info("Connected to chain", "network", network.Name, "chain_id", network.ChainID)
	return client, nil
}

func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, client := range p.clients {
		client.Close()
		delete(p.clients, key)
	}
}
