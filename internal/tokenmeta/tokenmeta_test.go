package tokenmeta

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/kyro-pay/gateway/internal/models"
	"github.com/kyro-pay/gateway/internal/models/mocks"
	"github.com/kyro-pay/gateway/pkg/logger"
)

const usdc = "0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238"

func contractToken() *models.CryptoToken {
	addr := usdc
	return &models.CryptoToken{ID: "tok_usdc", BlockchainNetworkID: "net", ContractAddress: &addr}
}

func TestLookupConfigured(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockChainClient(ctrl)
	r := NewResolver(16, time.Hour, DefaultDecimals, logger.NewNop())

	six := int32(6)
	token := contractToken()
	token.Decimals = &six

	decimals, source := r.Lookup(context.Background(), client, token)
	assert.Equal(t, int32(6), decimals)
	assert.Equal(t, SourceConfigured, source)
}

func TestLookupNativeDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockChainClient(ctrl)
	r := NewResolver(16, time.Hour, DefaultDecimals, logger.NewNop())

	decimals, source := r.Lookup(context.Background(), client, &models.CryptoToken{ID: "tok_eth"})
	assert.Equal(t, int32(18), decimals)
	assert.Equal(t, SourceDefault, source)
}

func TestLookupChainThenCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockChainClient(ctrl)
	client.EXPECT().GetTokenDecimals(gomock.Any(), common.HexToAddress(usdc)).Return(int32(6), nil).Times(1)
	r := NewResolver(16, time.Hour, DefaultDecimals, logger.NewNop())

	decimals, source := r.Lookup(context.Background(), client, contractToken())
	assert.Equal(t, int32(6), decimals)
	assert.Equal(t, SourceChain, source)

	decimals, source = r.Lookup(context.Background(), client, contractToken())
	assert.Equal(t, int32(6), decimals)
	assert.Equal(t, SourceCache, source)
}

func TestLookupFallsBackWithoutCaching(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockChainClient(ctrl)
	client.EXPECT().
		GetTokenDecimals(gomock.Any(), gomock.Any()).
		Return(int32(0), models.NewDecimalsUnavailable(usdc, errors.New("execution reverted"))).
		Times(2)
	r := NewResolver(16, time.Hour, 18, logger.NewNop())

	for i := 0; i < 2; i++ {
		decimals, source := r.Lookup(context.Background(), client, contractToken())
		assert.Equal(t, int32(18), decimals)
		assert.Equal(t, SourceDefault, source)
	}
}

func TestCacheKeyIgnoresCase(t *testing.T) {
	assert.Equal(t, cacheKey("net", usdc), cacheKey("net", "0x1c7d4b196cb0c7b01d743fbc6116a902379c7238"))
	assert.NotEqual(t, cacheKey("net", usdc), cacheKey("other", usdc))
}
