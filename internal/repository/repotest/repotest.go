// Package repotest provides an in-memory SQLite repository with reference data for tests.
package repotest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/kyro-pay/gateway/internal/models"
	"github.com/kyro-pay/gateway/internal/repository"
	"github.com/kyro-pay/gateway/pkg/logger"
)

const (
	NetworkID     = "net_sepolia"
	NativeTokenID = "tok_eth"
	USDCTokenID   = "tok_usdc"
	WalletID      = "wal_merchant"
	UserID        = "usr_merchant"

	WalletAddress = "0x70997970c51812dc3a010c7d01b50e0d17dc79c8"
	PayerAddress  = "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"
	USDCAddress   = "0x1c7d4b196cb0c7b01d743fbc6116a902379c7238"
)

// NewDB opens a private in-memory database and closes it when the test ends.
func NewDB(t testing.TB) *repository.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := repository.NewSQLiteDB(dsn, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// Seed inserts one network, a native token with 18 configured decimals, a
// USDC-like contract token with 6 decimals and the merchant wallet.
func Seed(t testing.TB, db *repository.DB) {
	t.Helper()
	ctx := context.Background()
	eighteen, six := int32(18), int32(6)
	usdc := USDCAddress

	require.NoError(t, db.UpsertBlockchainNetwork(ctx, &models.BlockchainNetwork{
		ID:        NetworkID,
		Name:      "Sepolia",
		RPCURL:    "http://127.0.0.1:8545",
		ChainID:   11155111,
		Workspace: models.WorkspaceTestnet,
	}))
	require.NoError(t, db.UpsertCryptoToken(ctx, &models.CryptoToken{
		ID:                  NativeTokenID,
		Name:                "Ether",
		Symbol:              "ETH",
		BlockchainNetworkID: NetworkID,
		Decimals:            &eighteen,
		IsActive:            true,
	}))
	require.NoError(t, db.UpsertCryptoToken(ctx, &models.CryptoToken{
		ID:                  USDCTokenID,
		Name:                "USD Coin",
		Symbol:              "USDC",
		BlockchainNetworkID: NetworkID,
		Decimals:            &six,
		ContractAddress:     &usdc,
		IsActive:            true,
	}))
	require.NoError(t, db.UpsertWallet(ctx, &models.Wallet{
		ID:            WalletID,
		UserID:        UserID,
		Name:          "main",
		Address:       WalletAddress,
		NetworkTypeID: NetworkID,
		Workspace:     models.WorkspaceTestnet,
	}))
}

// PendingPayment stores a pending payment of amount in tokenID expiring in an hour
// and returns it loaded with its relations.
func PendingPayment(t testing.TB, db *repository.DB, tokenID, amount string) *models.Payment {
	t.Helper()
	now := time.Now().UTC()
	payment := &models.Payment{
		ID:            "pay_" + uuid.NewString(),
		Amount:        decimal.RequireFromString(amount),
		CryptoTokenID: tokenID,
		WalletID:      WalletID,
		UserID:        UserID,
		Status:        models.StatusPending,
		ExpiresAt:     now.Add(time.Hour),
		Workspace:     models.WorkspaceTestnet,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, db.CreatePayment(context.Background(), payment))

	loaded, err := db.GetPaymentWithRelations(context.Background(), payment.ID)
	require.NoError(t, err)
	return loaded
}
