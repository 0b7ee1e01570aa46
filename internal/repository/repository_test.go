package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyro-pay/gateway/internal/models"
	"github.com/kyro-pay/gateway/internal/repository/repotest"
)

const txHash = "0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060"

func confirmPatch(hash string) models.PaymentPatch {
	now := time.Now().UTC()
	sender := repotest.PayerAddress
	return models.PaymentPatch{
		Status:          models.StatusConfirmed,
		TransactionHash: &hash,
		PaymentAddress:  &sender,
		ConfirmedAt:     &now,
		UpdatedAt:       now,
	}
}

func TestGetPaymentWithRelations(t *testing.T) {
	db := repotest.NewDB(t)
	repotest.Seed(t, db)
	created := repotest.PendingPayment(t, db, repotest.USDCTokenID, "0.000000000000000001")

	payment, err := db.GetPaymentWithRelations(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, "0.000000000000000001", payment.Amount.String())
	require.NotNil(t, payment.Wallet)
	assert.Equal(t, repotest.WalletAddress, payment.Wallet.Address)
	require.NotNil(t, payment.CryptoToken)
	assert.Equal(t, "USDC", payment.CryptoToken.Symbol)
	require.NotNil(t, payment.CryptoToken.BlockchainNetwork)
	assert.Equal(t, int64(11155111), payment.CryptoToken.BlockchainNetwork.ChainID)
	assert.Nil(t, payment.TransactionHash)
}

func TestGetPaymentNotFound(t *testing.T) {
	db := repotest.NewDB(t)

	_, err := db.GetPayment(context.Background(), "pay_missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestConditionallyUpdatePayment(t *testing.T) {
	db := repotest.NewDB(t)
	repotest.Seed(t, db)
	payment := repotest.PendingPayment(t, db, repotest.NativeTokenID, "1")
	ctx := context.Background()

	require.NoError(t, db.ConditionallyUpdatePayment(ctx, payment.ID, models.StatusPending, models.PaymentPatch{Status: models.StatusCancelled}))

	err := db.ConditionallyUpdatePayment(ctx, payment.ID, models.StatusPending, models.PaymentPatch{Status: models.StatusExpired})
	assert.ErrorIs(t, err, models.ErrStatusConflict)

	stored, err := db.GetPayment(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, stored.Status)
}

func TestConfirmPaymentRecordsTransaction(t *testing.T) {
	db := repotest.NewDB(t)
	repotest.Seed(t, db)
	payment := repotest.PendingPayment(t, db, repotest.NativeTokenID, "0.5")
	ctx := context.Background()

	record := &models.Transaction{
		ID:                  "txn_1",
		PaymentID:           payment.ID,
		Hash:                txHash,
		FromAddress:         repotest.PayerAddress,
		ToAddress:           repotest.WalletAddress,
		Amount:              "500000000000000000",
		Decimals:            18,
		BlockNumber:         42,
		BlockchainNetworkID: repotest.NetworkID,
		Workspace:           models.WorkspaceTestnet,
	}
	require.NoError(t, db.ConfirmPayment(ctx, payment.ID, time.Time{}, confirmPatch(txHash), record))

	stored, err := db.FindPaymentByTransactionHash(ctx, txHash)
	require.NoError(t, err)
	assert.Equal(t, payment.ID, stored.ID)
	assert.Equal(t, models.StatusConfirmed, stored.Status)
	require.NotNil(t, stored.PaymentAddress)
	assert.Equal(t, repotest.PayerAddress, *stored.PaymentAddress)
	assert.True(t, stored.Amount.Equal(payment.Amount))

	saved, err := db.GetTransactionByHash(ctx, txHash)
	require.NoError(t, err)
	assert.Equal(t, "500000000000000000", saved.Amount)
	assert.Equal(t, uint64(42), saved.BlockNumber)

	err = db.ConfirmPayment(ctx, payment.ID, time.Time{}, confirmPatch(txHash), nil)
	assert.ErrorIs(t, err, models.ErrStatusConflict)
}

func TestConfirmPaymentRejectsReusedHash(t *testing.T) {
	db := repotest.NewDB(t)
	repotest.Seed(t, db)
	first := repotest.PendingPayment(t, db, repotest.NativeTokenID, "1")
	second := repotest.PendingPayment(t, db, repotest.NativeTokenID, "1")
	ctx := context.Background()

	require.NoError(t, db.ConfirmPayment(ctx, first.ID, time.Time{}, confirmPatch(txHash), nil))

	err := db.ConfirmPayment(ctx, second.ID, time.Time{}, confirmPatch(txHash), nil)
	assert.ErrorIs(t, err, models.ErrDuplicateTxHash)

	stored, err := db.GetPayment(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Nil(t, stored.TransactionHash)
}

func TestFindOverduePayments(t *testing.T) {
	db := repotest.NewDB(t)
	repotest.Seed(t, db)
	ctx := context.Background()
	stale := repotest.PendingPayment(t, db, repotest.NativeTokenID, "1")
	repotest.PendingPayment(t, db, repotest.NativeTokenID, "1")
	cancelled := repotest.PendingPayment(t, db, repotest.NativeTokenID, "1")

	past := time.Now().UTC().Add(-time.Minute)
	require.NoError(t, db.Conn.Model(&models.Payment{}).Where("id IN ?", []string{stale.ID, cancelled.ID}).Update("expires_at", past).Error)
	require.NoError(t, db.ConditionallyUpdatePayment(ctx, cancelled.ID, models.StatusPending, models.PaymentPatch{Status: models.StatusCancelled}))

	ids, err := db.FindOverduePayments(ctx, time.Now(), 100)
	require.NoError(t, err)
	assert.Equal(t, []string{stale.ID}, ids)

	// selecting does not write
	stored, err := db.GetPayment(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestConfirmPaymentRefusesExpired(t *testing.T) {
	db := repotest.NewDB(t)
	repotest.Seed(t, db)
	ctx := context.Background()
	payment := repotest.PendingPayment(t, db, repotest.NativeTokenID, "1")

	past := time.Now().UTC().Add(-time.Second)
	require.NoError(t, db.Conn.Model(&models.Payment{}).Where("id = ?", payment.ID).Update("expires_at", past).Error)

	record := &models.Transaction{ID: "txn_late", PaymentID: payment.ID, Hash: txHash, Workspace: models.WorkspaceTestnet}
	err := db.ConfirmPayment(ctx, payment.ID, time.Now(), confirmPatch(txHash), record)
	assert.ErrorIs(t, err, models.ErrStatusConflict)

	stored, err := db.GetPayment(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
	_, err = db.GetTransactionByHash(ctx, txHash)
	assert.ErrorIs(t, err, models.ErrNotFound)

	// without the expiry guard the same update goes through
	require.NoError(t, db.ConfirmPayment(ctx, payment.ID, time.Time{}, confirmPatch(txHash), record))
}

func TestListPayments(t *testing.T) {
	db := repotest.NewDB(t)
	repotest.Seed(t, db)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		repotest.PendingPayment(t, db, repotest.NativeTokenID, "1")
	}
	cancelled := repotest.PendingPayment(t, db, repotest.USDCTokenID, "2")
	require.NoError(t, db.ConditionallyUpdatePayment(ctx, cancelled.ID, models.StatusPending, models.PaymentPatch{Status: models.StatusCancelled}))

	filter := models.PaymentFilter{Workspace: models.WorkspaceTestnet, UserID: repotest.UserID}
	page, total, err := db.ListPayments(ctx, filter, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, page, 2)

	filter.Status = models.StatusCancelled
	page, total, err = db.ListPayments(ctx, filter, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, page, 1)
	assert.Equal(t, cancelled.ID, page[0].ID)

	filter = models.PaymentFilter{Workspace: models.WorkspaceMainnet, UserID: repotest.UserID}
	_, total, err = db.ListPayments(ctx, filter, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestAppLock(t *testing.T) {
	db := repotest.NewDB(t)
	ctx := context.Background()

	require.NoError(t, db.AcquireLock(ctx, "expiry-sweeper", "a", time.Minute))
	assert.ErrorIs(t, db.AcquireLock(ctx, "expiry-sweeper", "b", time.Minute), models.ErrLockNotAcquired)
	require.NoError(t, db.AcquireLock(ctx, "expiry-sweeper", "a", time.Minute), "renewal by holder")

	require.NoError(t, db.ReleaseLock(ctx, "expiry-sweeper", "a"))
	require.NoError(t, db.AcquireLock(ctx, "expiry-sweeper", "b", time.Minute))
}

func TestAppLockTakeoverAfterExpiry(t *testing.T) {
	db := repotest.NewDB(t)
	ctx := context.Background()

	require.NoError(t, db.AcquireLock(ctx, "expiry-sweeper", "a", -time.Second))
	require.NoError(t, db.AcquireLock(ctx, "expiry-sweeper", "b", time.Minute))
}
