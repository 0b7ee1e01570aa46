package verification

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/kyro-pay/gateway/internal/metrics"
	"github.com/kyro-pay/gateway/internal/models"
	"github.com/kyro-pay/gateway/internal/transfer"
	"github.com/kyro-pay/gateway/pkg/amount"
	"github.com/kyro-pay/gateway/pkg/logger"
	"github.com/kyro-pay/gateway/pkg/validation"
)

const tracerName = "github.com/kyro-pay/gateway/internal/verification"

// PaymentReader is the part of the repository the verifier reads
type PaymentReader interface {
	FindPaymentByTransactionHash(ctx context.Context, txHash string) (*models.Payment, error)
}

type Options struct {
	ExpiryPolicy models.ExpiryPolicy
	Selection    transfer.Selection
	// Now is the clock used for expiry checks. Defaults to time.Now.
	Now func() time.Time
}

// Verifier decides whether an on-chain transaction satisfies a pending payment.
// It never writes; confirmation is the state machine's job.
type Verifier struct {
	logger    *logger.Logger
	metrics   metrics.Recorder
	tracer    trace.Tracer
	payments  PaymentReader
	chains    models.ChainClientProvider
	decimals  transfer.DecimalsResolver
	extractor *transfer.Extractor
	policy    models.ExpiryPolicy
	now       func() time.Time
}

func NewVerifier(
	payments PaymentReader,
	chains models.ChainClientProvider,
	decimals transfer.DecimalsResolver,
	opts Options,
	logger *logger.Logger,
	recorder metrics.Recorder,
) *Verifier {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if !opts.ExpiryPolicy.Valid() {
		opts.ExpiryPolicy = models.ExpiryRead
	}
	return &Verifier{
		logger:    logger,
		metrics:   recorder,
		tracer:    otel.Tracer(tracerName),
		payments:  payments,
		chains:    chains,
		decimals:  decimals,
		extractor: transfer.NewExtractor(opts.Selection),
		policy:    opts.ExpiryPolicy,
		now:       opts.Now,
	}
}

// Verify checks, in order: input, payment state and expiry, hash reuse, transaction
// existence, sender, inclusion in a block, receipt status, recipient and amount.
// The first failing check is returned as a *models.PaymentError. payment must be
// loaded with its wallet, token and the token's network.
func (v *Verifier) Verify(ctx context.Context, payment *models.Payment, sender, txHash string) (*models.VerificationResult, error) {
	ctx, span := v.tracer.Start(ctx, "verification.Verify", trace.WithAttributes(
		attribute.String("payment.id", payment.ID),
		attribute.String("tx.hash", txHash),
	))
	defer span.End()

	network := ""
	if payment.CryptoToken != nil && payment.CryptoToken.BlockchainNetwork != nil {
		network = payment.CryptoToken.BlockchainNetwork.Name
	}

	start := time.Now()
	result, err := v.verify(ctx, payment, sender, txHash)
	v.metrics.ObserveLatency(metrics.OpVerify, time.Since(start), map[string]string{metrics.LabelNetwork: network})

	outcome := "verified"
	if err != nil {
		outcome = string(models.KindOf(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		v.logger.Info("Payment verification failed",
			"payment_id", payment.ID, "tx_hash", txHash, "network", network, "kind", outcome, "error", err)
	} else {
		span.SetStatus(codes.Ok, outcome)
		v.logger.Info("Payment verified",
			"payment_id", payment.ID, "tx_hash", result.TxHash, "network", network,
			"sender", result.SenderAddress, "amount", result.Transfer.Amount.String())
	}
	v.metrics.IncCounter(metrics.EventVerification, map[string]string{metrics.LabelNetwork: network, metrics.LabelKind: outcome})

	return result, err
}

func (v *Verifier) verify(ctx context.Context, payment *models.Payment, sender, txHash string) (*models.VerificationResult, error) {
	if err := validateClaim(sender, txHash); err != nil {
		return nil, err
	}
	sender = validation.NormalizeAddress(sender)
	txHash = strings.ToLower(txHash)

	if payment.Status != models.StatusPending {
		return nil, models.NewInvalidState(payment.Status)
	}
	if status := payment.EffectiveStatus(v.now(), v.policy); status != models.StatusPending {
		return nil, models.NewInvalidState(status)
	}

	if payment.Wallet == nil || payment.CryptoToken == nil || payment.CryptoToken.BlockchainNetwork == nil {
		return nil, models.NewInternal("payment relations not loaded", nil)
	}
	wallet, token, network := payment.Wallet, payment.CryptoToken, payment.CryptoToken.BlockchainNetwork

	kind, err := token.Kind()
	if err != nil {
		return nil, models.NewInternal("invalid token configuration", err)
	}

	bound, err := v.payments.FindPaymentByTransactionHash(ctx, txHash)
	switch {
	case err == nil && bound.ID != payment.ID:
		return nil, models.NewTransactionAlreadyUsed(txHash)
	case err != nil && !errors.Is(err, models.ErrNotFound):
		return nil, models.NewInternal("failed to check transaction hash reuse", err)
	}

	client, err := v.chains.ClientFor(ctx, network)
	if err != nil {
		return nil, err
	}

	hash := common.HexToHash(txHash)
	tx, err := client.GetTransaction(ctx, hash)
	if err != nil {
		return nil, err
	}

	if !validation.SameAddress(tx.From.Hex(), sender) {
		return nil, models.NewSenderMismatch(sender, validation.NormalizeAddress(tx.From.Hex()))
	}

	if !tx.IsMined() {
		return nil, models.NewNotYetMined(txHash)
	}

	// The receipt and the token precision are independent once the transaction is known.
	var (
		receipt  *models.ChainReceipt
		decimals int32
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		receipt, err = client.GetTransactionReceipt(gctx, hash)
		return err
	})
	g.Go(func() error {
		decimals = v.decimals.Decimals(gctx, client, token)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !receipt.Succeeded() {
		return nil, models.NewTransactionFailed(txHash)
	}

	payee := common.HexToAddress(wallet.Address)
	moved, err := v.extractor.Extract(tx, receipt, kind, decimals, payee)
	if err != nil {
		return nil, err
	}

	if !validation.SameAddress(moved.To.Hex(), wallet.Address) {
		return nil, models.NewRecipientMismatch(
			validation.NormalizeAddress(wallet.Address),
			validation.NormalizeAddress(moved.To.Hex()),
		)
	}

	expected, err := amount.ToSmallestUnit(payment.Amount, moved.Decimals)
	if err != nil {
		return nil, models.NewInternal("failed to normalize payment amount", err)
	}
	if !amount.Equal(expected, moved.Amount) {
		return nil, models.NewAmountMismatch(
			amount.FromSmallestUnit(expected, moved.Decimals),
			amount.FromSmallestUnit(moved.Amount, moved.Decimals),
		)
	}

	result := &models.VerificationResult{
		TxHash:        txHash,
		SenderAddress: sender,
		BlockHash:     strings.ToLower(tx.BlockHash.Hex()),
		Transfer:      *moved,
	}
	switch {
	case receipt.BlockNumber != nil:
		result.BlockNumber = receipt.BlockNumber
	case tx.BlockNumber != nil:
		result.BlockNumber = tx.BlockNumber
	}
	return result, nil
}

func validateClaim(sender, txHash string) error {
	if err := validation.ValidateAddress(sender); err != nil {
		return models.NewInvalidInput("invalid sender address: %v", err)
	}
	if err := validation.ValidateTxHash(txHash); err != nil {
		return models.NewInvalidInput("invalid transaction hash: %v", err)
	}
	return nil
}
