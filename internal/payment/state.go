package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kyro-pay/gateway/internal/models"
	"github.com/kyro-pay/gateway/pkg/logger"
	"github.com/kyro-pay/gateway/pkg/validation"
)

// transitions lists the legal moves. Everything out of a terminal state is illegal.
var transitions = map[models.PaymentStatus][]models.PaymentStatus{
	models.StatusPending: {models.StatusConfirmed, models.StatusCancelled, models.StatusExpired},
}

// CanTransition reports whether a payment may move from one status to another
func CanTransition(from, to models.PaymentStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Store is the part of the repository the state machine writes through
type Store interface {
	GetPaymentWithRelations(ctx context.Context, id string) (*models.Payment, error)
	ConditionallyUpdatePayment(ctx context.Context, id string, expected models.PaymentStatus, patch models.PaymentPatch) error
	ConfirmPayment(ctx context.Context, id string, unexpiredAt time.Time, patch models.PaymentPatch, record *models.Transaction) error
}

// StateMachine owns every status write. Each transition is a compare-and-swap on
// the stored status, so of two concurrent transitions out of pending exactly one wins
// and the other observes InvalidState with the winner's status.
//
// Unless the expiry policy is none, a confirmation also requires the payment to be
// unexpired at the moment of the write.
type StateMachine struct {
	logger *logger.Logger
	store  Store
	policy models.ExpiryPolicy
	now    func() time.Time
}

func NewStateMachine(store Store, policy models.ExpiryPolicy, logger *logger.Logger) *StateMachine {
	if !policy.Valid() {
		policy = models.ExpiryRead
	}
	return &StateMachine{logger: logger, store: store, policy: policy, now: time.Now}
}

// Confirm records a successful verification: status, transaction hash, verified sender,
// optional payer contact fields and the Transaction row, all in one database transaction.
func (m *StateMachine) Confirm(
	ctx context.Context,
	payment *models.Payment,
	result *models.VerificationResult,
	payer models.PayerInfo,
) (*models.Payment, *models.Transaction, error) {
	if !CanTransition(payment.Status, models.StatusConfirmed) {
		return nil, nil, models.NewInvalidState(payment.Status)
	}

	now := m.now().UTC()
	txHash := result.TxHash
	sender := validation.NormalizeAddress(result.SenderAddress)
	patch := models.PaymentPatch{
		Status:          models.StatusConfirmed,
		TransactionHash: &txHash,
		PaymentAddress:  &sender,
		PayerName:       nonEmpty(payer.Name),
		PayerEmail:      nonEmpty(payer.Email),
		PayerPhone:      nonEmpty(payer.Phone),
		ConfirmedAt:     &now,
		UpdatedAt:       now,
	}

	record := &models.Transaction{
		ID:          "txn_" + uuid.NewString(),
		PaymentID:   payment.ID,
		Hash:        txHash,
		FromAddress: validation.NormalizeAddress(result.Transfer.From.Hex()),
		ToAddress:   validation.NormalizeAddress(result.Transfer.To.Hex()),
		Decimals:    result.Transfer.Decimals,
		BlockHash:   result.BlockHash,
		Workspace:   payment.Workspace,
		CreatedAt:   now,
	}
	if result.Transfer.Amount != nil {
		record.Amount = result.Transfer.Amount.String()
	}
	if result.BlockNumber != nil {
		record.BlockNumber = *result.BlockNumber
	}
	if payment.CryptoToken != nil {
		record.BlockchainNetworkID = payment.CryptoToken.BlockchainNetworkID
	}

	var unexpiredAt time.Time
	if m.policy != models.ExpiryNone {
		unexpiredAt = now
	}
	err := m.store.ConfirmPayment(ctx, payment.ID, unexpiredAt, patch, record)
	switch {
	case errors.Is(err, models.ErrStatusConflict):
		return nil, nil, m.conflict(ctx, payment.ID)
	case errors.Is(err, models.ErrDuplicateTxHash):
		return nil, nil, models.NewTransactionAlreadyUsed(txHash)
	case err != nil:
		return nil, nil, models.NewInternal("failed to confirm payment", err)
	}

	m.logger.Info("Payment confirmed", "payment_id", payment.ID, "tx_hash", txHash, "sender", sender)
	updated, err := m.reload(ctx, payment.ID)
	if err != nil {
		return nil, nil, err
	}
	return updated, record, nil
}

// Cancel moves a pending payment to cancelled
func (m *StateMachine) Cancel(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	return m.transition(ctx, payment, models.StatusCancelled)
}

// Expire moves a pending payment to expired
func (m *StateMachine) Expire(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	return m.transition(ctx, payment, models.StatusExpired)
}

func (m *StateMachine) transition(ctx context.Context, payment *models.Payment, to models.PaymentStatus) (*models.Payment, error) {
	if !CanTransition(payment.Status, to) {
		return nil, models.NewInvalidState(payment.Status)
	}

	err := m.store.ConditionallyUpdatePayment(ctx, payment.ID, payment.Status, models.PaymentPatch{
		Status:    to,
		UpdatedAt: m.now().UTC(),
	})
	if errors.Is(err, models.ErrStatusConflict) {
		return nil, m.conflict(ctx, payment.ID)
	}
	if err != nil {
		return nil, models.NewInternal("failed to update payment", err)
	}

	m.logger.Info("Payment status changed", "payment_id", payment.ID, "from", payment.Status, "to", to)
	return m.reload(ctx, payment.ID)
}

// conflict reports the status that won a lost compare-and-swap. A payment still
// stored as pending lost to its own expiry.
func (m *StateMachine) conflict(ctx context.Context, id string) error {
	current, err := m.reload(ctx, id)
	if err != nil {
		return err
	}
	status := current.EffectiveStatus(m.now(), m.policy)
	if status == models.StatusPending {
		status = models.StatusExpired
	}
	m.logger.Warn("Concurrent payment transition lost", "payment_id", id, "current_status", status)
	return models.NewInvalidState(status)
}

func (m *StateMachine) reload(ctx context.Context, id string) (*models.Payment, error) {
	payment, err := m.store.GetPaymentWithRelations(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NewPaymentNotFound(id)
	}
	if err != nil {
		return nil, models.NewInternal("failed to reload payment", err)
	}
	return payment, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
