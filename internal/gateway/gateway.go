package gateway

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/kyro-pay/gateway/internal/metrics"
	"github.com/kyro-pay/gateway/internal/models"
	"github.com/kyro-pay/gateway/internal/payment"
	"github.com/kyro-pay/gateway/internal/verification"
	"github.com/kyro-pay/gateway/pkg/amount"
	"github.com/kyro-pay/gateway/pkg/logger"
)

const (
	// sweeperLock is the AppLock name held by the instance running the expiry sweeper
	sweeperLock = "expiry-sweeper"

	maxDescriptionLength = 500
	defaultPageLimit     = 20
	maxPageLimit         = 100

	notificationTimeout = 30 * time.Second
)

type Options struct {
	ExpiryPolicy  models.ExpiryPolicy
	SweepInterval time.Duration
	// SweepBatch caps the payments expired by one sweep.
	SweepBatch int
	// InstanceID identifies this process in the sweeper lock.
	InstanceID string
	Now        func() time.Time
}

// Gateway is the application service behind the HTTP API.
// It owns payment creation and reads, delegates on-chain checks to the verifier and
// status writes to the state machine, and fans state changes out to the notificator.
type Gateway struct {
	logger  *logger.Logger
	metrics metrics.Recorder
	opts    Options

	repo        models.Repository
	verifier    *verification.Verifier
	machine     *payment.StateMachine
	notificator models.NotificationService
	validate    *validator.Validate

	stop      context.CancelFunc
	sweeperWG sync.WaitGroup
	notifyWG  sync.WaitGroup
}

// NewGateway creates a new Gateway instance
func NewGateway(
	repo models.Repository,
	verifier *verification.Verifier,
	machine *payment.StateMachine,
	notificator models.NotificationService,
	opts Options,
	logger *logger.Logger,
	recorder metrics.Recorder,
) *Gateway {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if !opts.ExpiryPolicy.Valid() {
		opts.ExpiryPolicy = models.ExpiryRead
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = time.Minute
	}
	if opts.SweepBatch <= 0 {
		opts.SweepBatch = 100
	}
	if opts.InstanceID == "" {
		opts.InstanceID = uuid.NewString()
	}
	return &Gateway{
		logger:      logger,
		metrics:     recorder,
		opts:        opts,
		repo:        repo,
		verifier:    verifier,
		machine:     machine,
		notificator: notificator,
		validate:    validator.New(),
	}
}

// Start starts the expiry sweeper when the expiry policy is sweep
func (g *Gateway) Start() {
	if g.opts.ExpiryPolicy != models.ExpirySweep {
		g.logger.Info("Expiry sweeper disabled", "policy", g.opts.ExpiryPolicy)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	g.stop = cancel
	g.sweeperWG.Add(1)
	go func() {
		defer g.sweeperWG.Done()
		ticker := time.NewTicker(g.opts.SweepInterval)
		defer ticker.Stop()
		g.logger.Info("Expiry sweeper started", "interval", g.opts.SweepInterval, "instance_id", g.opts.InstanceID)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				g.sweep(ctx)
			}
		}
	}()
}

// Stop stops the sweeper, releases its lock and waits for pending notifications
func (g *Gateway) Stop() {
	if g.stop != nil {
		g.stop()
		g.sweeperWG.Wait()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := g.repo.ReleaseLock(ctx, sweeperLock, g.opts.InstanceID); err != nil {
			g.logger.Warn("Failed to release sweeper lock", "error", err)
		}
		cancel()
	}
	g.notifyWG.Wait()
}

// sweep stores pending -> expired for overdue payments. Only the instance holding
// the sweeper lease does the work; the lease outlives two intervals so a crashed
// holder is taken over.
func (g *Gateway) sweep(ctx context.Context) int {
	err := g.repo.AcquireLock(ctx, sweeperLock, g.opts.InstanceID, 2*g.opts.SweepInterval)
	if errors.Is(err, models.ErrLockNotAcquired) {
		g.logger.Debug("Expiry sweeper lock held by another instance")
		return 0
	}
	if err != nil {
		g.logger.Error("Failed to acquire sweeper lock", "error", err)
		return 0
	}

	ids, err := g.repo.FindOverduePayments(ctx, g.opts.Now(), g.opts.SweepBatch)
	if err != nil {
		g.logger.Error("Failed to select overdue payments", "error", err)
		return 0
	}

	expired := 0
	for _, id := range ids {
		p, err := g.repo.GetPaymentWithRelations(ctx, id)
		if err != nil {
			g.logger.Error("Failed to load overdue payment", "payment_id", id, "error", err)
			continue
		}
		updated, err := g.machine.Expire(ctx, p)
		if errors.Is(err, models.ErrInvalidState) {
			// confirmed or cancelled since it was selected
			continue
		}
		if err != nil {
			g.logger.Error("Failed to expire payment", "payment_id", id, "error", err)
			continue
		}
		expired++
		g.countTransition(models.StatusExpired)
		g.notify(models.EventPaymentExpired, updated, nil)
	}
	if expired > 0 {
		g.logger.Info("Expired pending payments", "count", expired)
	}
	return expired
}

func (g *Gateway) CreatePayment(ctx context.Context, req *models.CreatePaymentRequest) (*models.Payment, error) {
	if err := g.validateCreate(req); err != nil {
		return nil, err
	}

	wallet, err := g.repo.GetWallet(ctx, req.WalletID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NewInvalidInput("wallet %s not found", req.WalletID)
	}
	if err != nil {
		return nil, models.NewInternal("failed to get wallet", err)
	}
	if wallet.UserID != req.UserID || wallet.Workspace != req.Workspace {
		return nil, models.NewInvalidInput("wallet %s not found", req.WalletID)
	}

	token, err := g.repo.GetCryptoToken(ctx, req.CryptoTokenID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NewInvalidInput("crypto token %s not found", req.CryptoTokenID)
	}
	if err != nil {
		return nil, models.NewInternal("failed to get crypto token", err)
	}
	if !token.IsActive {
		return nil, models.NewInvalidInput("crypto token %s is not active", req.CryptoTokenID)
	}
	if token.BlockchainNetwork == nil || token.BlockchainNetwork.Workspace != req.Workspace {
		return nil, models.NewInvalidInput("crypto token %s is not available in workspace %s", req.CryptoTokenID, req.Workspace)
	}
	if wallet.NetworkTypeID != token.BlockchainNetworkID {
		return nil, models.NewInvalidInput("wallet %s and crypto token %s are on different networks", req.WalletID, req.CryptoTokenID)
	}
	if token.Decimals != nil && amount.FractionDigits(req.Amount) > *token.Decimals {
		return nil, models.NewInvalidInput("amount has more than %d decimal places", *token.Decimals)
	}

	now := g.opts.Now().UTC()
	created := &models.Payment{
		ID:            "pay_" + uuid.NewString(),
		Amount:        req.Amount,
		CryptoTokenID: token.ID,
		WalletID:      wallet.ID,
		UserID:        req.UserID,
		Status:        models.StatusPending,
		Description:   req.Description,
		Metadata:      req.Metadata,
		CallbackURL:   req.CallbackURL,
		CancelURL:     req.CancelURL,
		ExpiresAt:     req.ExpiresAt.UTC(),
		Workspace:     req.Workspace,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := g.repo.CreatePayment(ctx, created); err != nil {
		return nil, models.NewInternal("failed to create payment", err)
	}
	g.logger.Info("Payment created", "payment_id", created.ID, "user_id", req.UserID,
		"amount", req.Amount.String(), "token", token.Symbol, "expires_at", created.ExpiresAt)

	return g.load(ctx, created.ID, "", "")
}

func (g *Gateway) validateCreate(req *models.CreatePaymentRequest) error {
	if req.UserID == "" {
		return models.NewInvalidInput("user id is required")
	}
	if !req.Workspace.Valid() {
		return models.NewInvalidInput("invalid workspace %q", req.Workspace)
	}
	if req.WalletID == "" || req.CryptoTokenID == "" {
		return models.NewInvalidInput("wallet_id and crypto_token_id are required")
	}
	if !req.Amount.IsPositive() {
		return models.NewInvalidInput("amount must be positive")
	}
	if !req.ExpiresAt.After(g.opts.Now()) {
		return models.NewInvalidInput("expires_at must be in the future")
	}
	if len([]rune(req.Description)) > maxDescriptionLength {
		return models.NewInvalidInput("description exceeds %d characters", maxDescriptionLength)
	}
	for name, u := range map[string]*string{"callback_url": req.CallbackURL, "cancel_url": req.CancelURL} {
		if u == nil {
			continue
		}
		if err := g.validate.Var(*u, "required,http_url"); err != nil {
			return models.NewInvalidInput("%s must be an http(s) url", name)
		}
	}
	return nil
}

// GetPayment returns the payment with its effective status
func (g *Gateway) GetPayment(ctx context.Context, id, userID string, workspace models.Workspace) (*models.Payment, error) {
	p, err := g.load(ctx, id, userID, workspace)
	if err != nil {
		return nil, err
	}
	p.Status = p.EffectiveStatus(g.opts.Now(), g.opts.ExpiryPolicy)
	return p, nil
}

func (g *Gateway) ListPayments(ctx context.Context, filter models.PaymentFilter, page, limit int) (*models.PaymentPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, models.NewInvalidInput("invalid status filter %q", filter.Status)
	}

	payments, total, err := g.repo.ListPayments(ctx, filter, page, limit)
	if err != nil {
		return nil, models.NewInternal("failed to list payments", err)
	}
	now := g.opts.Now()
	for _, p := range payments {
		p.Status = p.EffectiveStatus(now, g.opts.ExpiryPolicy)
	}
	return &models.PaymentPage{
		Payments:   payments,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

func (g *Gateway) CancelPayment(ctx context.Context, id, userID string, workspace models.Workspace) (*models.Payment, error) {
	p, err := g.load(ctx, id, userID, workspace)
	if err != nil {
		return nil, err
	}
	if status := p.EffectiveStatus(g.opts.Now(), g.opts.ExpiryPolicy); status != models.StatusPending {
		return nil, models.NewInvalidState(status)
	}

	cancelled, err := g.machine.Cancel(ctx, p)
	if err != nil {
		return nil, err
	}
	g.countTransition(models.StatusCancelled)
	g.notify(models.EventPaymentCancelled, cancelled, nil)
	return cancelled, nil
}

// ConfirmPayment verifies the claimed transaction on-chain and, when every check
// passes, confirms the payment. Nothing is written on a failed verification.
func (g *Gateway) ConfirmPayment(ctx context.Context, req *models.ConfirmPaymentRequest) (*models.Payment, error) {
	p, err := g.load(ctx, req.PaymentID, req.UserID, req.Workspace)
	if err != nil {
		return nil, err
	}

	result, err := g.verifier.Verify(ctx, p, req.SenderAddress, req.TxHash)
	if err != nil {
		return nil, err
	}

	confirmed, record, err := g.machine.Confirm(ctx, p, result, req.Payer)
	if err != nil {
		return nil, err
	}
	g.countTransition(models.StatusConfirmed)
	g.notify(models.EventPaymentConfirmed, confirmed, record)
	return confirmed, nil
}

// GetPaymentTransaction returns the transaction recorded on confirmation together with
// its network. Only a confirmed payment has one.
func (g *Gateway) GetPaymentTransaction(ctx context.Context, id, userID string, workspace models.Workspace) (*models.Transaction, error) {
	p, err := g.load(ctx, id, userID, workspace)
	if err != nil {
		return nil, err
	}
	if p.Status != models.StatusConfirmed || p.TransactionHash == nil {
		return nil, models.NewInvalidState(p.EffectiveStatus(g.opts.Now(), g.opts.ExpiryPolicy))
	}

	record, err := g.repo.GetTransactionByHash(ctx, *p.TransactionHash)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NewTransactionNotFound(*p.TransactionHash)
	}
	if err != nil {
		return nil, models.NewInternal("failed to get transaction", err)
	}

	network, err := g.repo.GetBlockchainNetwork(ctx, record.BlockchainNetworkID)
	switch {
	case err == nil:
		record.Network = network
	case errors.Is(err, models.ErrNotFound):
		g.logger.Warn("Network of recorded transaction not found", "payment_id", id, "network_id", record.BlockchainNetworkID)
	default:
		return nil, models.NewInternal("failed to get blockchain network", err)
	}
	return record, nil
}

func (g *Gateway) Ping(ctx context.Context) error {
	return g.repo.Ping(ctx)
}

// load fetches a payment with relations. A non-empty userID restricts the lookup to
// that owner and workspace; someone else's payment reads as not found.
func (g *Gateway) load(ctx context.Context, id, userID string, workspace models.Workspace) (*models.Payment, error) {
	if id == "" {
		return nil, models.NewInvalidInput("payment id is required")
	}
	p, err := g.repo.GetPaymentWithRelations(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NewPaymentNotFound(id)
	}
	if err != nil {
		return nil, models.NewInternal(fmt.Sprintf("failed to get payment %s", id), err)
	}
	if userID != "" && (p.UserID != userID || p.Workspace != workspace) {
		return nil, models.NewPaymentNotFound(id)
	}
	return p, nil
}

// notify delivers the event in the background. The request context is not used
// so a client disconnect does not drop the webhook.
func (g *Gateway) notify(eventType models.EventType, p *models.Payment, record *models.Transaction) {
	if g.notificator == nil {
		return
	}
	event := &models.PaymentEvent{
		ID:          "evt_" + uuid.NewString(),
		Type:        eventType,
		Payment:     p,
		Transaction: record,
		OccurredAt:  g.opts.Now().UTC(),
	}
	g.notifyWG.Add(1)
	go func() {
		defer g.notifyWG.Done()
		ctx, cancel := context.WithTimeout(context.Background(), notificationTimeout)
		defer cancel()
		g.notificator.SendNotification(ctx, event)
	}()
}

func (g *Gateway) countTransition(to models.PaymentStatus) {
	g.metrics.IncCounter(metrics.EventTransition, map[string]string{metrics.LabelKind: string(to)})
}
