package http_api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/kyro-pay/gateway/internal/models"
)

// CreatePaymentRequest represents the JSON body for payment creation
type CreatePaymentRequest struct {
	// Amount accepts both a JSON string and a JSON number
	Amount        decimal.Decimal        `json:"amount"`
	CryptoTokenID string                 `json:"crypto_token_id" binding:"required"`
	WalletID      string                 `json:"wallet_id" binding:"required"`
	ExpiresAt     time.Time              `json:"expires_at" binding:"required"`
	Description   string                 `json:"description" binding:"max=500"`
	Metadata      map[string]interface{} `json:"metadata"`
	CallbackURL   *string                `json:"callback_url" binding:"omitempty,url"`
	CancelURL     *string                `json:"cancel_url" binding:"omitempty,url"`
}

// ConfirmPaymentRequest represents the JSON body for payment confirmation
type ConfirmPaymentRequest struct {
	WalletAddress string  `json:"wallet_address" binding:"required"`
	TxHash        string  `json:"tx_hash" binding:"required"`
	PayerName     *string `json:"payer_name" binding:"omitempty,max=255"`
	PayerEmail    *string `json:"payer_email" binding:"omitempty,email"`
	PayerPhone    *string `json:"payer_phone" binding:"omitempty,max=32"`
}

// ListPaymentsQuery represents the query string of the payment listing
type ListPaymentsQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled expired"`
	WalletID string `form:"wallet_id"`
}

// Pagination is returned next to a page of payments
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PublicPayment is the payment as shown to an unauthenticated payer
type PublicPayment struct {
	ID              string               `json:"id"`
	Amount          decimal.Decimal      `json:"amount"`
	Status          models.PaymentStatus `json:"status"`
	Description     string               `json:"description"`
	ExpiresAt       time.Time            `json:"expires_at"`
	CancelURL       *string              `json:"cancel_url,omitempty"`
	WalletAddress   string               `json:"wallet_address"`
	TokenSymbol     string               `json:"token_symbol"`
	TokenDecimals   *int32               `json:"token_decimals,omitempty"`
	ContractAddress *string              `json:"contract_address,omitempty"`
	NetworkName     string               `json:"network_name"`
	ChainID         int64                `json:"chain_id"`
	TransactionHash *string              `json:"transaction_hash,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

func newPublicPayment(p *models.Payment) PublicPayment {
	view := PublicPayment{
		ID:              p.ID,
		Amount:          p.Amount,
		Status:          p.Status,
		Description:     p.Description,
		ExpiresAt:       p.ExpiresAt,
		CancelURL:       p.CancelURL,
		TransactionHash: p.TransactionHash,
		CreatedAt:       p.CreatedAt,
	}
	if p.Wallet != nil {
		view.WalletAddress = p.Wallet.Address
	}
	if p.CryptoToken != nil {
		view.TokenSymbol = p.CryptoToken.Symbol
		view.TokenDecimals = p.CryptoToken.Decimals
		view.ContractAddress = p.CryptoToken.ContractAddress
		if p.CryptoToken.BlockchainNetwork != nil {
			view.NetworkName = p.CryptoToken.BlockchainNetwork.Name
			view.ChainID = p.CryptoToken.BlockchainNetwork.ChainID
		}
	}
	return view
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), RequestTimeout)
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func (s *HTTPServer) bindError(c *gin.Context, err error) {
	s.writeError(c, models.NewInvalidInput("invalid request: %v", err))
}

// health is a handler for the /healthz endpoint.
func (s *HTTPServer) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := s.gateway.Ping(ctx); err != nil {
		s.logger.Warn("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *HTTPServer) serveMetrics(c *gin.Context) {
	s.metrics.ServeHTTP(c.Writer, c.Request)
}

// createPayment is a handler for POST /api/v1/payments.
func (s *HTTPServer) createPayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}
	userID, workspace := identity(c)

	ctx, cancel := requestContext(c)
	defer cancel()
	created, err := s.gateway.CreatePayment(ctx, &models.CreatePaymentRequest{
		UserID:        userID,
		Workspace:     workspace,
		Amount:        req.Amount,
		CryptoTokenID: req.CryptoTokenID,
		WalletID:      req.WalletID,
		ExpiresAt:     req.ExpiresAt,
		Description:   req.Description,
		Metadata:      req.Metadata,
		CallbackURL:   req.CallbackURL,
		CancelURL:     req.CancelURL,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	ok(c, http.StatusCreated, created)
}

// listPayments is a handler for GET /api/v1/payments.
func (s *HTTPServer) listPayments(c *gin.Context) {
	var query ListPaymentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		s.bindError(c, err)
		return
	}
	userID, workspace := identity(c)

	ctx, cancel := requestContext(c)
	defer cancel()
	page, err := s.gateway.ListPayments(ctx, models.PaymentFilter{
		Workspace: workspace,
		UserID:    userID,
		Status:    models.PaymentStatus(query.Status),
		WalletID:  query.WalletID,
	}, query.Page, query.Limit)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    page.Payments,
		"pagination": Pagination{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		},
	})
}

// getPayment is a handler for GET /api/v1/payments/:id.
func (s *HTTPServer) getPayment(c *gin.Context) {
	userID, workspace := identity(c)
	ctx, cancel := requestContext(c)
	defer cancel()

	p, err := s.gateway.GetPayment(ctx, c.Param("id"), userID, workspace)
	if err != nil {
		s.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// cancelPayment is a handler for POST /api/v1/payments/:id/cancel.
func (s *HTTPServer) cancelPayment(c *gin.Context) {
	userID, workspace := identity(c)
	ctx, cancel := requestContext(c)
	defer cancel()

	p, err := s.gateway.CancelPayment(ctx, c.Param("id"), userID, workspace)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.logger.Info("Payment cancelled", "payment_id", p.ID, "user_id", userID)
	ok(c, http.StatusOK, p)
}

// confirmPayment is a handler for POST /api/v1/payments/:id/confirm.
func (s *HTTPServer) confirmPayment(c *gin.Context) {
	userID, workspace := identity(c)
	s.confirm(c, userID, workspace, func(p *models.Payment) interface{} { return p })
}

// getPaymentTransaction is a handler for GET /api/v1/payments/:id/transaction.
func (s *HTTPServer) getPaymentTransaction(c *gin.Context) {
	userID, workspace := identity(c)
	ctx, cancel := requestContext(c)
	defer cancel()

	record, err := s.gateway.GetPaymentTransaction(ctx, c.Param("id"), userID, workspace)
	if err != nil {
		s.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, record)
}

// getPublicPayment is a handler for GET /api/v1/public/payments/:id.
func (s *HTTPServer) getPublicPayment(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	p, err := s.gateway.GetPayment(ctx, c.Param("id"), "", "")
	if err != nil {
		s.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, newPublicPayment(p))
}

// confirmPublicPayment is a handler for POST /api/v1/public/payments/:id/confirm.
func (s *HTTPServer) confirmPublicPayment(c *gin.Context) {
	s.confirm(c, "", "", func(p *models.Payment) interface{} { return newPublicPayment(p) })
}

func (s *HTTPServer) confirm(c *gin.Context, userID string, workspace models.Workspace, render func(*models.Payment) interface{}) {
	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.bindError(c, err)
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	p, err := s.gateway.ConfirmPayment(ctx, &models.ConfirmPaymentRequest{
		PaymentID:     c.Param("id"),
		SenderAddress: req.WalletAddress,
		TxHash:        req.TxHash,
		Payer: models.PayerInfo{
			Name:  req.PayerName,
			Email: req.PayerEmail,
			Phone: req.PayerPhone,
		},
		UserID:    userID,
		Workspace: workspace,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	ok(c, http.StatusOK, render(p))
}
