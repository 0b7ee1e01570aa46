package http_api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kyro-pay/gateway/internal/models"
)

const (
	codeUnauthorized = "UNAUTHORIZED"

	ctxUserID    = "user_id"
	ctxWorkspace = "workspace"

	headerUserID    = "X-User-ID"
	headerWorkspace = "X-Workspace"
)

// ErrorBody is the error half of the response envelope
type ErrorBody struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	Status   string `json:"status,omitempty"`
}

type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// statusFor maps an error kind to its HTTP status
func statusFor(kind models.ErrorKind) int {
	switch kind {
	case models.KindInvalidInput,
		models.KindSenderMismatch,
		models.KindRecipientMismatch,
		models.KindAmountMismatch,
		models.KindNoTransferEvent,
		models.KindTransactionFailed:
		return http.StatusBadRequest
	case models.KindPaymentNotFound,
		models.KindTransactionNotFound,
		models.KindReceiptUnavailable:
		return http.StatusNotFound
	case models.KindInvalidState,
		models.KindTransactionAlreadyUsed,
		models.KindNotYetMined:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err in the error envelope. Causes of internal errors are logged, not returned.
func (s *HTTPServer) writeError(c *gin.Context, err error) {
	var pe *models.PaymentError
	if !errors.As(err, &pe) {
		pe = models.NewInternal("internal error", err)
	}

	status := statusFor(pe.Kind)
	message := pe.Message
	if message == "" {
		message = string(pe.Kind)
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", "path", c.FullPath(), "kind", pe.Kind, "error", err)
	} else {
		s.logger.Debug("Request rejected", "path", c.FullPath(), "kind", pe.Kind, "error", err)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:     string(pe.Kind),
			Message:  message,
			Expected: pe.Expected,
			Actual:   pe.Actual,
			Status:   string(pe.Status),
		},
	})
}

// identityMiddleware reads the caller identity set by the authentication layer in front of the API
func identityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(headerUserID)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error: ErrorBody{Code: codeUnauthorized, Message: "missing " + headerUserID + " header"},
			})
			return
		}

		workspace := models.Workspace(c.GetHeader(headerWorkspace))
		if workspace == "" {
			workspace = models.WorkspaceTestnet
		}
		if !workspace.Valid() {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
				Error: ErrorBody{Code: string(models.KindInvalidInput), Message: "invalid " + headerWorkspace + " header"},
			})
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxWorkspace, workspace)
		c.Next()
	}
}

func identity(c *gin.Context) (string, models.Workspace) {
	workspace, _ := c.Get(ctxWorkspace)
	ws, _ := workspace.(models.Workspace)
	return c.GetString(ctxUserID), ws
}
