package server

import (
	"errors"
	"net/http"

	"github.com/AvantStark/avant-stark-contract/internal/authorization"
	billingdomain "github.com/AvantStark/avant-stark-contract/internal/billing/domain"
	obsctx "github.com/AvantStark/avant-stark-contract/internal/observability/context"
	"github.com/AvantStark/avant-stark-contract/internal/observability/logger"
	storedomain "github.com/AvantStark/avant-stark-contract/internal/store/domain"
	tokendomain "github.com/AvantStark/avant-stark-contract/internal/token/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var ErrInvalidRequest = errors.New("invalid_request")

var errorStatus = map[error]int{
	ErrInvalidRequest: http.StatusBadRequest,

	authorization.ErrNotOwner:      http.StatusForbidden,
	authorization.ErrInvalidActor:  http.StatusUnauthorized,
	authorization.ErrInvalidAction: http.StatusBadRequest,

	storedomain.ErrStoreNotFound:         http.StatusNotFound,
	storedomain.ErrZeroWalletAddress:     http.StatusBadRequest,
	storedomain.ErrZeroTokenAddress:      http.StatusBadRequest,
	storedomain.ErrInvalidSettlementMode: http.StatusBadRequest,
	storedomain.ErrEscrowSettlement:      http.StatusConflict,

	billingdomain.ErrTokenMismatch:    http.StatusUnprocessableEntity,
	billingdomain.ErrZeroPay:          http.StatusUnprocessableEntity,
	billingdomain.ErrBillingExists:    http.StatusConflict,
	billingdomain.ErrBillingNotFound:  http.StatusNotFound,
	billingdomain.ErrRefundNotAllowed: http.StatusConflict,
	billingdomain.ErrRefundsDisabled:  http.StatusConflict,
	billingdomain.ErrInvalidBillingID: http.StatusBadRequest,
	billingdomain.ErrInvalidAmount:    http.StatusBadRequest,

	tokendomain.ErrInvalidTransfer:       http.StatusUnprocessableEntity,
	tokendomain.ErrInsufficientBalance:   http.StatusUnprocessableEntity,
	tokendomain.ErrInsufficientAllowance: http.StatusUnprocessableEntity,
}

// AbortWithError maps a domain error to an HTTP status and a stable error
// token. Unknown errors become opaque 500s; the cause goes to the log, not
// the wire.
func AbortWithError(c *gin.Context, err error) {
	for sentinel, status := range errorStatus {
		if errors.Is(err, sentinel) {
			c.AbortWithStatusJSON(status, gin.H{"error": sentinel.Error()})
			return
		}
	}
	_ = c.Error(err)
	logger.FromContext(c.Request.Context()).Error("unhandled request error", zap.Error(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error":      "internal_error",
		"request_id": obsctx.RequestIDFromGin(c),
	})
}
