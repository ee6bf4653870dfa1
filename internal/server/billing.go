package server

import (
	"net/http"
	"strconv"

	billingdomain "github.com/AvantStark/avant-stark-contract/internal/billing/domain"
	obsctx "github.com/AvantStark/avant-stark-contract/internal/observability/context"
	"github.com/gin-gonic/gin"
)

func (s *Server) PayBilling(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	var req billingdomain.PayBillingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	record, err := s.billingSvc.PayBilling(c.Request.Context(), obsctx.ActorFromGin(c), storeID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	// Settlement moved total_paid; drop the cached store row.
	s.storeCache.Delete(storeID)
	c.JSON(http.StatusCreated, record)
}

type refundRequest struct {
	BillingID string `json:"billing_id"`
}

func (s *Server) RefundBilling(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	var req refundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	record, err := s.billingSvc.RefundBilling(c.Request.Context(), obsctx.ActorFromGin(c), storeID, req.BillingID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.storeCache.Delete(storeID)
	c.JSON(http.StatusOK, record)
}

func (s *Server) GetBilling(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}

	record, err := s.billingSvc.GetBilling(c.Request.Context(), storeID, c.Param("billing_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) ListBillings(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	resp, err := s.billingSvc.ListBillings(c.Request.Context(), storeID, billingdomain.ListBillingsRequest{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
