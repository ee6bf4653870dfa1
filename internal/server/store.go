package server

import (
	"net/http"
	"strconv"
	"strings"

	obsctx "github.com/AvantStark/avant-stark-contract/internal/observability/context"
	storedomain "github.com/AvantStark/avant-stark-contract/internal/store/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateStore(c *gin.Context) {
	var req storedomain.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	store, err := s.storeSvc.CreateStore(c.Request.Context(), obsctx.ActorFromGin(c), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, store)
}

func (s *Server) GetStore(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}

	if store, ok := s.storeCache.Get(storeID); ok {
		c.JSON(http.StatusOK, store)
		return
	}

	store, err := s.storeSvc.GetStore(c.Request.Context(), storeID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.storeCache.Set(storeID, store)
	c.JSON(http.StatusOK, store)
}

type updateNameRequest struct {
	Name string `json:"name"`
}

func (s *Server) UpdateStoreName(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	var req updateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.storeSvc.UpdateStoreName(c.Request.Context(), obsctx.ActorFromGin(c), storeID, req.Name); err != nil {
		AbortWithError(c, err)
		return
	}
	s.storeCache.Delete(storeID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type updateAddressRequest struct {
	Address string `json:"address"`
}

func (s *Server) UpdateWalletAddress(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	var req updateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.storeSvc.UpdateWalletAddress(c.Request.Context(), obsctx.ActorFromGin(c), storeID, req.Address); err != nil {
		AbortWithError(c, err)
		return
	}
	s.storeCache.Delete(storeID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) UpdatePaymentToken(c *gin.Context) {
	storeID, ok := parseStoreID(c)
	if !ok {
		return
	}
	var req updateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.storeSvc.UpdatePaymentToken(c.Request.Context(), obsctx.ActorFromGin(c), storeID, req.Address); err != nil {
		AbortWithError(c, err)
		return
	}
	s.storeCache.Delete(storeID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func parseStoreID(c *gin.Context) (snowflake.ID, bool) {
	raw := strings.TrimSpace(c.Param("store_id"))
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed <= 0 {
		AbortWithError(c, storedomain.ErrStoreNotFound)
		return 0, false
	}
	c.Request = c.Request.WithContext(obsctx.WithStoreID(c.Request.Context(), raw))
	return snowflake.ID(parsed), true
}
