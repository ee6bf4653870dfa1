package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	billingdomain "github.com/AvantStark/avant-stark-contract/internal/billing/domain"
	"github.com/AvantStark/avant-stark-contract/internal/cache"
	"github.com/AvantStark/avant-stark-contract/internal/config"
	"github.com/AvantStark/avant-stark-contract/internal/observability/logger"
	"github.com/AvantStark/avant-stark-contract/internal/observability/metrics"
	"github.com/AvantStark/avant-stark-contract/internal/observability/tracing"
	storedomain "github.com/AvantStark/avant-stark-contract/internal/store/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Cfg         config.Config
	Log         *zap.Logger
	DB          *gorm.DB
	StoreSvc    storedomain.Service
	BillingSvc  billingdomain.Service
	HTTPMetrics *metrics.HTTPMetrics `optional:"true"`
}

type Server struct {
	cfg        config.Config
	log        *zap.Logger
	db         *gorm.DB
	storeSvc   storedomain.Service
	billingSvc billingdomain.Service
	metrics    *metrics.HTTPMetrics

	// storeCache serves read traffic only; settlement paths load the store
	// inside their own transaction. Mutating handlers invalidate.
	storeCache cache.Cache[snowflake.ID, *storedomain.Store]
}

func New(p Params) *Server {
	return &Server{
		cfg:        p.Cfg,
		log:        p.Log.Named("server"),
		db:         p.DB,
		storeSvc:   p.StoreSvc,
		billingSvc: p.BillingSvc,
		metrics:    p.HTTPMetrics,
		storeCache: cache.New[snowflake.ID, *storedomain.Store](p.Cfg.StoreCacheTTL),
	}
}

// Router builds the gin engine with middleware and routes.
func (s *Server) Router() *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(logger.MiddlewareConfig{SkipPaths: []string{"/healthz"}}))
	r.Use(tracing.GinMiddleware(s.cfg.ServiceName))
	r.Use(metrics.GinMiddleware(s.metrics))
	r.Use(ActorMiddleware())

	r.GET("/healthz", s.Healthz)

	v1 := r.Group("/v1")
	{
		v1.POST("/stores", s.CreateStore)
		v1.GET("/stores/:store_id", s.GetStore)
		v1.PATCH("/stores/:store_id/name", s.UpdateStoreName)
		v1.PATCH("/stores/:store_id/wallet", s.UpdateWalletAddress)
		v1.PATCH("/stores/:store_id/token", s.UpdatePaymentToken)
		v1.POST("/stores/:store_id/payments", s.PayBilling)
		v1.POST("/stores/:store_id/refunds", s.RefundBilling)
		v1.GET("/stores/:store_id/billings", s.ListBillings)
		v1.GET("/stores/:store_id/billings/:billing_id", s.GetBilling)
	}

	return r
}

// Healthz reports process liveness and database reachability.
func (s *Server) Healthz(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

var Module = fx.Module("server",
	fx.Provide(New),
	fx.Invoke(Run),
)

// Run starts the HTTP listener under the fx lifecycle.
func Run(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			s.log.Info("http server listening", zap.String("addr", s.cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
