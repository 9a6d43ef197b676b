// Package http wires the gin engine, middleware, and route groups of the
// policy service.
package http

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/turtacn/grc/internal/config"
	"github.com/turtacn/grc/internal/interfaces/http/handlers"
	"github.com/turtacn/grc/pkg/logger"
)

// Router HTTP 路由器
type Router struct {
	engine          *gin.Engine
	config          *config.Config
	logger          logger.Logger
	healthHandler   *handlers.HealthHandler
	resourceHandler *handlers.ResourceHandler
	scoringHandler  *handlers.ScoringHandler
	workflowHandler *handlers.WorkflowHandler
	middleware      *handlers.Middleware
	server          *http.Server
}

// NewRouter 创建路由器
func NewRouter(
	cfg *config.Config,
	log logger.Logger,
	healthHandler *handlers.HealthHandler,
	resourceHandler *handlers.ResourceHandler,
	scoringHandler *handlers.ScoringHandler,
	workflowHandler *handlers.WorkflowHandler,
	middleware *handlers.Middleware,
) *Router {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	return &Router{
		engine:          gin.New(),
		config:          cfg,
		logger:          log,
		healthHandler:   healthHandler,
		resourceHandler: resourceHandler,
		scoringHandler:  scoringHandler,
		workflowHandler: workflowHandler,
		middleware:      middleware,
	}
}

// SetupRoutes 设置路由
func (r *Router) SetupRoutes() {
	r.engine.Use(gin.Recovery())
	r.engine.Use(r.middleware.RequestID())
	r.engine.Use(r.middleware.AccessLog())

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(r.config.Server.AllowedOrigins) == 1 && r.config.Server.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = r.config.Server.AllowedOrigins
	}
	r.engine.Use(cors.New(corsConfig))

	// 健康检查路由
	r.engine.GET("/health", r.healthHandler.ReadinessCheck)
	r.engine.GET("/ready", r.healthHandler.ReadinessCheck)
	r.engine.GET("/live", r.healthHandler.LivenessCheck)

	// Prometheus metrics
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Pprof 性能分析（仅在非生产环境）
	if r.config.Server.Environment != "production" {
		pprof.Register(r.engine)
	}

	v1 := r.engine.Group("/api/v1")
	{
		tenants := v1.Group("/tenants/:tenant_id")
		{
			tenants.GET("/governance/:resource_type", r.resourceHandler.GetGovernance)
			tenants.GET("/resources/:resource_type", r.resourceHandler.ListRecords)
			tenants.GET("/resources/:resource_type/stats", r.resourceHandler.GetStats)
		}

		v1.GET("/assets/:asset_id/score", r.scoringHandler.GetAssetScore)
		v1.POST("/risks/:risk_id/review", r.scoringHandler.ScheduleReview)
		v1.POST("/treatment-plans/:plan_id/approval", r.workflowHandler.RequestApproval)
		v1.POST("/incidents/:incident_id/closure", r.workflowHandler.ProcessIncidentClosure)
	}

	// 404 处理
	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":             "not_found",
			"error_description": "The requested resource was not found",
		})
	})
}

// Engine exposes the underlying gin engine, mainly for tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Start 启动 HTTP 服务器
func (r *Router) Start() error {
	r.SetupRoutes()

	addr := r.config.Server.Addr()
	r.server = &http.Server{
		Addr:           addr,
		Handler:        r.engine,
		ReadTimeout:    time.Duration(r.config.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(r.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(r.config.Server.IdleTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	r.logger.Info(context.Background(), "starting HTTP server", logger.Fields{"address": addr})

	go r.gracefulShutdown()

	if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

// gracefulShutdown 优雅关闭服务器
func (r *Router) gracefulShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	r.logger.Info(context.Background(), "shutting down HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := r.server.Shutdown(ctx); err != nil {
		r.logger.Error(ctx, "server forced to shutdown", err)
	}
}

// Stop 停止 HTTP 服务器
func (r *Router) Stop(ctx context.Context) error {
	if r.server == nil {
		return nil
	}
	return r.server.Shutdown(ctx)
}
