package main

import (
	"context"
	"log"
	"time"

	appservice "github.com/turtacn/grc/internal/application/service"
	"github.com/turtacn/grc/internal/config"
	"github.com/turtacn/grc/internal/domain/models"
	domainservice "github.com/turtacn/grc/internal/domain/service"
	"github.com/turtacn/grc/internal/infrastructure/audit"
	"github.com/turtacn/grc/internal/infrastructure/cache"
	"github.com/turtacn/grc/internal/infrastructure/monitoring"
	"github.com/turtacn/grc/internal/infrastructure/persistence/postgres"
	redisinfra "github.com/turtacn/grc/internal/infrastructure/redis"
	"github.com/turtacn/grc/internal/infrastructure/workflow"
	"github.com/turtacn/grc/internal/interfaces/http"
	"github.com/turtacn/grc/internal/interfaces/http/handlers"
	"github.com/turtacn/grc/pkg/constants"
)

func main() {
	ctx := context.Background()

	// Logger for startup
	startupLogger, _ := monitoring.NewZapLogger(&config.LogConfig{Level: "info"})

	// Load config
	cfg, err := config.LoadConfig(startupLogger)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	// Initialize tracing
	tracing, err := monitoring.NewTracingManager(cfg, appLogger)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to initialize tracing", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = tracing.Shutdown(shutdownCtx)
	}()

	// Initialize database
	db, err := postgres.NewDBConnection(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to connect to database", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		appLogger.Fatal(ctx, "Failed to migrate schema", err)
	}

	// Initialize Redis
	rdb, err := redisinfra.NewClient(ctx, &cfg.Redis, appLogger)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to connect to Redis", err)
	}
	defer rdb.Close()

	workflowLock := redisinfra.NewWorkflowLock(rdb, cfg.Policy.WorkflowLockTTL, appLogger)

	// Initialize audit sink: Kafka when configured, relational otherwise.
	var auditSvc domainservice.AuditService
	if cfg.Kafka.Enabled {
		producer, err := audit.NewKafkaProducer(cfg.Kafka, appLogger)
		if err != nil {
			appLogger.Fatal(ctx, "Failed to create Kafka audit producer", err)
		}
		auditSvc = producer
	} else {
		gormAudit := audit.NewGormAuditService(db.DB())
		if err := gormAudit.Migrate(ctx); err != nil {
			appLogger.Fatal(ctx, "Failed to migrate audit table", err)
		}
		auditSvc = gormAudit
	}

	metrics := monitoring.NewMetrics()

	// Initialize repositories
	tenantRepo := cache.NewTenantContextCache(postgres.NewTenantRepository(db.DB(), appLogger))
	governanceRepo := cache.NewGovernanceCache(postgres.NewGovernanceRepository(db.DB(), appLogger), cfg.Policy.GovernanceCacheTTL)
	assetRepo := postgres.NewAssetRepository(db.DB(), appLogger)
	riskRepo := postgres.NewRiskRepository(db.DB(), appLogger)
	incidentRepo := postgres.NewIncidentRepository(db.DB(), appLogger)
	planRepo := postgres.NewTreatmentPlanRepository(db.DB(), appLogger)

	scopedAssets := postgres.NewScopedRepository[*models.Asset](db.DB(), appLogger)
	scopedControls := postgres.NewScopedRepository[*models.Control](db.DB(), appLogger)
	scopedDocuments := postgres.NewScopedRepository[*models.Document](db.DB(), appLogger)

	// Initialize domain services
	clock := domainservice.SystemClock()
	resolver := domainservice.NewGovernanceResolver(governanceRepo, appLogger)
	scoring := domainservice.NewRiskScoringService(clock)
	scheduler := domainservice.NewReviewScheduler(riskRepo, clock, appLogger)

	assetAccessor := domainservice.NewScopedAccessorWithGovernance[*models.Asset](constants.ResourceTypeAsset, scopedAssets, resolver, appLogger)
	controlAccessor := domainservice.NewScopedAccessorWithGovernance[*models.Control](constants.ResourceTypeControl, scopedControls, resolver, appLogger)
	documentAccessor := domainservice.NewScopedAccessorWithGovernance[*models.Document](constants.ResourceTypeDocument, scopedDocuments, resolver, appLogger)

	engine := workflow.NewGormWorkflowEngine(db.DB(), clock, appLogger)

	// Initialize application services
	feedbackSvc := appservice.NewIncidentFeedbackService(
		riskRepo, incidentRepo, engine, auditSvc, clock,
		appservice.FeedbackConfig{
			RelatedIncidentThreshold: cfg.Policy.RelatedIncidentThreshold,
			RelatedIncidentLookback:  time.Duration(cfg.Policy.RelatedIncidentLookbackDays) * 24 * time.Hour,
		},
		appLogger,
	)
	approvalSvc := appservice.NewTreatmentApprovalServiceWithLock(engine, auditSvc, clock, appLogger, workflowLock)

	// Initialize HTTP handlers and router
	resourceHandler := handlers.NewResourceHandler(tenantRepo, resolver, assetAccessor, controlAccessor, documentAccessor, metrics, appLogger)
	scoringHandler := handlers.NewScoringHandler(assetRepo, riskRepo, scoring, scheduler, metrics, appLogger)
	workflowHandler := handlers.NewWorkflowHandler(planRepo, incidentRepo, approvalSvc, feedbackSvc, metrics, appLogger)
	healthHandler := handlers.NewHealthHandler(db, appLogger)
	middleware := handlers.NewMiddleware(appLogger)

	router := http.NewRouter(cfg, appLogger, healthHandler, resourceHandler, scoringHandler, workflowHandler, middleware)
	if err := router.Start(); err != nil {
		appLogger.Fatal(ctx, "HTTP server failed", err)
	}
}
