package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/grc/internal/application/dto"
	"github.com/turtacn/grc/internal/domain/repository"
	"github.com/turtacn/grc/internal/domain/service"
	"github.com/turtacn/grc/internal/infrastructure/monitoring"
	"github.com/turtacn/grc/pkg/logger"
)

// ScoringHandler serves asset risk scores and review scheduling.
type ScoringHandler struct {
	assetRepo repository.AssetRepository
	riskRepo  repository.RiskRepository
	scoring   *service.RiskScoringService
	scheduler *service.ReviewScheduler
	metrics   *monitoring.Metrics
	logger    logger.Logger
}

// NewScoringHandler creates a new ScoringHandler.
func NewScoringHandler(
	assetRepo repository.AssetRepository,
	riskRepo repository.RiskRepository,
	scoring *service.RiskScoringService,
	scheduler *service.ReviewScheduler,
	metrics *monitoring.Metrics,
	log logger.Logger,
) *ScoringHandler {
	return &ScoringHandler{
		assetRepo: assetRepo,
		riskRepo:  riskRepo,
		scoring:   scoring,
		scheduler: scheduler,
		metrics:   metrics,
		logger:    log,
	}
}

// GetAssetScore computes the composite risk score and protection status of
// an asset.
func (h *ScoringHandler) GetAssetScore(c *gin.Context) {
	startTime := time.Now()

	asset, err := h.assetRepo.FindByID(c.Request.Context(), c.Param("asset_id"))
	if err != nil {
		dto.SendError(c, err)
		return
	}

	score := h.scoring.CalculateRiskScore(asset)
	if h.metrics != nil {
		h.metrics.RecordPolicyEvaluation("risk_scoring", asset.TenantID, "success", time.Since(startTime))
	}

	dto.SendSuccess(c, http.StatusOK, dto.AssetScoreResponse{
		AssetID:          asset.ID,
		Score:            score,
		HighRisk:         h.scoring.IsHighRisk(asset),
		ProtectionStatus: string(h.scoring.ProtectionStatus(asset)),
	})
}

// ScheduleReview classifies a risk and persists its next review date.
func (h *ScoringHandler) ScheduleReview(c *gin.Context) {
	risk, err := h.riskRepo.FindByID(c.Request.Context(), c.Param("risk_id"))
	if err != nil {
		dto.SendError(c, err)
		return
	}

	next, err := h.scheduler.ScheduleNextReview(c.Request.Context(), risk, true)
	if err != nil {
		dto.SendError(c, err)
		return
	}

	dto.SendSuccess(c, http.StatusOK, dto.ReviewScheduleResponse{
		RiskID:     risk.ID,
		Score:      risk.InherentScore(),
		Tier:       string(h.scheduler.TierForRisk(risk)),
		ReviewDate: next,
	})
}
