package service

import (
	"github.com/turtacn/grc/internal/domain/models"
	"github.com/turtacn/grc/pkg/constants"
)

// Scoring formula weights. Controls reduce the score by a flat amount
// regardless of their implementation percentage; the percentage is recorded
// for reporting only.
const (
	baseScoreWeight      = 10.0
	activeRiskWeight     = 5.0
	recentIncidentWeight = 10.0
	controlWeight        = 3.0
)

// RiskScoringService computes an asset's 0..100 risk exposure score, its
// high-risk classification and its protection status. All functions are
// deterministic given the injected clock.
//
// The CIA base uses a weakest-link-is-worst rule: the maximum rating, not
// the average, because a single high-value dimension drives overall
// exposure.
// RiskScoringService 计算资产的风险暴露评分（0..100）、高风险判定和保护状态。
// CIA 基准采用"短板即最差"规则：取最大评级而非平均值。
type RiskScoringService struct {
	clock Clock
}

// NewRiskScoringService creates a new RiskScoringService.
func NewRiskScoringService(clock Clock) *RiskScoringService {
	if clock == nil {
		clock = SystemClock()
	}
	return &RiskScoringService{clock: clock}
}

// CalculateRiskScore computes the asset's risk score, clamped to [0, 100]:
//
//	max(C,I,A)*10 + activeRisks*5 + recentIncidents*10 - controls*3
//
// Recent incidents are those detected within the last six months.
func (s *RiskScoringService) CalculateRiskScore(asset *models.Asset) float64 {
	score := float64(asset.HighestRating()) * baseScoreWeight
	score += float64(asset.ActiveRiskCount()) * activeRiskWeight
	score += float64(s.recentIncidentCount(asset)) * recentIncidentWeight
	score -= float64(len(asset.Controls)) * controlWeight

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// IsHighRisk reports whether the asset's score meets the high-risk
// threshold.
func (s *RiskScoringService) IsHighRisk(asset *models.Asset) bool {
	return s.CalculateRiskScore(asset) >= constants.HighRiskScoreThreshold
}

// ProtectionStatus classifies whether the asset's controls are sufficient
// relative to its active risk count. With zero active risks there is no
// exposure to protect against, so the asset is adequately protected no
// matter how many controls it has.
func (s *RiskScoringService) ProtectionStatus(asset *models.Asset) constants.ProtectionStatus {
	activeRisks := asset.ActiveRiskCount()
	if activeRisks == 0 {
		return constants.ProtectionAdequate
	}
	controls := len(asset.Controls)
	if controls == 0 {
		return constants.ProtectionUnprotected
	}
	if controls < activeRisks {
		return constants.ProtectionUnder
	}
	return constants.ProtectionAdequate
}

// recentIncidentCount counts incidents detected inside the recency window.
func (s *RiskScoringService) recentIncidentCount(asset *models.Asset) int {
	cutoff := s.clock.Now().Add(-constants.RecentIncidentWindow)
	n := 0
	for i := range asset.Incidents {
		if !asset.Incidents[i].DetectedAt.Before(cutoff) {
			n++
		}
	}
	return n
}
