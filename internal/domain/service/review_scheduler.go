package service

import (
	"context"
	"time"

	"github.com/turtacn/grc/internal/domain/models"
	"github.com/turtacn/grc/internal/domain/repository"
	"github.com/turtacn/grc/pkg/constants"
	"github.com/turtacn/grc/pkg/logger"
)

// ReviewScheduler maps a risk's inherent score (probability x impact) to a
// review tier and schedules the next review date accordingly.
// ReviewScheduler 将风险固有评分（概率 x 影响）映射到复审分级并安排下次复审日期。
type ReviewScheduler struct {
	riskRepo repository.RiskRepository
	clock    Clock
	logger   logger.Logger
}

// NewReviewScheduler creates a new ReviewScheduler.
func NewReviewScheduler(riskRepo repository.RiskRepository, clock Clock, log logger.Logger) *ReviewScheduler {
	if clock == nil {
		clock = SystemClock()
	}
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &ReviewScheduler{
		riskRepo: riskRepo,
		clock:    clock,
		logger:   log.WithComponent("review_scheduler"),
	}
}

// ReviewSchedule returns the review interval in days per tier.
func (s *ReviewScheduler) ReviewSchedule() map[constants.ReviewTier]int {
	return map[constants.ReviewTier]int{
		constants.ReviewTierCritical: constants.ReviewIntervalCriticalDays,
		constants.ReviewTierHigh:     constants.ReviewIntervalHighDays,
		constants.ReviewTierMedium:   constants.ReviewIntervalMediumDays,
		constants.ReviewTierLow:      constants.ReviewIntervalLowDays,
	}
}

// ClassifyScore buckets a probability x impact score into a review tier.
// With ratings in 1..5 the score ranges 1..25: >=20 critical, >=12 high,
// >=6 medium, below that low.
func (s *ReviewScheduler) ClassifyScore(score int) constants.ReviewTier {
	switch {
	case score >= 20:
		return constants.ReviewTierCritical
	case score >= 12:
		return constants.ReviewTierHigh
	case score >= 6:
		return constants.ReviewTierMedium
	default:
		return constants.ReviewTierLow
	}
}

// TierForRisk classifies a risk by its inherent score.
func (s *ReviewScheduler) TierForRisk(risk *models.Risk) constants.ReviewTier {
	return s.ClassifyScore(risk.InherentScore())
}

// ScheduleNextReview computes the next review date from the risk's tier,
// sets it on the risk and, when persist is true, commits the change through
// the risk repository. The computed date is returned in every case, even
// when persistence fails.
func (s *ReviewScheduler) ScheduleNextReview(ctx context.Context, risk *models.Risk, persist bool) (time.Time, error) {
	tier := s.TierForRisk(risk)
	days := s.ReviewSchedule()[tier]
	next := s.clock.Now().AddDate(0, 0, days)
	risk.ReviewDate = &next

	s.logger.Debug(ctx, "next review scheduled", logger.Fields{
		"risk_id":     risk.ID,
		"tier":        string(tier),
		"review_date": next.Format(time.RFC3339),
	})

	if !persist {
		return next, nil
	}
	if err := s.riskRepo.Save(ctx, risk); err != nil {
		s.logger.Error(ctx, "failed to persist review date", err, logger.Fields{"risk_id": risk.ID})
		return next, err
	}
	return next, nil
}
