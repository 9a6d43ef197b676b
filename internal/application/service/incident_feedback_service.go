package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/grc/internal/domain/models"
	"github.com/turtacn/grc/internal/domain/repository"
	domainsvc "github.com/turtacn/grc/internal/domain/service"
	"github.com/turtacn/grc/pkg/constants"
	"github.com/turtacn/grc/pkg/logger"
)

// FeedbackConfig carries the tunable thresholds of the feedback loop. The
// gates themselves are named predicate methods so thresholds can move
// without touching control flow.
type FeedbackConfig struct {
	// RelatedIncidentThreshold is how many related incidents a low-severity
	// closure needs before it re-triggers evaluation.
	RelatedIncidentThreshold int

	// RelatedIncidentLookback bounds the window in which related incidents
	// are counted.
	RelatedIncidentLookback time.Duration
}

// DefaultFeedbackConfig returns the default gate thresholds.
func DefaultFeedbackConfig() FeedbackConfig {
	return FeedbackConfig{
		RelatedIncidentThreshold: constants.DefaultRelatedIncidentThreshold,
		RelatedIncidentLookback:  constants.DefaultRelatedIncidentLookbackDays * 24 * time.Hour,
	}
}

// IncidentFeedbackService re-evaluates risk likelihood after an incident
// closes. Each closure is processed once; non-applicable conditions are
// normal zero results, never errors.
// IncidentFeedbackService 在事件关闭后重新评估风险可能性。
// 每次关闭只处理一次；不满足触发条件时返回零值，而不是错误。
type IncidentFeedbackService interface {
	// ProcessIncidentClosure runs the feedback policy for a closed incident
	// and returns the number of risks actually updated.
	ProcessIncidentClosure(ctx context.Context, incident *models.Incident) (int, error)
}

type incidentFeedbackService struct {
	riskRepo     repository.RiskRepository
	incidentRepo repository.IncidentRepository
	engine       domainsvc.WorkflowEngine
	audit        domainsvc.AuditService
	clock        domainsvc.Clock
	cfg          FeedbackConfig
	logger       logger.Logger
}

// NewIncidentFeedbackService creates a new IncidentFeedbackService.
func NewIncidentFeedbackService(
	riskRepo repository.RiskRepository,
	incidentRepo repository.IncidentRepository,
	engine domainsvc.WorkflowEngine,
	audit domainsvc.AuditService,
	clock domainsvc.Clock,
	cfg FeedbackConfig,
	log logger.Logger,
) IncidentFeedbackService {
	if clock == nil {
		clock = domainsvc.SystemClock()
	}
	if log == nil {
		log = logger.NewNoopLogger()
	}
	if cfg.RelatedIncidentThreshold <= 0 {
		cfg.RelatedIncidentThreshold = constants.DefaultRelatedIncidentThreshold
	}
	if cfg.RelatedIncidentLookback <= 0 {
		cfg.RelatedIncidentLookback = constants.DefaultRelatedIncidentLookbackDays * 24 * time.Hour
	}
	return &incidentFeedbackService{
		riskRepo:     riskRepo,
		incidentRepo: incidentRepo,
		engine:       engine,
		audit:        audit,
		clock:        clock,
		cfg:          cfg,
		logger:       log.WithComponent("incident_feedback"),
	}
}

// ProcessIncidentClosure implements the feedback policy:
//
//  1. only closed incidents are processed
//  2. only incidents with realized risks are processed
//  3. likelihood increase derives from severity
//  4. medium severity requires failed controls, low severity requires a run
//     of related incidents; critical and high always proceed
//  5. each realized risk gets incident context appended, its likelihood
//     raised (capped at the rating maximum) and a re-evaluation workflow
//
// A single risk's failure never aborts the remaining batch.
func (s *incidentFeedbackService) ProcessIncidentClosure(ctx context.Context, incident *models.Incident) (int, error) {
	if incident == nil {
		return 0, fmt.Errorf("incident must not be nil")
	}
	if !incident.IsClosed() {
		return 0, nil
	}
	if !incident.HasRealizedRisks() {
		return 0, nil
	}

	triggered, err := s.ShouldTrigger(ctx, incident)
	if err != nil {
		return 0, err
	}
	if !triggered {
		s.logger.Debug(ctx, "feedback gate not met", logger.Fields{
			"incident_id": incident.ID,
			"severity":    string(incident.Severity),
		})
		return 0, nil
	}

	delta := s.LikelihoodIncrease(incident.Severity)
	updated := 0
	for i := range incident.RealizedRisks {
		if s.reevaluateRisk(ctx, incident, incident.RealizedRisks[i].ID, delta) {
			updated++
		}
	}

	if s.audit != nil && updated > 0 {
		event := models.AuditEvent{
			ID:           uuid.NewString(),
			Type:         constants.AuditEventFeedbackTriggered,
			TenantID:     incident.TenantID,
			ResourceType: constants.ResourceTypeRisk,
			ResourceID:   incident.ID,
			Details: map[string]interface{}{
				"severity":      string(incident.Severity),
				"risks_updated": updated,
			},
			OccurredAt: s.clock.Now(),
		}
		if err := s.audit.LogEvent(ctx, event); err != nil {
			s.logger.Warn(ctx, "failed to record feedback audit event", logger.Fields{"incident_id": incident.ID})
		}
	}

	return updated, nil
}

// LikelihoodIncrease maps an incident severity to the likelihood delta
// applied to each realized risk. Unrecognized severities contribute nothing.
func (s *incidentFeedbackService) LikelihoodIncrease(severity constants.IncidentSeverity) int {
	switch severity {
	case constants.IncidentSeverityCritical, constants.IncidentSeverityHigh:
		return 2
	case constants.IncidentSeverityMedium:
		return 1
	default:
		return 0
	}
}

// ShouldTrigger decides whether the closure re-triggers risk evaluation.
// Critical and high severities always trigger. Medium triggers only when
// controls failed. Low triggers only on a run of related incidents.
func (s *incidentFeedbackService) ShouldTrigger(ctx context.Context, incident *models.Incident) (bool, error) {
	switch incident.Severity {
	case constants.IncidentSeverityCritical, constants.IncidentSeverityHigh:
		return true, nil
	case constants.IncidentSeverityMedium:
		return incident.HasFailedControls(), nil
	case constants.IncidentSeverityLow:
		return s.hasRelatedIncidentRun(ctx, incident)
	default:
		return false, nil
	}
}

// hasRelatedIncidentRun is the low-severity gate: the incident must have at
// least the configured number of related incidents (same asset or sharing a
// realized risk) inside the lookback window.
func (s *incidentFeedbackService) hasRelatedIncidentRun(ctx context.Context, incident *models.Incident) (bool, error) {
	since := s.clock.Now().Add(-s.cfg.RelatedIncidentLookback)
	count, err := s.incidentRepo.CountRelated(ctx, incident, since)
	if err != nil {
		return false, err
	}
	return count >= s.cfg.RelatedIncidentThreshold, nil
}

// reevaluateRisk updates a single realized risk. Failures are logged and
// reported as a skipped risk so the rest of the batch still runs.
func (s *incidentFeedbackService) reevaluateRisk(ctx context.Context, incident *models.Incident, riskID string, delta int) bool {
	risk, err := s.riskRepo.FindByID(ctx, riskID)
	if err != nil {
		s.logger.Error(ctx, "failed to load realized risk", err, logger.Fields{
			"incident_id": incident.ID,
			"risk_id":     riskID,
		})
		return false
	}

	now := s.clock.Now()
	risk.AppendNote(now, fmt.Sprintf("likelihood re-evaluated after incident %s (severity %s)", incident.ID, incident.Severity))
	applied := risk.RaiseProbability(delta)

	if err := s.riskRepo.Save(ctx, risk); err != nil {
		s.logger.Error(ctx, "failed to save re-evaluated risk", err, logger.Fields{
			"incident_id": incident.ID,
			"risk_id":     riskID,
		})
		return false
	}

	s.startReevaluationWorkflow(ctx, risk)

	s.logger.Info(ctx, "risk re-evaluated after incident closure", logger.Fields{
		"incident_id":       incident.ID,
		"risk_id":           riskID,
		"likelihood_delta":  applied,
		"likelihood_rating": risk.Probability,
	})
	return true
}

// startReevaluationWorkflow starts a re-evaluation workflow keyed by the
// risk unless one is already running. Engine failures only affect the
// workflow side; the risk update above already counts.
func (s *incidentFeedbackService) startReevaluationWorkflow(ctx context.Context, risk *models.Risk) {
	existing, err := s.engine.GetInstance(ctx, constants.ResourceTypeRisk, risk.ID)
	if err != nil {
		s.logger.Warn(ctx, "workflow lookup failed", logger.Fields{"risk_id": risk.ID, "error": err.Error()})
		return
	}
	if existing != nil && existing.IsInProgress() {
		return
	}

	instance, err := s.engine.StartWorkflow(ctx, constants.ResourceTypeRisk, risk.ID, constants.WorkflowCodeRiskReevaluation)
	if err != nil {
		s.logger.Warn(ctx, "failed to start re-evaluation workflow", logger.Fields{"risk_id": risk.ID, "error": err.Error()})
		return
	}
	if instance == nil {
		s.logger.Debug(ctx, "no re-evaluation workflow definition registered", logger.Fields{"risk_id": risk.ID})
	}
}
