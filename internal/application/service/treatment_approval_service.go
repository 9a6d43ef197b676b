package service

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/grc/internal/domain/models"
	domainsvc "github.com/turtacn/grc/internal/domain/service"
	"github.com/turtacn/grc/pkg/constants"
	"github.com/turtacn/grc/pkg/errors"
	"github.com/turtacn/grc/pkg/logger"
)

// Structured reasons for approval requests that did not start a workflow.
const (
	ReasonWorkflowAlreadyActive = "workflow_already_active"
	ReasonNoWorkflowDefinition  = "no_workflow_definition"
	ReasonWorkflowStartFailed   = "workflow_start_failed"
)

// ApprovalResult is the structured outcome of an approval request. Callers
// always receive a well-formed result; engine failures are folded into it.
type ApprovalResult struct {
	WorkflowStarted bool                    `json:"workflow_started"`
	ApprovalLevel   constants.ApprovalLevel `json:"approval_level,omitempty"`
	WorkflowID      string                  `json:"workflow_id,omitempty"`
	Reason          string                  `json:"reason,omitempty"`
	Message         string                  `json:"message,omitempty"`
	Error           string                  `json:"error,omitempty"`
}

// TreatmentApprovalService routes treatment-plan approvals through the
// workflow engine based on the plan's budget tier.
// TreatmentApprovalService 根据处置计划的预算分级，将审批请求路由到工作流引擎。
type TreatmentApprovalService interface {
	// ClassifyBudget buckets a budget into an approval level.
	ClassifyBudget(budget float64) constants.ApprovalLevel

	// RequestApproval starts the approval workflow for a plan, idempotently:
	// while an instance for the plan is active no second one is started.
	RequestApproval(ctx context.Context, plan *models.RiskTreatmentPlan) (*ApprovalResult, error)
}

type treatmentApprovalService struct {
	engine domainsvc.WorkflowEngine
	audit  domainsvc.AuditService
	clock  domainsvc.Clock
	locker domainsvc.ResourceLocker
	logger logger.Logger

	// flight collapses concurrent in-process approval requests per plan so
	// two callers cannot both pass the "no existing workflow" check. The
	// workflow store's unique key on (resource type, resource id) covers
	// callers in other processes.
	flight singleflight.Group
}

// NewTreatmentApprovalService creates a new TreatmentApprovalService.
func NewTreatmentApprovalService(
	engine domainsvc.WorkflowEngine,
	audit domainsvc.AuditService,
	clock domainsvc.Clock,
	log logger.Logger,
) TreatmentApprovalService {
	return NewTreatmentApprovalServiceWithLock(engine, audit, clock, log, nil)
}

// NewTreatmentApprovalServiceWithLock additionally guards workflow starts
// with a cross-process lock. A nil locker degrades to in-process collapsing
// only.
func NewTreatmentApprovalServiceWithLock(
	engine domainsvc.WorkflowEngine,
	audit domainsvc.AuditService,
	clock domainsvc.Clock,
	log logger.Logger,
	locker domainsvc.ResourceLocker,
) TreatmentApprovalService {
	if clock == nil {
		clock = domainsvc.SystemClock()
	}
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &treatmentApprovalService{
		engine: engine,
		audit:  audit,
		clock:  clock,
		locker: locker,
		logger: log.WithComponent("treatment_approval"),
	}
}

// ClassifyBudget buckets a budget into an approval level. Boundaries belong
// to the higher bucket: exactly 10000 is medium cost, exactly 50000 is high
// cost.
func (s *treatmentApprovalService) ClassifyBudget(budget float64) constants.ApprovalLevel {
	switch {
	case budget < constants.MediumCostBudgetThreshold:
		return constants.ApprovalLevelLowCost
	case budget < constants.HighCostBudgetThreshold:
		return constants.ApprovalLevelMediumCost
	default:
		return constants.ApprovalLevelHighCost
	}
}

// RequestApproval looks up an existing workflow for the plan and, when none
// is active, starts a risk_treatment_plan_approval workflow. Expected
// non-starts (already active, no definition, engine failure) are structured
// results with a reason code, never raised errors.
func (s *treatmentApprovalService) RequestApproval(ctx context.Context, plan *models.RiskTreatmentPlan) (*ApprovalResult, error) {
	if plan == nil || plan.ID == "" {
		return nil, errors.New(errors.CodeInvalidArgument, "treatment plan with a persisted id is required")
	}

	key := string(constants.ResourceTypeTreatmentPlan) + ":" + plan.ID
	v, err, _ := s.flight.Do(key, func() (interface{}, error) {
		return s.requestApproval(ctx, plan)
	})
	if err != nil {
		return nil, err
	}
	return v.(*ApprovalResult), nil
}

func (s *treatmentApprovalService) requestApproval(ctx context.Context, plan *models.RiskTreatmentPlan) (*ApprovalResult, error) {
	if s.locker != nil {
		key := string(constants.ResourceTypeTreatmentPlan) + ":" + plan.ID
		release, acquired, err := s.locker.TryAcquire(ctx, key)
		switch {
		case err != nil:
			// Lock service trouble degrades to the store's unique index.
			s.logger.Warn(ctx, "approval lock unavailable, relying on store constraint", logger.Fields{
				"plan_id": plan.ID,
				"error":   err.Error(),
			})
		case !acquired:
			return &ApprovalResult{
				WorkflowStarted: false,
				Reason:          ReasonWorkflowAlreadyActive,
				Message:         "an approval request for this plan is already being processed",
			}, nil
		default:
			defer release()
		}
	}

	existing, err := s.engine.GetInstance(ctx, constants.ResourceTypeTreatmentPlan, plan.ID)
	if err != nil {
		s.logger.Error(ctx, "workflow lookup failed", err, logger.Fields{"plan_id": plan.ID})
		return &ApprovalResult{
			WorkflowStarted: false,
			Reason:          ReasonWorkflowStartFailed,
			Error:           err.Error(),
		}, nil
	}
	if existing != nil && existing.IsInProgress() {
		return &ApprovalResult{
			WorkflowStarted: false,
			Reason:          ReasonWorkflowAlreadyActive,
			WorkflowID:      existing.ID,
		}, nil
	}

	instance, err := s.engine.StartWorkflow(ctx, constants.ResourceTypeTreatmentPlan, plan.ID, constants.WorkflowCodeTreatmentPlanApproval)
	if err != nil {
		s.logger.Error(ctx, "failed to start approval workflow", err, logger.Fields{"plan_id": plan.ID})
		return &ApprovalResult{
			WorkflowStarted: false,
			Reason:          ReasonWorkflowStartFailed,
			Error:           err.Error(),
		}, nil
	}
	if instance == nil {
		return &ApprovalResult{
			WorkflowStarted: false,
			Reason:          ReasonNoWorkflowDefinition,
			Message:         "no workflow definition registered for " + string(constants.WorkflowCodeTreatmentPlanApproval),
		}, nil
	}

	level := s.ClassifyBudget(plan.Budget)
	s.recordApprovalRouted(ctx, plan, level, instance.ID)

	return &ApprovalResult{
		WorkflowStarted: true,
		ApprovalLevel:   level,
		WorkflowID:      instance.ID,
	}, nil
}

func (s *treatmentApprovalService) recordApprovalRouted(ctx context.Context, plan *models.RiskTreatmentPlan, level constants.ApprovalLevel, workflowID string) {
	if s.audit == nil {
		return
	}
	event := models.AuditEvent{
		ID:           uuid.NewString(),
		Type:         constants.AuditEventApprovalRouted,
		TenantID:     plan.TenantID,
		ResourceType: constants.ResourceTypeTreatmentPlan,
		ResourceID:   plan.ID,
		Details: map[string]interface{}{
			"approval_level": string(level),
			"workflow_id":    workflowID,
			"budget":         plan.Budget,
		},
		OccurredAt: s.clock.Now(),
	}
	if err := s.audit.LogEvent(ctx, event); err != nil {
		s.logger.Warn(ctx, "failed to record approval audit event", logger.Fields{"plan_id": plan.ID})
	}
}
