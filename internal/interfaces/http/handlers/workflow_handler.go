package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/grc/internal/application/dto"
	appsvc "github.com/turtacn/grc/internal/application/service"
	"github.com/turtacn/grc/internal/domain/repository"
	"github.com/turtacn/grc/internal/infrastructure/monitoring"
	"github.com/turtacn/grc/pkg/constants"
	"github.com/turtacn/grc/pkg/logger"
)

// WorkflowHandler serves the workflow-routing operations: treatment-plan
// approvals and incident-closure feedback.
type WorkflowHandler struct {
	planRepo     repository.TreatmentPlanRepository
	incidentRepo repository.IncidentRepository
	approval     appsvc.TreatmentApprovalService
	feedback     appsvc.IncidentFeedbackService
	metrics      *monitoring.Metrics
	logger       logger.Logger
}

// NewWorkflowHandler creates a new WorkflowHandler.
func NewWorkflowHandler(
	planRepo repository.TreatmentPlanRepository,
	incidentRepo repository.IncidentRepository,
	approval appsvc.TreatmentApprovalService,
	feedback appsvc.IncidentFeedbackService,
	metrics *monitoring.Metrics,
	log logger.Logger,
) *WorkflowHandler {
	return &WorkflowHandler{
		planRepo:     planRepo,
		incidentRepo: incidentRepo,
		approval:     approval,
		feedback:     feedback,
		metrics:      metrics,
		logger:       log,
	}
}

// RequestApproval routes a treatment plan into its approval workflow.
// Non-starts (already active, no definition, engine failure) are 200s with
// a structured reason.
func (h *WorkflowHandler) RequestApproval(c *gin.Context) {
	startTime := time.Now()

	plan, err := h.planRepo.FindByID(c.Request.Context(), c.Param("plan_id"))
	if err != nil {
		dto.SendError(c, err)
		return
	}

	result, err := h.approval.RequestApproval(c.Request.Context(), plan)
	if err != nil {
		dto.SendError(c, err)
		return
	}

	if h.metrics != nil {
		outcome := "not_started"
		if result.WorkflowStarted {
			outcome = "started"
		}
		h.metrics.RecordWorkflowStart(constants.WorkflowCodeTreatmentPlanApproval, outcome)
		h.metrics.RecordPolicyEvaluation("treatment_approval", plan.TenantID, outcome, time.Since(startTime))
	}

	status := http.StatusOK
	if result.WorkflowStarted {
		status = http.StatusCreated
	}
	dto.SendSuccess(c, status, result)
}

// ProcessIncidentClosure runs the feedback loop for a closed incident.
func (h *WorkflowHandler) ProcessIncidentClosure(c *gin.Context) {
	incident, err := h.incidentRepo.FindByID(c.Request.Context(), c.Param("incident_id"))
	if err != nil {
		dto.SendError(c, err)
		return
	}

	updated, err := h.feedback.ProcessIncidentClosure(c.Request.Context(), incident)
	if err != nil {
		dto.SendError(c, err)
		return
	}

	if h.metrics != nil && updated > 0 {
		h.metrics.RecordFeedbackTrigger(incident.TenantID, incident.Severity)
	}

	dto.SendSuccess(c, http.StatusOK, dto.IncidentClosureResponse{
		IncidentID:   incident.ID,
		RisksUpdated: updated,
	})
}
