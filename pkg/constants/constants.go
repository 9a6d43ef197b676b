// Package constants defines system-wide constants for the GRC policy core.
// This package provides type-safe constant definitions used across all modules.
package constants

import "time"

// ================================================================================
// Governance Model Constants
// ================================================================================

// GovernanceModel controls whether a child tenant inherits a parent's records
// for a given resource type.
// GovernanceModel 控制子租户是否继承父租户在给定资源类型下的记录。
type GovernanceModel string

const (
	// GovernanceHierarchical lets a child tenant read its parent's records in
	// addition to its own. Inherited records are read-only for the child.
	GovernanceHierarchical GovernanceModel = "hierarchical"

	// GovernanceShared scopes a tenant to its own records; the shared intent
	// only affects write rules enforced elsewhere, not resolution.
	GovernanceShared GovernanceModel = "shared"

	// GovernanceIndependent scopes a tenant strictly to its own records.
	GovernanceIndependent GovernanceModel = "independent"
)

// ParseGovernanceModel converts a stored string into a GovernanceModel.
// Unrecognized values return false; absence of configuration is not an error.
func ParseGovernanceModel(s string) (GovernanceModel, bool) {
	switch GovernanceModel(s) {
	case GovernanceHierarchical, GovernanceShared, GovernanceIndependent:
		return GovernanceModel(s), true
	default:
		return "", false
	}
}

// ================================================================================
// Resource Type Constants
// ================================================================================

// ResourceType tags the record families subject to per-scope governance.
// ResourceType 标记受分级治理约束的记录类别。
type ResourceType string

const (
	ResourceTypeAsset         ResourceType = "asset"
	ResourceTypeControl       ResourceType = "control"
	ResourceTypeDocument      ResourceType = "document"
	ResourceTypeRisk          ResourceType = "risk"
	ResourceTypeTreatmentPlan ResourceType = "risk_treatment_plan"
)

// ================================================================================
// Risk Constants
// ================================================================================

// RiskStatus represents the lifecycle status of a risk record.
type RiskStatus string

const (
	RiskStatusActive   RiskStatus = "active"
	RiskStatusClosed   RiskStatus = "closed"
	RiskStatusAccepted RiskStatus = "accepted"
)

const (
	// RatingMin and RatingMax bound confidentiality/integrity/availability
	// ratings as well as risk probability and impact.
	RatingMin = 1
	RatingMax = 5

	// HighRiskScoreThreshold is the asset risk score at or above which an
	// asset is classified as high risk.
	HighRiskScoreThreshold = 70.0

	// RecentIncidentWindow is how far back an incident still counts toward
	// an asset's risk score.
	RecentIncidentWindow = 6 * 30 * 24 * time.Hour
)

// ProtectionStatus classifies whether an asset's controls are sufficient
// relative to its active risk count.
type ProtectionStatus string

const (
	ProtectionAdequate    ProtectionStatus = "adequately_protected"
	ProtectionUnder       ProtectionStatus = "under_protected"
	ProtectionUnprotected ProtectionStatus = "unprotected"
)

// ================================================================================
// Review Tier Constants
// ================================================================================

// ReviewTier buckets a risk's probability x impact score into a review cadence.
type ReviewTier string

const (
	ReviewTierCritical ReviewTier = "critical"
	ReviewTierHigh     ReviewTier = "high"
	ReviewTierMedium   ReviewTier = "medium"
	ReviewTierLow      ReviewTier = "low"
)

const (
	// ReviewIntervalCriticalDays is the review interval for critical risks.
	ReviewIntervalCriticalDays = 90

	// ReviewIntervalHighDays is the review interval for high risks.
	ReviewIntervalHighDays = 180

	// ReviewIntervalMediumDays is the review interval for medium risks.
	ReviewIntervalMediumDays = 365

	// ReviewIntervalLowDays is the review interval for low risks.
	ReviewIntervalLowDays = 730
)

// ================================================================================
// Incident Constants
// ================================================================================

// IncidentStatus represents the lifecycle status of an incident.
type IncidentStatus string

const (
	IncidentStatusOpen          IncidentStatus = "open"
	IncidentStatusInvestigating IncidentStatus = "investigating"
	IncidentStatusClosed        IncidentStatus = "closed"
)

// IncidentSeverity classifies the impact of an incident.
type IncidentSeverity string

const (
	IncidentSeverityCritical IncidentSeverity = "critical"
	IncidentSeverityHigh     IncidentSeverity = "high"
	IncidentSeverityMedium   IncidentSeverity = "medium"
	IncidentSeverityLow      IncidentSeverity = "low"
)

const (
	// DefaultRelatedIncidentThreshold is the number of related incidents a
	// low-severity incident needs before it re-triggers risk evaluation.
	DefaultRelatedIncidentThreshold = 3

	// DefaultRelatedIncidentLookbackDays bounds the window in which related
	// incidents are counted for the low-severity gate.
	DefaultRelatedIncidentLookbackDays = 90
)

// ================================================================================
// Treatment Plan Approval Constants
// ================================================================================

// ApprovalLevel is the cost-based bucket determining which approval workflow
// applies to a treatment plan.
// ApprovalLevel 是基于成本的分级，决定处置计划适用的审批流程。
type ApprovalLevel string

const (
	ApprovalLevelLowCost    ApprovalLevel = "low_cost"
	ApprovalLevelMediumCost ApprovalLevel = "medium_cost"
	ApprovalLevelHighCost   ApprovalLevel = "high_cost"
)

const (
	// MediumCostBudgetThreshold is the budget at which a plan leaves the
	// low-cost bucket. The boundary value itself is medium cost.
	MediumCostBudgetThreshold = 10000.0

	// HighCostBudgetThreshold is the budget at which a plan enters the
	// high-cost bucket. The boundary value itself is high cost.
	HighCostBudgetThreshold = 50000.0
)

// ================================================================================
// Workflow Constants
// ================================================================================

// WorkflowCode identifies a workflow definition registered with the engine.
type WorkflowCode string

const (
	WorkflowCodeTreatmentPlanApproval WorkflowCode = "risk_treatment_plan_approval"
	WorkflowCodeRiskReevaluation      WorkflowCode = "risk_reevaluation"
)

// WorkflowStatus represents the status of a workflow instance.
type WorkflowStatus string

const (
	WorkflowStatusInProgress WorkflowStatus = "in_progress"
	WorkflowStatusCompleted  WorkflowStatus = "completed"
	WorkflowStatusCancelled  WorkflowStatus = "cancelled"
)

// ================================================================================
// Audit Event Constants
// ================================================================================

// AuditEventType identifies a recorded policy decision.
type AuditEventType string

const (
	AuditEventApprovalRouted    AuditEventType = "treatment_plan.approval_routed"
	AuditEventFeedbackTriggered AuditEventType = "incident.feedback_triggered"
	AuditEventReviewScheduled   AuditEventType = "risk.review_scheduled"
)

// ================================================================================
// Context Key Constants
// ================================================================================

// ContextKey is the type for request-scoped context values.
type ContextKey string

const (
	ContextKeyRequestID ContextKey = "request_id"
	ContextKeyTenantID  ContextKey = "tenant_id"
	ContextKeyTraceID   ContextKey = "trace_id"
)

// ================================================================================
// Cache Constants
// ================================================================================

const (
	// TenantContextCacheTTL is how long a resolved current-tenant entry is
	// reused within a session before it is looked up again.
	TenantContextCacheTTL = 5 * time.Minute

	// TenantContextCacheSweep is the eviction sweep interval for the
	// tenant-context cache.
	TenantContextCacheSweep = 10 * time.Minute

	// GovernanceCacheTTL bounds how long a resolved governance scope is
	// served from cache before the store is consulted again.
	GovernanceCacheTTL = 5 * time.Minute

	// WorkflowLockTTL is the expiry on cross-process approval locks so a
	// crashed owner cannot block a plan forever.
	WorkflowLockTTL = 30 * time.Second
)
