package dto

import (
	"time"

	"github.com/turtacn/grc/internal/domain/service"
)

// AssetScoreResponse is the scoring view of a single asset.
type AssetScoreResponse struct {
	AssetID          string  `json:"asset_id"`
	Score            float64 `json:"score"`
	HighRisk         bool    `json:"high_risk"`
	ProtectionStatus string  `json:"protection_status"`
}

// ScopedRecordsResponse lists a tenant's visible records with per-record
// inheritance markers.
type ScopedRecordsResponse struct {
	TenantID string             `json:"tenant_id"`
	Records  []ScopedRecordItem `json:"records"`
	Stats    InheritanceStats   `json:"stats"`
}

// ScopedRecordItem is a single visible record.
type ScopedRecordItem struct {
	Record    interface{} `json:"record"`
	Inherited bool        `json:"inherited"`
	Editable  bool        `json:"editable"`
}

// InheritanceStats mirrors the accessor's visibility breakdown.
type InheritanceStats struct {
	Total     int `json:"total"`
	Own       int `json:"own"`
	Inherited int `json:"inherited"`
}

// FromServiceStats converts the accessor's stats type.
func FromServiceStats(s service.InheritanceStats) InheritanceStats {
	return InheritanceStats{Total: s.Total, Own: s.Own, Inherited: s.Inherited}
}

// GovernanceResponse is the resolved governance decision for a scope.
type GovernanceResponse struct {
	TenantID     string `json:"tenant_id"`
	ResourceType string `json:"resource_type"`
	HasParent    bool   `json:"has_parent"`
	CanInherit   bool   `json:"can_inherit"`
	Model        string `json:"governance_model,omitempty"`
}

// ReviewScheduleResponse is the outcome of scheduling a risk review.
type ReviewScheduleResponse struct {
	RiskID     string    `json:"risk_id"`
	Score      int       `json:"score"`
	Tier       string    `json:"tier"`
	ReviewDate time.Time `json:"review_date"`
}

// IncidentClosureResponse reports the feedback-loop outcome for a closure.
type IncidentClosureResponse struct {
	IncidentID   string `json:"incident_id"`
	RisksUpdated int    `json:"risks_updated"`
}
