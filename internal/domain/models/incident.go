package models

import (
	"time"

	"github.com/turtacn/grc/pkg/constants"
)

// Incident represents a security incident and its links to the risks it
// realized and the controls that failed to prevent it.
// Incident 代表一次安全事件，及其关联的已实现风险和失效的控制措施。
type Incident struct {
	ID       string `json:"id" gorm:"primaryKey;column:id"`
	Sequence int64  `json:"sequence" gorm:"column:sequence;autoIncrement"`
	TenantID string `json:"tenant_id" gorm:"column:tenant_id;index"`
	AssetID  string `json:"asset_id,omitempty" gorm:"column:asset_id;index"`
	Title    string `json:"title" gorm:"column:title"`

	// Status is the lifecycle status of the incident.
	Status constants.IncidentStatus `json:"status" gorm:"column:status"`

	// Severity classifies the impact of the incident.
	Severity constants.IncidentSeverity `json:"severity" gorm:"column:severity"`

	// DetectedAt is when the incident was first detected.
	DetectedAt time.Time `json:"detected_at" gorm:"column:detected_at"`

	// RealizedRisks are the risk records that materialized in this incident.
	// RealizedRisks 是在此事件中成为现实的风险记录。
	RealizedRisks []Risk `json:"realized_risks,omitempty" gorm:"many2many:incident_realized_risks"`

	// FailedControls are the controls that failed during this incident.
	FailedControls []Control `json:"failed_controls,omitempty" gorm:"many2many:incident_failed_controls"`
}

// TableName maps the model to its table.
func (Incident) TableName() string { return "incidents" }

// IsClosed reports whether the incident has been closed. The feedback loop
// only runs on closure.
func (i *Incident) IsClosed() bool {
	return i.Status == constants.IncidentStatusClosed
}

// HasRealizedRisks reports whether any risk materialized in this incident.
func (i *Incident) HasRealizedRisks() bool {
	return len(i.RealizedRisks) > 0
}

// HasFailedControls reports whether any control failed during this incident.
func (i *Incident) HasFailedControls() bool {
	return len(i.FailedControls) > 0
}
