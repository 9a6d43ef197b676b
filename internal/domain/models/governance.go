package models

import "github.com/turtacn/grc/pkg/constants"

// GovernanceScope is a persisted governance configuration row. A scope is
// keyed by tenant and resource type; a row with an empty ResourceType is the
// tenant-wide default.
// GovernanceScope 是持久化的治理配置。按租户和资源类型定位；ResourceType 为空的行是租户级默认值。
type GovernanceScope struct {
	ID           string                    `json:"id" gorm:"primaryKey;column:id"`
	TenantID     string                    `json:"tenant_id" gorm:"column:tenant_id;index:idx_governance_scope,unique,priority:1"`
	ResourceType constants.ResourceType    `json:"resource_type" gorm:"column:resource_type;index:idx_governance_scope,unique,priority:2"`
	Model        constants.GovernanceModel `json:"model" gorm:"column:model"`
}

// TableName maps the model to its table.
func (GovernanceScope) TableName() string { return "governance_scopes" }

// InheritanceDecision is the outcome of governance resolution for a
// (tenant, resource type) pair.
type InheritanceDecision struct {
	// HasParent reports whether the tenant has a parent at all.
	HasParent bool `json:"has_parent"`

	// CanInherit reports whether the resolved model permits reading the
	// parent's records.
	CanInherit bool `json:"can_inherit"`

	// Model is the resolved governance model, nil when neither a scoped nor
	// a default configuration exists.
	Model *constants.GovernanceModel `json:"governance_model"`
}

// ModelName returns the resolved model as a string, or "" when unresolved.
func (d InheritanceDecision) ModelName() string {
	if d.Model == nil {
		return ""
	}
	return string(*d.Model)
}
