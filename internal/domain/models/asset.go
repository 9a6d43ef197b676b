package models

import "github.com/turtacn/grc/pkg/constants"

// Asset represents a protected asset with confidentiality, integrity and
// availability ratings and its linked risk, incident and control records.
// Asset 代表受保护的资产，包含机密性、完整性、可用性评级及其关联的风险、事件和控制措施。
type Asset struct {
	ID       string `json:"id" gorm:"primaryKey;column:id"`
	TenantID string `json:"tenant_id" gorm:"column:tenant_id;index"`
	Name     string `json:"name" gorm:"column:name"`

	// Confidentiality, Integrity and Availability are rated 1..5.
	Confidentiality int `json:"confidentiality" gorm:"column:confidentiality"`
	Integrity       int `json:"integrity" gorm:"column:integrity"`
	Availability    int `json:"availability" gorm:"column:availability"`

	// Risks are the risk records linked to this asset.
	Risks []Risk `json:"risks,omitempty" gorm:"foreignKey:AssetID"`

	// Incidents are the incident records linked to this asset.
	Incidents []Incident `json:"incidents,omitempty" gorm:"foreignKey:AssetID"`

	// Controls are the control records protecting this asset.
	Controls []Control `json:"controls,omitempty" gorm:"many2many:asset_controls"`
}

// TableName maps the model to its table.
func (Asset) TableName() string { return "assets" }

// GetID implements Resource.
func (a *Asset) GetID() string { return a.ID }

// GetTenantID implements Resource.
func (a *Asset) GetTenantID() string { return a.TenantID }

// HighestRating returns the maximum of the CIA ratings. A single high-value
// dimension drives the asset's overall exposure.
// HighestRating 返回 CIA 评级的最大值。单个高价值维度决定资产的整体暴露面。
func (a *Asset) HighestRating() int {
	max := a.Confidentiality
	if a.Integrity > max {
		max = a.Integrity
	}
	if a.Availability > max {
		max = a.Availability
	}
	return max
}

// ActiveRiskCount counts the linked risks that are currently active.
func (a *Asset) ActiveRiskCount() int {
	n := 0
	for i := range a.Risks {
		if a.Risks[i].Status == constants.RiskStatusActive {
			n++
		}
	}
	return n
}
