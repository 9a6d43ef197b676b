package models

// RiskTreatmentPlan represents a budgeted plan to treat a risk. Its budget
// determines the approval tier of the workflow routed for it.
// RiskTreatmentPlan 代表处理某项风险的预算计划。预算决定其审批分级。
type RiskTreatmentPlan struct {
	ID       string  `json:"id" gorm:"primaryKey;column:id"`
	TenantID string  `json:"tenant_id" gorm:"column:tenant_id;index"`
	RiskID   string  `json:"risk_id" gorm:"column:risk_id;index"`
	Title    string  `json:"title" gorm:"column:title"`
	Budget   float64 `json:"budget" gorm:"column:budget"`

	// Risk is the linked risk, populated by the persistence collaborator.
	Risk *Risk `json:"risk,omitempty" gorm:"foreignKey:RiskID"`
}

// TableName maps the model to its table.
func (RiskTreatmentPlan) TableName() string { return "risk_treatment_plans" }
