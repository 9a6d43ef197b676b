package models

// Control represents a protecting control measure. The implementation
// percentage is recorded for reporting but is not a scoring input.
type Control struct {
	ID       string `json:"id" gorm:"primaryKey;column:id"`
	TenantID string `json:"tenant_id" gorm:"column:tenant_id;index"`
	Name     string `json:"name" gorm:"column:name"`

	// ImplementationPct is the completion percentage of the control, 0..100.
	ImplementationPct int `json:"implementation_pct" gorm:"column:implementation_pct"`
}

// TableName maps the model to its table.
func (Control) TableName() string { return "controls" }

// GetID implements Resource.
func (c *Control) GetID() string { return c.ID }

// GetTenantID implements Resource.
func (c *Control) GetTenantID() string { return c.TenantID }
