package models

// Document represents a governed compliance document.
type Document struct {
	ID             string `json:"id" gorm:"primaryKey;column:id"`
	TenantID       string `json:"tenant_id" gorm:"column:tenant_id;index"`
	Title          string `json:"title" gorm:"column:title"`
	Classification string `json:"classification" gorm:"column:classification"`
}

// TableName maps the model to its table.
func (Document) TableName() string { return "documents" }

// GetID implements Resource.
func (d *Document) GetID() string { return d.ID }

// GetTenantID implements Resource.
func (d *Document) GetTenantID() string { return d.TenantID }
