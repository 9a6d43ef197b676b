package models

import (
	"time"

	"github.com/turtacn/grc/pkg/constants"
)

// WorkflowInstance is a named workflow tracked by the external workflow
// engine, keyed by the (resource type, resource id) pair it was started for.
type WorkflowInstance struct {
	ID           string                   `json:"id" gorm:"primaryKey;column:id"`
	ResourceType constants.ResourceType   `json:"resource_type" gorm:"column:resource_type"`
	ResourceID   string                   `json:"resource_id" gorm:"column:resource_id"`
	Code         constants.WorkflowCode   `json:"code" gorm:"column:code"`
	Status       constants.WorkflowStatus `json:"status" gorm:"column:status"`
	CreatedAt    time.Time                `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time                `json:"updated_at" gorm:"column:updated_at"`
}

// TableName maps the model to its table.
func (WorkflowInstance) TableName() string { return "workflow_instances" }

// IsInProgress reports whether the instance is still running.
func (w *WorkflowInstance) IsInProgress() bool {
	return w.Status == constants.WorkflowStatusInProgress
}
