package models

import (
	"time"

	"github.com/turtacn/grc/pkg/constants"
)

// AuditEvent records a policy decision for the audit trail.
type AuditEvent struct {
	ID           string                   `json:"id"`
	Type         constants.AuditEventType `json:"type"`
	TenantID     string                   `json:"tenant_id,omitempty"`
	ResourceType constants.ResourceType   `json:"resource_type,omitempty"`
	ResourceID   string                   `json:"resource_id,omitempty"`
	Details      map[string]interface{}   `json:"details,omitempty"`
	OccurredAt   time.Time                `json:"occurred_at"`
}
