package audit

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/turtacn/grc/internal/domain/models"
	"github.com/turtacn/grc/internal/domain/service"
	"github.com/turtacn/grc/pkg/constants"
)

// AuditRecord is the relational projection of an audit event. Details are
// flattened to JSON so the table needs no per-event schema.
type AuditRecord struct {
	ID           string                   `gorm:"primaryKey;column:id"`
	Type         constants.AuditEventType `gorm:"column:type;index"`
	TenantID     string                   `gorm:"column:tenant_id;index"`
	ResourceType constants.ResourceType   `gorm:"column:resource_type"`
	ResourceID   string                   `gorm:"column:resource_id;index"`
	Details      string                   `gorm:"column:details"`
	OccurredAt   time.Time                `gorm:"column:occurred_at"`
}

// TableName maps the record to its table.
func (AuditRecord) TableName() string { return "audit_records" }

// GormAuditService stores audit events in the relational database. Used
// when no Kafka broker is configured.
type GormAuditService struct {
	db *gorm.DB
}

// NewGormAuditService creates a new GormAuditService.
func NewGormAuditService(db *gorm.DB) *GormAuditService {
	return &GormAuditService{db: db}
}

var _ service.AuditService = (*GormAuditService)(nil)

// Migrate creates the audit table.
func (s *GormAuditService) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&AuditRecord{})
}

// LogEvent saves an audit event to the database.
func (s *GormAuditService) LogEvent(ctx context.Context, event models.AuditEvent) error {
	details := ""
	if event.Details != nil {
		payload, err := json.Marshal(event.Details)
		if err != nil {
			return err
		}
		details = string(payload)
	}

	record := AuditRecord{
		ID:           event.ID,
		Type:         event.Type,
		TenantID:     event.TenantID,
		ResourceType: event.ResourceType,
		ResourceID:   event.ResourceID,
		Details:      details,
		OccurredAt:   event.OccurredAt,
	}
	return s.db.WithContext(ctx).Create(&record).Error
}
