package audit_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/turtacn/grc/internal/domain/models"
	"github.com/turtacn/grc/internal/infrastructure/audit"
	"github.com/turtacn/grc/pkg/constants"
)

func TestGormAuditService_LogEvent(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	svc := audit.NewGormAuditService(db)
	require.NoError(t, svc.Migrate(context.Background()))

	event := models.AuditEvent{
		ID:           "evt-1",
		Type:         constants.AuditEventApprovalRouted,
		TenantID:     "t-1",
		ResourceType: constants.ResourceTypeTreatmentPlan,
		ResourceID:   "plan-1",
		Details: map[string]interface{}{
			"approval_level": "medium_cost",
			"budget":         25000.0,
		},
		OccurredAt: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, svc.LogEvent(context.Background(), event))

	var record audit.AuditRecord
	require.NoError(t, db.Where("id = ?", "evt-1").First(&record).Error)
	assert.Equal(t, constants.AuditEventApprovalRouted, record.Type)
	assert.Equal(t, "plan-1", record.ResourceID)
	assert.Contains(t, record.Details, "medium_cost")
}
