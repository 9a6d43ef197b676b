package workflow_test

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

	"github.com/turtacn/grc/internal/domain/service"
	"github.com/turtacn/grc/internal/infrastructure/workflow"
	"github.com/turtacn/grc/pkg/constants"
	"github.com/turtacn/grc/pkg/errors"

	"github.com/turtacn/grc/internal/domain/models"
)

var engineNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func setupEngine(t *testing.T) *workflow.GormWorkflowEngine {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.WorkflowInstance{}))
	require.NoError(t, db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_workflow_active
		 ON workflow_instances (resource_type, resource_id)
		 WHERE status = 'in_progress'`,
	).Error)

	clock := service.ClockFunc(func() time.Time { return engineNow })
	return workflow.NewGormWorkflowEngine(db, clock, nil)
}

func TestStartWorkflow(t *testing.T) {
	engine := setupEngine(t)
	ctx := context.Background()

	instance, err := engine.StartWorkflow(ctx, constants.ResourceTypeTreatmentPlan, "plan-1", constants.WorkflowCodeTreatmentPlanApproval)
	require.NoError(t, err)
	require.NotNil(t, instance)
	assert.NotEmpty(t, instance.ID)
	assert.True(t, instance.IsInProgress())
	assert.Equal(t, engineNow, instance.CreatedAt)

	found, err := engine.GetInstance(ctx, constants.ResourceTypeTreatmentPlan, "plan-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, instance.ID, found.ID)
}

func TestGetInstance_NoneIsNilNil(t *testing.T) {
	engine := setupEngine(t)

	instance, err := engine.GetInstance(context.Background(), constants.ResourceTypeRisk, "r-unknown")
	require.NoError(t, err)
	assert.Nil(t, instance)
}

func TestStartWorkflow_UnregisteredCodeIsNilNil(t *testing.T) {
	engine := setupEngine(t)
	engine.UnregisterDefinition(constants.WorkflowCodeRiskReevaluation)

	instance, err := engine.StartWorkflow(context.Background(), constants.ResourceTypeRisk, "r-1", constants.WorkflowCodeRiskReevaluation)
	require.NoError(t, err)
	assert.Nil(t, instance)
}

func TestStartWorkflow_SecondActiveStartConflicts(t *testing.T) {
	engine := setupEngine(t)
	ctx := context.Background()

	_, err := engine.StartWorkflow(ctx, constants.ResourceTypeTreatmentPlan, "plan-1", constants.WorkflowCodeTreatmentPlanApproval)
	require.NoError(t, err)

	_, err = engine.StartWorkflow(ctx, constants.ResourceTypeTreatmentPlan, "plan-1", constants.WorkflowCodeTreatmentPlanApproval)
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
}

func TestTransition_ReleasesResource(t *testing.T) {
	engine := setupEngine(t)
	ctx := context.Background()

	first, err := engine.StartWorkflow(ctx, constants.ResourceTypeTreatmentPlan, "plan-1", constants.WorkflowCodeTreatmentPlanApproval)
	require.NoError(t, err)

	require.NoError(t, engine.Transition(ctx, first.ID, constants.WorkflowStatusCompleted))

	second, err := engine.StartWorkflow(ctx, constants.ResourceTypeTreatmentPlan, "plan-1", constants.WorkflowCodeTreatmentPlanApproval)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestTransition_Guards(t *testing.T) {
	engine := setupEngine(t)
	ctx := context.Background()

	err := engine.Transition(ctx, "wf-missing", constants.WorkflowStatusCompleted)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	instance, err := engine.StartWorkflow(ctx, constants.ResourceTypeRisk, "r-1", constants.WorkflowCodeRiskReevaluation)
	require.NoError(t, err)

	err = engine.Transition(ctx, instance.ID, constants.WorkflowStatusInProgress)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidArgument, errors.CodeOf(err))
}
