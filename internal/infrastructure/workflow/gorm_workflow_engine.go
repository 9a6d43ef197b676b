// Package workflow provides the database-backed workflow engine adapter.
// Instances are tracked in the workflow_instances table; a partial unique
// index on (resource_type, resource_id) for in-progress rows makes starts
// race-safe across processes.
package workflow

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/turtacn/grc/internal/domain/models"
	domainsvc "github.com/turtacn/grc/internal/domain/service"
	"github.com/turtacn/grc/pkg/constants"
	"github.com/turtacn/grc/pkg/errors"
	"github.com/turtacn/grc/pkg/logger"
)

// GormWorkflowEngine implements the WorkflowEngine contract on top of a
// relational instance store and an in-memory definition registry.
// GormWorkflowEngine 基于关系型实例存储和内存中的流程定义注册表实现工作流引擎契约。
type GormWorkflowEngine struct {
	db     *gorm.DB
	clock  domainsvc.Clock
	logger logger.Logger

	mu          sync.RWMutex
	definitions map[constants.WorkflowCode]struct{}
}

// NewGormWorkflowEngine creates an engine with the standard policy workflow
// definitions registered.
func NewGormWorkflowEngine(db *gorm.DB, clock domainsvc.Clock, log logger.Logger) *GormWorkflowEngine {
	if clock == nil {
		clock = domainsvc.SystemClock()
	}
	if log == nil {
		log = logger.NewNoopLogger()
	}
	engine := &GormWorkflowEngine{
		db:          db,
		clock:       clock,
		logger:      log.WithComponent("workflow_engine"),
		definitions: map[constants.WorkflowCode]struct{}{},
	}
	engine.RegisterDefinition(constants.WorkflowCodeTreatmentPlanApproval)
	engine.RegisterDefinition(constants.WorkflowCodeRiskReevaluation)
	return engine
}

// RegisterDefinition makes a workflow code startable.
func (e *GormWorkflowEngine) RegisterDefinition(code constants.WorkflowCode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.definitions[code] = struct{}{}
}

// UnregisterDefinition removes a workflow code. Running instances are not
// affected.
func (e *GormWorkflowEngine) UnregisterDefinition(code constants.WorkflowCode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.definitions, code)
}

func (e *GormWorkflowEngine) hasDefinition(code constants.WorkflowCode) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.definitions[code]
	return ok
}

// GetInstance looks up the most recent instance tracked for the resource.
// No instance is (nil, nil).
func (e *GormWorkflowEngine) GetInstance(ctx context.Context, resourceType constants.ResourceType, resourceID string) (*models.WorkflowInstance, error) {
	var instance models.WorkflowInstance
	err := e.db.WithContext(ctx).
		Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("created_at DESC").
		First(&instance).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "workflow instance lookup failed")
	}
	return &instance, nil
}

// StartWorkflow creates a new in-progress instance keyed by the resource.
// An unregistered code is (nil, nil). When a concurrent caller won the race
// for the same resource the unique index rejects the insert and a conflict
// error is returned.
func (e *GormWorkflowEngine) StartWorkflow(ctx context.Context, resourceType constants.ResourceType, resourceID string, code constants.WorkflowCode) (*models.WorkflowInstance, error) {
	if !e.hasDefinition(code) {
		return nil, nil
	}

	now := e.clock.Now()
	instance := &models.WorkflowInstance{
		ID:           uuid.NewString(),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Code:         code,
		Status:       constants.WorkflowStatusInProgress,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := e.db.WithContext(ctx).Create(instance).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			e.logger.Debug(ctx, "workflow already active for resource", logger.Fields{
				"resource_type": string(resourceType),
				"resource_id":   resourceID,
			})
			return nil, errors.Newf(errors.CodeConflict, "workflow already active for %s %s", resourceType, resourceID)
		}
		e.logger.Error(ctx, "failed to create workflow instance", err, logger.Fields{
			"resource_type": string(resourceType),
			"resource_id":   resourceID,
			"code":          string(code),
		})
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to create workflow instance")
	}

	e.logger.Info(ctx, "workflow started", logger.Fields{
		"workflow_id":   instance.ID,
		"resource_type": string(resourceType),
		"resource_id":   resourceID,
		"code":          string(code),
	})
	return instance, nil
}

// Transition moves an instance out of the in-progress state, releasing the
// resource for future workflows.
func (e *GormWorkflowEngine) Transition(ctx context.Context, instanceID string, status constants.WorkflowStatus) error {
	if status == constants.WorkflowStatusInProgress {
		return errors.New(errors.CodeInvalidArgument, "cannot transition back to in_progress")
	}

	result := e.db.WithContext(ctx).
		Model(&models.WorkflowInstance{}).
		Where("id = ? AND status = ?", instanceID, constants.WorkflowStatusInProgress).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": e.clock.Now(),
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.CodeInternal, "workflow transition failed")
	}
	if result.RowsAffected == 0 {
		return errors.Newf(errors.CodeNotFound, "no in-progress workflow instance %s", instanceID)
	}
	return nil
}
