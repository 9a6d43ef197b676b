package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/turtacn/grc/internal/domain/models"
	"github.com/turtacn/grc/pkg/constants"
)

// MockWorkflowEngine is a testify mock of the WorkflowEngine interface.
type MockWorkflowEngine struct {
	mock.Mock
}

func (m *MockWorkflowEngine) GetInstance(ctx context.Context, resourceType constants.ResourceType, resourceID string) (*models.WorkflowInstance, error) {
	args := m.Called(ctx, resourceType, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkflowInstance), args.Error(1)
}

func (m *MockWorkflowEngine) StartWorkflow(ctx context.Context, resourceType constants.ResourceType, resourceID string, code constants.WorkflowCode) (*models.WorkflowInstance, error) {
	args := m.Called(ctx, resourceType, resourceID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkflowInstance), args.Error(1)
}
