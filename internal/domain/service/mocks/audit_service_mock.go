package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/turtacn/grc/internal/domain/models"
)

// MockAuditService is a testify mock of the AuditService interface.
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) LogEvent(ctx context.Context, event models.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
