package service

import (
	"context"
	"time"

	"github.com/turtacn/grc/internal/domain/models"
	"github.com/turtacn/grc/pkg/constants"
)

//go:generate mockery --name WorkflowEngine --output mocks --outpkg mocks

// WorkflowEngine defines the interface to the external workflow engine.
// WorkflowEngine 定义了外部工作流引擎的接口。
type WorkflowEngine interface {
	// GetInstance looks up the workflow instance currently tracked for the
	// (resource type, resource id) pair. A nil instance with a nil error
	// means no instance exists.
	GetInstance(ctx context.Context, resourceType constants.ResourceType, resourceID string) (*models.WorkflowInstance, error)

	// StartWorkflow starts a new workflow of the given code keyed by the
	// resource. A nil instance with a nil error means no workflow definition
	// is registered for the code. Transport failures return an error.
	StartWorkflow(ctx context.Context, resourceType constants.ResourceType, resourceID string, code constants.WorkflowCode) (*models.WorkflowInstance, error)
}

//go:generate mockery --name AuditService --output mocks --outpkg mocks

// AuditService defines the interface for recording policy decision events.
type AuditService interface {
	// LogEvent records an audit event. Failures are the caller's to log;
	// auditing never blocks a policy decision.
	LogEvent(ctx context.Context, event models.AuditEvent) error
}

// ResourceLocker is a non-blocking cross-process lock keyed by resource.
// Used as a fast-path guard around workflow starts; the workflow store's
// unique index is the hard guarantee.
type ResourceLocker interface {
	// TryAcquire attempts to take the lock. When acquired it returns a
	// release function and true; when held elsewhere it returns false.
	TryAcquire(ctx context.Context, key string) (release func(), acquired bool, err error)
}

// Clock supplies the current time. Injectable so incident-age and
// review-date computations are deterministic under test.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock returns a Clock backed by time.Now in UTC.
func SystemClock() Clock {
	return ClockFunc(func() time.Time { return time.Now().UTC() })
}
