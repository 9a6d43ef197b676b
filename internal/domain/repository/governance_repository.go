package repository

import (
	"context"

	"github.com/turtacn/grc/internal/domain/models"
	"github.com/turtacn/grc/pkg/constants"
)

// GovernanceRepository defines the lookup interface for governance
// configuration. Absent configuration is reported as (nil, nil); the
// resolver treats it as a valid fallthrough, not an error.
type GovernanceRepository interface {
	// FindForScope retrieves the governance scope configured for a tenant
	// and resource type, or nil when none is configured.
	FindForScope(ctx context.Context, tenantID string, resourceType constants.ResourceType) (*models.GovernanceScope, error)

	// FindDefault retrieves the tenant-wide default governance scope, or
	// nil when none is configured.
	FindDefault(ctx context.Context, tenantID string) (*models.GovernanceScope, error)
}
