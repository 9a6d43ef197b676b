package repository

import (
	"context"

	"github.com/turtacn/grc/internal/domain/models"
)

// TenantRepository defines the interface for tenant hierarchy lookups.
// The hierarchy is read-only from the policy core's point of view.
type TenantRepository interface {
	// FindByID retrieves a tenant by its identifier with its parent link
	// resolved. Returns a not_found error when the tenant does not exist.
	FindByID(ctx context.Context, id string) (*models.Tenant, error)

	// FindChildren retrieves the direct children of a tenant.
	FindChildren(ctx context.Context, id string) ([]*models.Tenant, error)
}
