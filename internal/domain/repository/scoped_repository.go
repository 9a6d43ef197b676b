package repository

import (
	"context"

	"github.com/turtacn/grc/internal/domain/models"
)

// ScopedRepository is the generic data-access contract consumed by the
// scoped resource accessor. R is a pointer resource type such as
// *models.Asset, *models.Control or *models.Document.
// ScopedRepository 是按租户范围取数的通用数据访问契约。
type ScopedRepository[R models.Resource] interface {
	// FindByTenant retrieves the records owned directly by the tenant.
	FindByTenant(ctx context.Context, tenantID string) ([]R, error)

	// FindByTenantIncludingParent retrieves the tenant's own records merged
	// with the parent's records in a single combined query. Inheritance is
	// exactly one level: the direct parent only.
	FindByTenantIncludingParent(ctx context.Context, tenantID, parentID string) ([]R, error)
}
