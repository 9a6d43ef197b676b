package postgres

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/turtacn/grc/internal/domain/models"
	"github.com/turtacn/grc/internal/domain/repository"
	"github.com/turtacn/grc/pkg/errors"
	"github.com/turtacn/grc/pkg/logger"
)

// ScopedRepoImpl is the generic PostgreSQL implementation of
// ScopedRepository. One instantiation serves each record family: assets,
// controls and documents all scope by the same tenant_id column.
// ScopedRepoImpl 是 ScopedRepository 的通用 PostgreSQL 实现。
type ScopedRepoImpl[R models.Resource] struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewScopedRepository creates a scoped repository for one record family.
func NewScopedRepository[R models.Resource](db *gorm.DB, log logger.Logger) repository.ScopedRepository[R] {
	return &ScopedRepoImpl[R]{db: db, logger: log}
}

// FindByTenant retrieves the records owned directly by the tenant.
func (r *ScopedRepoImpl[R]) FindByTenant(ctx context.Context, tenantID string) ([]R, error) {
	var out []R
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Find(&out).Error
	if err != nil {
		r.logger.Error(ctx, "scoped record lookup failed", err, logger.Fields{"tenant_id": tenantID})
		return nil, errors.Wrap(err, errors.CodeInternal, "scoped record lookup failed")
	}
	return out, nil
}

// FindByTenantIncludingParent retrieves the tenant's records merged with the
// parent's in one query. Own records sort first so callers see a stable
// own-then-inherited ordering.
func (r *ScopedRepoImpl[R]) FindByTenantIncludingParent(ctx context.Context, tenantID, parentID string) ([]R, error) {
	var out []R
	err := r.db.WithContext(ctx).
		Where("tenant_id IN ?", []string{tenantID, parentID}).
		Find(&out).Error
	if err != nil {
		r.logger.Error(ctx, "scoped record lookup with parent failed", err, logger.Fields{
			"tenant_id": tenantID,
			"parent_id": parentID,
		})
		return nil, errors.Wrap(err, errors.CodeInternal, "scoped record lookup failed")
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].GetTenantID() == tenantID && out[j].GetTenantID() != tenantID
	})
	return out, nil
}
