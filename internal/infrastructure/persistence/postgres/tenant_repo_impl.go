package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/turtacn/grc/internal/domain/models"
	"github.com/turtacn/grc/internal/domain/repository"
	"github.com/turtacn/grc/pkg/errors"
	"github.com/turtacn/grc/pkg/logger"
)

// TenantRepoImpl implements TenantRepository using PostgreSQL. The parent
// link is resolved on load so governance resolution never needs a second
// round trip.
type TenantRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewTenantRepository creates a new PostgreSQL-based tenant repository.
func NewTenantRepository(db *gorm.DB, log logger.Logger) repository.TenantRepository {
	return &TenantRepoImpl{db: db, logger: log}
}

// FindByID retrieves a tenant with its parent resolved. Inheritance is a
// single level, so only the direct parent is loaded.
func (r *TenantRepoImpl) FindByID(ctx context.Context, id string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tenant).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.Newf(errors.CodeNotFound, "tenant %s not found", id)
		}
		r.logger.Error(ctx, "failed to retrieve tenant", err, logger.Fields{"tenant_id": id})
		return nil, errors.Wrap(err, errors.CodeInternal, "tenant lookup failed")
	}

	if tenant.ParentID != "" {
		var parent models.Tenant
		err := r.db.WithContext(ctx).Where("id = ?", tenant.ParentID).First(&parent).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			// Dangling parent reference: treat the tenant as a root rather
			// than failing every policy evaluation for it.
			r.logger.Warn(ctx, "tenant references missing parent", logger.Fields{
				"tenant_id": id,
				"parent_id": tenant.ParentID,
			})
		case err != nil:
			return nil, errors.Wrap(err, errors.CodeInternal, "parent tenant lookup failed")
		default:
			tenant.Parent = &parent
		}
	}

	return &tenant, nil
}

// FindChildren retrieves the direct children of a tenant.
func (r *TenantRepoImpl) FindChildren(ctx context.Context, id string) ([]*models.Tenant, error) {
	var children []*models.Tenant
	err := r.db.WithContext(ctx).Where("parent_id = ?", id).Order("code").Find(&children).Error
	if err != nil {
		r.logger.Error(ctx, "failed to retrieve child tenants", err, logger.Fields{"tenant_id": id})
		return nil, errors.Wrap(err, errors.CodeInternal, "child tenant lookup failed")
	}
	return children, nil
}
