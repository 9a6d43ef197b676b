package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/turtacn/grc/internal/domain/models"
	"github.com/turtacn/grc/internal/domain/repository"
	"github.com/turtacn/grc/pkg/constants"
	"github.com/turtacn/grc/pkg/errors"
	"github.com/turtacn/grc/pkg/logger"
)

// GovernanceRepoImpl implements GovernanceRepository using PostgreSQL.
// Absent configuration is (nil, nil): the resolver falls through silently.
type GovernanceRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGovernanceRepository creates a new PostgreSQL-based governance repository.
func NewGovernanceRepository(db *gorm.DB, log logger.Logger) repository.GovernanceRepository {
	return &GovernanceRepoImpl{db: db, logger: log}
}

// FindForScope retrieves the scope configured for a tenant and resource type.
func (r *GovernanceRepoImpl) FindForScope(ctx context.Context, tenantID string, resourceType constants.ResourceType) (*models.GovernanceScope, error) {
	var scope models.GovernanceScope
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND resource_type = ?", tenantID, resourceType).
		First(&scope).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Error(ctx, "governance scope lookup failed", err, logger.Fields{
			"tenant_id":     tenantID,
			"resource_type": string(resourceType),
		})
		return nil, errors.Wrap(err, errors.CodeInternal, "governance scope lookup failed")
	}
	return &scope, nil
}

// FindDefault retrieves the tenant-wide default scope, stored with an empty
// resource type.
func (r *GovernanceRepoImpl) FindDefault(ctx context.Context, tenantID string) (*models.GovernanceScope, error) {
	var scope models.GovernanceScope
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND resource_type = ''", tenantID).
		First(&scope).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Error(ctx, "default governance lookup failed", err, logger.Fields{"tenant_id": tenantID})
		return nil, errors.Wrap(err, errors.CodeInternal, "default governance lookup failed")
	}
	return &scope, nil
}
