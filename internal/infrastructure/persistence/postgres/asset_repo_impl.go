package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/turtacn/grc/internal/domain/models"
	"github.com/turtacn/grc/internal/domain/repository"
	"github.com/turtacn/grc/pkg/errors"
	"github.com/turtacn/grc/pkg/logger"
)

// AssetRepoImpl implements AssetRepository using PostgreSQL. Assets load
// with their full scoring inputs: risks, incidents and controls.
type AssetRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewAssetRepository creates a new PostgreSQL-based asset repository.
func NewAssetRepository(db *gorm.DB, log logger.Logger) repository.AssetRepository {
	return &AssetRepoImpl{db: db, logger: log}
}

// FindByID retrieves an asset with its linked records resolved.
func (r *AssetRepoImpl) FindByID(ctx context.Context, id string) (*models.Asset, error) {
	var asset models.Asset
	err := r.db.WithContext(ctx).
		Preload("Risks").
		Preload("Incidents").
		Preload("Controls").
		Where("id = ?", id).
		First(&asset).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.Newf(errors.CodeNotFound, "asset %s not found", id)
		}
		r.logger.Error(ctx, "asset lookup failed", err, logger.Fields{"asset_id": id})
		return nil, errors.Wrap(err, errors.CodeInternal, "asset lookup failed")
	}
	return &asset, nil
}

// TreatmentPlanRepoImpl implements TreatmentPlanRepository using PostgreSQL.
type TreatmentPlanRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewTreatmentPlanRepository creates a new PostgreSQL-based plan repository.
func NewTreatmentPlanRepository(db *gorm.DB, log logger.Logger) repository.TreatmentPlanRepository {
	return &TreatmentPlanRepoImpl{db: db, logger: log}
}

// FindByID retrieves a treatment plan by its identifier.
func (r *TreatmentPlanRepoImpl) FindByID(ctx context.Context, id string) (*models.RiskTreatmentPlan, error) {
	var plan models.RiskTreatmentPlan
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.Newf(errors.CodeNotFound, "treatment plan %s not found", id)
		}
		r.logger.Error(ctx, "treatment plan lookup failed", err, logger.Fields{"plan_id": id})
		return nil, errors.Wrap(err, errors.CodeInternal, "treatment plan lookup failed")
	}
	return &plan, nil
}
