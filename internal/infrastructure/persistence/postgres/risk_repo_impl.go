package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/turtacn/grc/internal/domain/models"
	"github.com/turtacn/grc/internal/domain/repository"
	"github.com/turtacn/grc/pkg/errors"
	"github.com/turtacn/grc/pkg/logger"
)

// RiskRepoImpl implements RiskRepository using PostgreSQL.
type RiskRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewRiskRepository creates a new PostgreSQL-based risk repository.
func NewRiskRepository(db *gorm.DB, log logger.Logger) repository.RiskRepository {
	return &RiskRepoImpl{db: db, logger: log}
}

// FindByID retrieves a risk by its identifier.
func (r *RiskRepoImpl) FindByID(ctx context.Context, id string) (*models.Risk, error) {
	var risk models.Risk
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&risk).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.Newf(errors.CodeNotFound, "risk %s not found", id)
		}
		r.logger.Error(ctx, "risk lookup failed", err, logger.Fields{"risk_id": id})
		return nil, errors.Wrap(err, errors.CodeInternal, "risk lookup failed")
	}
	return &risk, nil
}

// Save persists mutations to a risk record.
func (r *RiskRepoImpl) Save(ctx context.Context, risk *models.Risk) error {
	if err := r.db.WithContext(ctx).Save(risk).Error; err != nil {
		r.logger.Error(ctx, "failed to save risk", err, logger.Fields{"risk_id": risk.ID})
		return errors.Wrap(err, errors.CodeInternal, "failed to save risk")
	}
	return nil
}
