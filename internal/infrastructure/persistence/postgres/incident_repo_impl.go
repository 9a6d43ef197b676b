package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/turtacn/grc/internal/domain/models"
	"github.com/turtacn/grc/internal/domain/repository"
	"github.com/turtacn/grc/pkg/errors"
	"github.com/turtacn/grc/pkg/logger"
)

// IncidentRepoImpl implements IncidentRepository using PostgreSQL.
type IncidentRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewIncidentRepository creates a new PostgreSQL-based incident repository.
func NewIncidentRepository(db *gorm.DB, log logger.Logger) repository.IncidentRepository {
	return &IncidentRepoImpl{db: db, logger: log}
}

// FindByID retrieves an incident with its realized risks and failed
// controls resolved.
func (r *IncidentRepoImpl) FindByID(ctx context.Context, id string) (*models.Incident, error) {
	var incident models.Incident
	err := r.db.WithContext(ctx).
		Preload("RealizedRisks").
		Preload("FailedControls").
		Where("id = ?", id).
		First(&incident).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.Newf(errors.CodeNotFound, "incident %s not found", id)
		}
		r.logger.Error(ctx, "incident lookup failed", err, logger.Fields{"incident_id": id})
		return nil, errors.Wrap(err, errors.CodeInternal, "incident lookup failed")
	}
	return &incident, nil
}

// CountRelated counts incidents related to the given one detected at or
// after since. Related means same asset, or sharing at least one realized
// risk. The incident itself is excluded.
func (r *IncidentRepoImpl) CountRelated(ctx context.Context, incident *models.Incident, since time.Time) (int, error) {
	riskIDs := make([]string, 0, len(incident.RealizedRisks))
	for i := range incident.RealizedRisks {
		riskIDs = append(riskIDs, incident.RealizedRisks[i].ID)
	}

	query := r.db.WithContext(ctx).
		Model(&models.Incident{}).
		Where("incidents.id <> ?", incident.ID).
		Where("incidents.detected_at >= ?", since)

	switch {
	case incident.AssetID != "" && len(riskIDs) > 0:
		query = query.Where(
			"incidents.asset_id = ? OR incidents.id IN (?)",
			incident.AssetID,
			r.db.Table("incident_realized_risks").
				Select("incident_id").
				Where("risk_id IN ?", riskIDs),
		)
	case incident.AssetID != "":
		query = query.Where("incidents.asset_id = ?", incident.AssetID)
	case len(riskIDs) > 0:
		query = query.Where(
			"incidents.id IN (?)",
			r.db.Table("incident_realized_risks").
				Select("incident_id").
				Where("risk_id IN ?", riskIDs),
		)
	default:
		// Nothing to relate on.
		return 0, nil
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		r.logger.Error(ctx, "related incident count failed", err, logger.Fields{"incident_id": incident.ID})
		return 0, errors.Wrap(err, errors.CodeInternal, "related incident count failed")
	}
	return int(count), nil
}
