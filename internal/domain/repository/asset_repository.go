package repository

import (
	"context"

	"github.com/turtacn/grc/internal/domain/models"
)

// AssetRepository defines the lookup interface for single assets with their
// scoring inputs resolved.
type AssetRepository interface {
	// FindByID retrieves an asset with its risks, incidents and controls
	// loaded. Returns a not_found error when the asset does not exist.
	FindByID(ctx context.Context, id string) (*models.Asset, error)
}

// TreatmentPlanRepository defines the lookup interface for treatment plans.
type TreatmentPlanRepository interface {
	// FindByID retrieves a treatment plan by its identifier.
	FindByID(ctx context.Context, id string) (*models.RiskTreatmentPlan, error)
}
