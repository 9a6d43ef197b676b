package repository

import (
	"context"

	"github.com/turtacn/grc/internal/domain/models"
)

// RiskRepository defines the persistence interface for risk records.
type RiskRepository interface {
	// FindByID retrieves a risk by its identifier.
	FindByID(ctx context.Context, id string) (*models.Risk, error)

	// Save persists mutations to a risk record: review date, probability
	// and appended notes.
	Save(ctx context.Context, risk *models.Risk) error
}
