package repository

import (
	"context"
	"time"

	"github.com/turtacn/grc/internal/domain/models"
)

// IncidentRepository defines the lookup interface for incident records.
type IncidentRepository interface {
	// FindByID retrieves an incident with its realized risks and failed
	// controls resolved.
	FindByID(ctx context.Context, id string) (*models.Incident, error)

	// CountRelated counts incidents related to the given one, detected at or
	// after since. An incident is related when it targets the same asset or
	// shares a realized risk. The given incident itself is excluded.
	CountRelated(ctx context.Context, incident *models.Incident, since time.Time) (int, error)
}
