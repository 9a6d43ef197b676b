// Package handlers implements the gin HTTP handlers of the policy core.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/grc/internal/application/dto"
	"github.com/turtacn/grc/internal/domain/models"
	"github.com/turtacn/grc/internal/domain/repository"
	"github.com/turtacn/grc/internal/domain/service"
	"github.com/turtacn/grc/internal/infrastructure/monitoring"
	"github.com/turtacn/grc/pkg/constants"
	"github.com/turtacn/grc/pkg/errors"
	"github.com/turtacn/grc/pkg/logger"
)

// ResourceHandler serves tenant-scoped record listings and governance
// resolution.
type ResourceHandler struct {
	tenantRepo repository.TenantRepository
	resolver   *service.GovernanceResolver
	assets     *service.ScopedAccessor[*models.Asset]
	controls   *service.ScopedAccessor[*models.Control]
	documents  *service.ScopedAccessor[*models.Document]
	metrics    *monitoring.Metrics
	logger     logger.Logger
}

// NewResourceHandler creates a new ResourceHandler.
func NewResourceHandler(
	tenantRepo repository.TenantRepository,
	resolver *service.GovernanceResolver,
	assets *service.ScopedAccessor[*models.Asset],
	controls *service.ScopedAccessor[*models.Control],
	documents *service.ScopedAccessor[*models.Document],
	metrics *monitoring.Metrics,
	log logger.Logger,
) *ResourceHandler {
	return &ResourceHandler{
		tenantRepo: tenantRepo,
		resolver:   resolver,
		assets:     assets,
		controls:   controls,
		documents:  documents,
		metrics:    metrics,
		logger:     log,
	}
}

// GetGovernance resolves the governance decision for a tenant and resource
// type.
func (h *ResourceHandler) GetGovernance(c *gin.Context) {
	resourceType, err := parseResourceType(c.Param("resource_type"))
	if err != nil {
		dto.SendError(c, err)
		return
	}

	tenant, err := h.tenantRepo.FindByID(c.Request.Context(), c.Param("tenant_id"))
	if err != nil {
		dto.SendError(c, err)
		return
	}

	decision, err := h.resolver.CanInheritFromParent(c.Request.Context(), tenant, resourceType)
	if err != nil {
		dto.SendError(c, err)
		return
	}

	dto.SendSuccess(c, http.StatusOK, dto.GovernanceResponse{
		TenantID:     tenant.ID,
		ResourceType: string(resourceType),
		HasParent:    decision.HasParent,
		CanInherit:   decision.CanInherit,
		Model:        decision.ModelName(),
	})
}

// ListRecords returns the records visible to a tenant for a record family,
// each marked inherited or editable.
func (h *ResourceHandler) ListRecords(c *gin.Context) {
	resourceType, err := parseResourceType(c.Param("resource_type"))
	if err != nil {
		dto.SendError(c, err)
		return
	}

	tenant, err := h.tenantRepo.FindByID(c.Request.Context(), c.Param("tenant_id"))
	if err != nil {
		dto.SendError(c, err)
		return
	}

	switch resourceType {
	case constants.ResourceTypeAsset:
		respond(c, h.assets, tenant, h.metrics)
	case constants.ResourceTypeControl:
		respond(c, h.controls, tenant, h.metrics)
	case constants.ResourceTypeDocument:
		respond(c, h.documents, tenant, h.metrics)
	default:
		dto.SendError(c, errors.Newf(errors.CodeInvalidArgument, "resource type %s is not scoped", resourceType))
	}
}

// GetStats returns the own/inherited visibility breakdown for a tenant.
func (h *ResourceHandler) GetStats(c *gin.Context) {
	resourceType, err := parseResourceType(c.Param("resource_type"))
	if err != nil {
		dto.SendError(c, err)
		return
	}

	tenant, err := h.tenantRepo.FindByID(c.Request.Context(), c.Param("tenant_id"))
	if err != nil {
		dto.SendError(c, err)
		return
	}

	var stats service.InheritanceStats
	switch resourceType {
	case constants.ResourceTypeAsset:
		stats, err = h.assets.StatsWithInheritance(c.Request.Context(), tenant)
	case constants.ResourceTypeControl:
		stats, err = h.controls.StatsWithInheritance(c.Request.Context(), tenant)
	case constants.ResourceTypeDocument:
		stats, err = h.documents.StatsWithInheritance(c.Request.Context(), tenant)
	default:
		dto.SendError(c, errors.Newf(errors.CodeInvalidArgument, "resource type %s is not scoped", resourceType))
		return
	}
	if err != nil {
		dto.SendError(c, err)
		return
	}

	dto.SendSuccess(c, http.StatusOK, dto.FromServiceStats(stats))
}

func respond[R models.Resource](c *gin.Context, accessor *service.ScopedAccessor[R], tenant *models.Tenant, metrics *monitoring.Metrics) {
	records, err := accessor.RecordsForTenant(c.Request.Context(), tenant)
	if err != nil {
		dto.SendError(c, err)
		return
	}

	items := make([]dto.ScopedRecordItem, 0, len(records))
	own, inherited := 0, 0
	for _, record := range records {
		isInherited := accessor.IsInherited(record, tenant)
		if isInherited {
			inherited++
		} else {
			own++
		}
		items = append(items, dto.ScopedRecordItem{
			Record:    record,
			Inherited: isInherited,
			Editable:  accessor.CanEdit(record, tenant),
		})
	}

	if metrics != nil && inherited > 0 {
		metrics.RecordInheritedRead(tenant.ID, accessor.ResourceType(), inherited)
	}

	dto.SendSuccess(c, http.StatusOK, dto.ScopedRecordsResponse{
		TenantID: tenant.ID,
		Records:  items,
		Stats:    dto.InheritanceStats{Total: len(items), Own: own, Inherited: inherited},
	})
}

func parseResourceType(raw string) (constants.ResourceType, error) {
	switch constants.ResourceType(raw) {
	case constants.ResourceTypeAsset, constants.ResourceTypeControl, constants.ResourceTypeDocument,
		constants.ResourceTypeRisk, constants.ResourceTypeTreatmentPlan:
		return constants.ResourceType(raw), nil
	default:
		return "", errors.Newf(errors.CodeInvalidArgument, "unknown resource type %q", raw)
	}
}
