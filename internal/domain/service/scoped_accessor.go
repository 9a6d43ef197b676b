package service

import (
	"context"

	"github.com/turtacn/grc/internal/domain/models"
	"github.com/turtacn/grc/internal/domain/repository"
	"github.com/turtacn/grc/pkg/constants"
	"github.com/turtacn/grc/pkg/logger"
)

// InheritanceStats summarizes a tenant's visible record set.
type InheritanceStats struct {
	// Total is the size of the full inheritance-aware record set.
	Total int `json:"total"`

	// Own is the number of records the tenant owns directly.
	Own int `json:"own_count"`

	// Inherited is Total minus Own. Never negative: the own set is a subset
	// of the combined set by construction.
	Inherited int `json:"inherited_count"`
}

// ScopedAccessor serves tenant-scoped reads and edit-permission questions
// for one resource family. R is a pointer resource type such as
// *models.Asset.
//
// The accessor has two construction variants. Without a governance resolver
// it runs in a deliberate degraded mode and always serves the tenant's own
// records; with one, hierarchical children additionally see their direct
// parent's records, read-only.
// ScopedAccessor 为单一资源类别提供按租户范围的读取和编辑权限判定。
// 不配置治理解析器时运行在降级模式，只返回租户自己的记录；
// 配置后，分级治理的子租户可以只读方式看到直接父租户的记录。
type ScopedAccessor[R models.Resource] struct {
	resourceType constants.ResourceType
	repo         repository.ScopedRepository[R]
	resolver     *GovernanceResolver
	logger       logger.Logger
}

// NewScopedAccessor creates an accessor without governance resolution. It
// always serves own records only; no inheritance is ever attempted.
func NewScopedAccessor[R models.Resource](resourceType constants.ResourceType, repo repository.ScopedRepository[R], log logger.Logger) *ScopedAccessor[R] {
	return newScopedAccessor(resourceType, repo, nil, log)
}

// NewScopedAccessorWithGovernance creates an accessor that consults the
// governance resolver before fetching.
func NewScopedAccessorWithGovernance[R models.Resource](resourceType constants.ResourceType, repo repository.ScopedRepository[R], resolver *GovernanceResolver, log logger.Logger) *ScopedAccessor[R] {
	return newScopedAccessor(resourceType, repo, resolver, log)
}

func newScopedAccessor[R models.Resource](resourceType constants.ResourceType, repo repository.ScopedRepository[R], resolver *GovernanceResolver, log logger.Logger) *ScopedAccessor[R] {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &ScopedAccessor[R]{
		resourceType: resourceType,
		repo:         repo,
		resolver:     resolver,
		logger:       log.WithComponent("scoped_accessor"),
	}
}

// ResourceType returns the resource family this accessor serves.
func (a *ScopedAccessor[R]) ResourceType() constants.ResourceType {
	return a.resourceType
}

// RecordsForTenant fetches the record set visible to the tenant. When the
// resolver grants inheritance the tenant's own records are merged with the
// direct parent's records in one combined query; inheritance never goes
// deeper than one level.
func (a *ScopedAccessor[R]) RecordsForTenant(ctx context.Context, tenant *models.Tenant) ([]R, error) {
	if a.resolver == nil {
		return a.repo.FindByTenant(ctx, tenant.ID)
	}

	decision, err := a.resolver.CanInheritFromParent(ctx, tenant, a.resourceType)
	if err != nil {
		return nil, err
	}
	if !decision.CanInherit {
		return a.repo.FindByTenant(ctx, tenant.ID)
	}
	return a.repo.FindByTenantIncludingParent(ctx, tenant.ID, tenant.Parent.ID)
}

// IsInherited reports whether a record visible to the tenant is owned by a
// different tenant. Identity cannot be asserted without stable identifiers
// on both sides, so a missing id on either side yields false rather than an
// error: a record owned by a not-yet-persisted tenant reads as not
// inherited.
func (a *ScopedAccessor[R]) IsInherited(record R, tenant *models.Tenant) bool {
	if tenant == nil || tenant.ID == "" {
		return false
	}
	ownerID := record.GetTenantID()
	if ownerID == "" {
		return false
	}
	return ownerID != tenant.ID
}

// CanEdit reports whether the tenant directly owns the record. Inherited
// (parent-owned) records are always read-only to the child. For valid
// identifiers on both sides CanEdit is the complement of IsInherited; when
// either identifier is missing both report false.
func (a *ScopedAccessor[R]) CanEdit(record R, tenant *models.Tenant) bool {
	if tenant == nil || tenant.ID == "" {
		return false
	}
	ownerID := record.GetTenantID()
	if ownerID == "" {
		return false
	}
	return ownerID == tenant.ID
}

// StatsWithInheritance reports the size of the tenant's own record set, the
// full inheritance-aware set, and the difference between them.
func (a *ScopedAccessor[R]) StatsWithInheritance(ctx context.Context, tenant *models.Tenant) (InheritanceStats, error) {
	own, err := a.repo.FindByTenant(ctx, tenant.ID)
	if err != nil {
		return InheritanceStats{}, err
	}
	combined, err := a.RecordsForTenant(ctx, tenant)
	if err != nil {
		return InheritanceStats{}, err
	}

	stats := InheritanceStats{
		Total:     len(combined),
		Own:       len(own),
		Inherited: len(combined) - len(own),
	}
	return stats, nil
}
