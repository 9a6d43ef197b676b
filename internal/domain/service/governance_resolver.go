package service

import (
	"context"

	"github.com/turtacn/grc/internal/domain/models"
	"github.com/turtacn/grc/internal/domain/repository"
	"github.com/turtacn/grc/pkg/constants"
	"github.com/turtacn/grc/pkg/logger"
)

// GovernanceResolver decides whether a tenant inherits records from its
// parent for a given resource type. Resolution order: the scope configured
// for (tenant, resource type), then the tenant-wide default, then nothing.
// Absent configuration is a valid, silent fallthrough to "no inheritance".
// GovernanceResolver 决定租户是否继承父租户在某资源类型下的记录。
// 解析顺序：按（租户，资源类型）配置的范围 → 租户级默认值 → 无。
// 缺少配置是合法的静默回退，表示"不继承"。
type GovernanceResolver struct {
	governanceRepo repository.GovernanceRepository
	logger         logger.Logger
}

// NewGovernanceResolver creates a new GovernanceResolver.
func NewGovernanceResolver(governanceRepo repository.GovernanceRepository, log logger.Logger) *GovernanceResolver {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &GovernanceResolver{
		governanceRepo: governanceRepo,
		logger:         log.WithComponent("governance_resolver"),
	}
}

// ResolveGovernance returns the governance model configured for the tenant
// and resource type, or nil when none is configured.
func (r *GovernanceResolver) ResolveGovernance(ctx context.Context, tenant *models.Tenant, resourceType constants.ResourceType) (*constants.GovernanceModel, error) {
	scope, err := r.governanceRepo.FindForScope(ctx, tenant.ID, resourceType)
	if err != nil {
		return nil, err
	}
	if scope == nil {
		return nil, nil
	}
	model := scope.Model
	return &model, nil
}

// DefaultGovernance returns the tenant-wide default governance model, or nil
// when none is configured.
func (r *GovernanceResolver) DefaultGovernance(ctx context.Context, tenant *models.Tenant) (*constants.GovernanceModel, error) {
	scope, err := r.governanceRepo.FindDefault(ctx, tenant.ID)
	if err != nil {
		return nil, err
	}
	if scope == nil {
		return nil, nil
	}
	model := scope.Model
	return &model, nil
}

// CanInheritFromParent resolves the inheritance decision for a tenant and
// resource type. A tenant without a parent can never inherit; hierarchy
// semantics are meaningless without one. Only the hierarchical model grants
// inheritance, and only from the direct parent.
func (r *GovernanceResolver) CanInheritFromParent(ctx context.Context, tenant *models.Tenant, resourceType constants.ResourceType) (models.InheritanceDecision, error) {
	if !tenant.HasParent() {
		return models.InheritanceDecision{HasParent: false, CanInherit: false, Model: nil}, nil
	}

	model, err := r.ResolveGovernance(ctx, tenant, resourceType)
	if err != nil {
		return models.InheritanceDecision{}, err
	}
	if model == nil {
		model, err = r.DefaultGovernance(ctx, tenant)
		if err != nil {
			return models.InheritanceDecision{}, err
		}
	}

	decision := models.InheritanceDecision{
		HasParent:  true,
		CanInherit: model != nil && *model == constants.GovernanceHierarchical,
		Model:      model,
	}

	r.logger.Debug(ctx, "governance resolved", logger.Fields{
		"tenant_id":     tenant.ID,
		"resource_type": string(resourceType),
		"model":         decision.ModelName(),
		"can_inherit":   decision.CanInherit,
	})

	return decision, nil
}
