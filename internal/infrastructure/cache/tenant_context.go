// Package cache provides in-process read caches for the hot lookups on the
// policy evaluation path: tenant context and governance configuration.
package cache

import (
	"context"

	gocache "github.com/patrickmn/go-cache"

	"github.com/turtacn/grc/internal/domain/models"
	"github.com/turtacn/grc/internal/domain/repository"
	"github.com/turtacn/grc/pkg/constants"
)

// TenantContextCache decorates a TenantRepository with a TTL cache. Every
// policy evaluation resolves the current tenant, so this is the hottest
// lookup in the system.
// TenantContextCache 用 TTL 缓存装饰租户仓库。每次策略评估都要解析当前租户。
type TenantContextCache struct {
	inner repository.TenantRepository
	store *gocache.Cache
}

// NewTenantContextCache wraps a tenant repository with the default TTLs.
func NewTenantContextCache(inner repository.TenantRepository) *TenantContextCache {
	return &TenantContextCache{
		inner: inner,
		store: gocache.New(constants.TenantContextCacheTTL, constants.TenantContextCacheSweep),
	}
}

var _ repository.TenantRepository = (*TenantContextCache)(nil)

// FindByID serves a tenant from cache, falling through to the repository.
// Errors are never cached.
func (c *TenantContextCache) FindByID(ctx context.Context, id string) (*models.Tenant, error) {
	if cached, ok := c.store.Get("tenant:" + id); ok {
		return cached.(*models.Tenant), nil
	}

	tenant, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store.SetDefault("tenant:"+id, tenant)
	return tenant, nil
}

// FindChildren is a pass-through; child listings are not on the hot path.
func (c *TenantContextCache) FindChildren(ctx context.Context, id string) ([]*models.Tenant, error) {
	return c.inner.FindChildren(ctx, id)
}

// Invalidate drops a tenant from the cache, for callers that mutate the
// hierarchy out of band.
func (c *TenantContextCache) Invalidate(id string) {
	c.store.Delete("tenant:" + id)
}
