package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/turtacn/grc/internal/domain/models"
	"github.com/turtacn/grc/internal/domain/repository"
	"github.com/turtacn/grc/pkg/constants"
)

// absentScope marks a cached "no configuration" answer so the absence of a
// governance row is also served from cache.
var absentScope = &models.GovernanceScope{}

// GovernanceCache decorates a GovernanceRepository with a TTL cache.
// Governance configuration changes rarely but is consulted on every scoped
// read.
type GovernanceCache struct {
	inner repository.GovernanceRepository
	store *gocache.Cache
}

// NewGovernanceCache wraps a governance repository. A non-positive ttl
// falls back to the default.
func NewGovernanceCache(inner repository.GovernanceRepository, ttl time.Duration) *GovernanceCache {
	if ttl <= 0 {
		ttl = constants.GovernanceCacheTTL
	}
	return &GovernanceCache{
		inner: inner,
		store: gocache.New(ttl, 2*ttl),
	}
}

var _ repository.GovernanceRepository = (*GovernanceCache)(nil)

// FindForScope serves the scoped configuration from cache.
func (c *GovernanceCache) FindForScope(ctx context.Context, tenantID string, resourceType constants.ResourceType) (*models.GovernanceScope, error) {
	key := "scope:" + tenantID + ":" + string(resourceType)
	return c.lookup(ctx, key, func() (*models.GovernanceScope, error) {
		return c.inner.FindForScope(ctx, tenantID, resourceType)
	})
}

// FindDefault serves the tenant-wide default from cache.
func (c *GovernanceCache) FindDefault(ctx context.Context, tenantID string) (*models.GovernanceScope, error) {
	key := "default:" + tenantID
	return c.lookup(ctx, key, func() (*models.GovernanceScope, error) {
		return c.inner.FindDefault(ctx, tenantID)
	})
}

func (c *GovernanceCache) lookup(_ context.Context, key string, fetch func() (*models.GovernanceScope, error)) (*models.GovernanceScope, error) {
	if cached, ok := c.store.Get(key); ok {
		scope := cached.(*models.GovernanceScope)
		if scope == absentScope {
			return nil, nil
		}
		return scope, nil
	}

	scope, err := fetch()
	if err != nil {
		return nil, err
	}
	if scope == nil {
		c.store.SetDefault(key, absentScope)
		return nil, nil
	}
	c.store.SetDefault(key, scope)
	return scope, nil
}

// InvalidateTenant drops all cached governance answers for a tenant.
func (c *GovernanceCache) InvalidateTenant(tenantID string) {
	for key := range c.store.Items() {
		if key == "default:"+tenantID || len(key) > 6 && key[:6] == "scope:" && hasTenantPrefix(key[6:], tenantID) {
			c.store.Delete(key)
		}
	}
}

func hasTenantPrefix(rest, tenantID string) bool {
	return len(rest) > len(tenantID) && rest[:len(tenantID)] == tenantID && rest[len(tenantID)] == ':'
}
