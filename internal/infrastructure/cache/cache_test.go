package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/grc/internal/domain/models"
	"github.com/turtacn/grc/internal/infrastructure/cache"
	"github.com/turtacn/grc/pkg/constants"
	"github.com/turtacn/grc/pkg/errors"
)

type countingTenantRepo struct {
	calls   int
	tenants map[string]*models.Tenant
}

func (r *countingTenantRepo) FindByID(_ context.Context, id string) (*models.Tenant, error) {
	r.calls++
	t, ok := r.tenants[id]
	if !ok {
		return nil, errors.Newf(errors.CodeNotFound, "tenant %s not found", id)
	}
	return t, nil
}

func (r *countingTenantRepo) FindChildren(_ context.Context, id string) ([]*models.Tenant, error) {
	r.calls++
	return nil, nil
}

func TestTenantContextCache(t *testing.T) {
	repo := &countingTenantRepo{tenants: map[string]*models.Tenant{
		"t-1": {ID: "t-1", Code: "HQ"},
	}}
	cached := cache.NewTenantContextCache(repo)
	ctx := context.Background()

	first, err := cached.FindByID(ctx, "t-1")
	require.NoError(t, err)
	second, err := cached.FindByID(ctx, "t-1")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, repo.calls, "second lookup must hit the cache")

	// Misses are not cached.
	_, err = cached.FindByID(ctx, "t-missing")
	require.Error(t, err)
	_, err = cached.FindByID(ctx, "t-missing")
	require.Error(t, err)
	assert.Equal(t, 3, repo.calls)

	cached.Invalidate("t-1")
	_, err = cached.FindByID(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, 4, repo.calls, "invalidated entry must be refetched")
}

type countingGovernanceRepo struct {
	calls  int
	scoped map[string]*models.GovernanceScope
}

func (r *countingGovernanceRepo) FindForScope(_ context.Context, tenantID string, resourceType constants.ResourceType) (*models.GovernanceScope, error) {
	r.calls++
	return r.scoped[tenantID+":"+string(resourceType)], nil
}

func (r *countingGovernanceRepo) FindDefault(_ context.Context, tenantID string) (*models.GovernanceScope, error) {
	r.calls++
	return r.scoped[tenantID+":"], nil
}

func TestGovernanceCache(t *testing.T) {
	repo := &countingGovernanceRepo{scoped: map[string]*models.GovernanceScope{
		"t-1:asset": {ID: "g-1", TenantID: "t-1", ResourceType: constants.ResourceTypeAsset, Model: constants.GovernanceHierarchical},
	}}
	cached := cache.NewGovernanceCache(repo, time.Minute)
	ctx := context.Background()

	scope, err := cached.FindForScope(ctx, "t-1", constants.ResourceTypeAsset)
	require.NoError(t, err)
	require.NotNil(t, scope)

	_, err = cached.FindForScope(ctx, "t-1", constants.ResourceTypeAsset)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)

	// Absent configuration is cached too.
	missing, err := cached.FindDefault(ctx, "t-2")
	require.NoError(t, err)
	assert.Nil(t, missing)

	missing, err = cached.FindDefault(ctx, "t-2")
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.Equal(t, 2, repo.calls)

	cached.InvalidateTenant("t-1")
	_, err = cached.FindForScope(ctx, "t-1", constants.ResourceTypeAsset)
	require.NoError(t, err)
	assert.Equal(t, 3, repo.calls, "invalidated tenant must be refetched")
}
