package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/grc/internal/domain/models"
	"github.com/turtacn/grc/internal/domain/service"
	"github.com/turtacn/grc/pkg/constants"
)

// fakeAssetRepo serves assets from memory, keyed by owning tenant.
type fakeAssetRepo struct {
	byTenant map[string][]*models.Asset
}

func (f *fakeAssetRepo) FindByTenant(_ context.Context, tenantID string) ([]*models.Asset, error) {
	return f.byTenant[tenantID], nil
}

func (f *fakeAssetRepo) FindByTenantIncludingParent(_ context.Context, tenantID, parentID string) ([]*models.Asset, error) {
	return append(append([]*models.Asset{}, f.byTenant[tenantID]...), f.byTenant[parentID]...), nil
}

func hierarchyFixture() (*models.Tenant, *models.Tenant, *fakeAssetRepo) {
	parent := &models.Tenant{ID: "t-parent", Code: "HQ", Active: true}
	child := &models.Tenant{ID: "t-child", Code: "SUB", ParentID: parent.ID, Parent: parent, Active: true}
	repo := &fakeAssetRepo{byTenant: map[string][]*models.Asset{
		"t-parent": {
			{ID: "a-p1", TenantID: "t-parent", Name: "core switch"},
			{ID: "a-p2", TenantID: "t-parent", Name: "erp database"},
		},
		"t-child": {
			{ID: "a-c1", TenantID: "t-child", Name: "branch fileserver"},
		},
	}}
	return parent, child, repo
}

func TestRecordsForTenant_DegradedModeWithoutGovernance(t *testing.T) {
	_, child, repo := hierarchyFixture()

	// No governance collaborator configured: own records only, even though
	// a hierarchical scope exists in the governance store.
	accessor := service.NewScopedAccessor[*models.Asset](constants.ResourceTypeAsset, repo, nil)

	records, err := accessor.RecordsForTenant(context.Background(), child)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "a-c1", records[0].ID)
}

func TestRecordsForTenant_Governance(t *testing.T) {
	testCases := []struct {
		name      string
		model     constants.GovernanceModel
		useModel  bool
		wantIDs   []string
	}{
		{name: "Hierarchical_MergesParentRecords", model: constants.GovernanceHierarchical, useModel: true, wantIDs: []string{"a-c1", "a-p1", "a-p2"}},
		{name: "Shared_OwnOnly", model: constants.GovernanceShared, useModel: true, wantIDs: []string{"a-c1"}},
		{name: "Independent_OwnOnly", model: constants.GovernanceIndependent, useModel: true, wantIDs: []string{"a-c1"}},
		{name: "Unconfigured_OwnOnly", wantIDs: []string{"a-c1"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, child, repo := hierarchyFixture()
			govRepo := &fakeGovernanceRepo{scoped: map[string]constants.GovernanceModel{}}
			if tc.useModel {
				govRepo.scoped["t-child/asset"] = tc.model
			}
			resolver := service.NewGovernanceResolver(govRepo, nil)
			accessor := service.NewScopedAccessorWithGovernance[*models.Asset](constants.ResourceTypeAsset, repo, resolver, nil)

			records, err := accessor.RecordsForTenant(context.Background(), child)
			require.NoError(t, err)

			ids := make([]string, 0, len(records))
			for _, r := range records {
				ids = append(ids, r.ID)
			}
			assert.ElementsMatch(t, tc.wantIDs, ids)
		})
	}
}

func TestRecordsForTenant_RootAlwaysOwnRecords(t *testing.T) {
	parent, _, repo := hierarchyFixture()
	govRepo := &fakeGovernanceRepo{defaults: map[string]constants.GovernanceModel{
		"t-parent": constants.GovernanceHierarchical,
	}}
	resolver := service.NewGovernanceResolver(govRepo, nil)
	accessor := service.NewScopedAccessorWithGovernance[*models.Asset](constants.ResourceTypeAsset, repo, resolver, nil)

	records, err := accessor.RecordsForTenant(context.Background(), parent)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestIsInheritedAndCanEdit(t *testing.T) {
	repo := &fakeAssetRepo{}
	accessor := service.NewScopedAccessor[*models.Asset](constants.ResourceTypeAsset, repo, nil)

	tenant := &models.Tenant{ID: "t-child"}
	other := &models.Tenant{ID: "t-parent"}
	unpersisted := &models.Tenant{}

	testCases := []struct {
		name          string
		record        *models.Asset
		tenant        *models.Tenant
		wantInherited bool
		wantEditable  bool
	}{
		{
			name:          "OwnRecord_EditableNotInherited",
			record:        &models.Asset{ID: "a-1", TenantID: tenant.ID},
			tenant:        tenant,
			wantInherited: false,
			wantEditable:  true,
		},
		{
			name:          "ParentRecord_InheritedReadOnly",
			record:        &models.Asset{ID: "a-2", TenantID: other.ID},
			tenant:        tenant,
			wantInherited: true,
			wantEditable:  false,
		},
		{
			name:   "RecordWithoutOwnerID_BothFalse",
			record: &models.Asset{ID: "a-3"},
			tenant: tenant,
		},
		{
			name:   "UnpersistedTenant_BothFalse",
			record: &models.Asset{ID: "a-4", TenantID: other.ID},
			tenant: unpersisted,
		},
		{
			name:   "NilTenant_BothFalse",
			record: &models.Asset{ID: "a-5", TenantID: other.ID},
			tenant: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantInherited, accessor.IsInherited(tc.record, tc.tenant))
			assert.Equal(t, tc.wantEditable, accessor.CanEdit(tc.record, tc.tenant))
		})
	}
}

// IsInherited and CanEdit are complements whenever both sides carry stable
// identifiers.
func TestIsInheritedCanEdit_ComplementForValidIDs(t *testing.T) {
	repo := &fakeAssetRepo{}
	accessor := service.NewScopedAccessor[*models.Asset](constants.ResourceTypeAsset, repo, nil)
	tenant := &models.Tenant{ID: "t-1"}

	for _, ownerID := range []string{"t-1", "t-2", "t-3"} {
		record := &models.Asset{ID: "a", TenantID: ownerID}
		assert.NotEqual(t, accessor.IsInherited(record, tenant), accessor.CanEdit(record, tenant))
	}
}

func TestStatsWithInheritance(t *testing.T) {
	_, child, repo := hierarchyFixture()
	govRepo := &fakeGovernanceRepo{scoped: map[string]constants.GovernanceModel{
		"t-child/asset": constants.GovernanceHierarchical,
	}}
	resolver := service.NewGovernanceResolver(govRepo, nil)
	accessor := service.NewScopedAccessorWithGovernance[*models.Asset](constants.ResourceTypeAsset, repo, resolver, nil)

	stats, err := accessor.StatsWithInheritance(context.Background(), child)
	require.NoError(t, err)
	assert.Equal(t, service.InheritanceStats{Total: 3, Own: 1, Inherited: 2}, stats)
}

func TestStatsWithInheritance_OwnOnly(t *testing.T) {
	_, child, repo := hierarchyFixture()
	accessor := service.NewScopedAccessor[*models.Asset](constants.ResourceTypeAsset, repo, nil)

	stats, err := accessor.StatsWithInheritance(context.Background(), child)
	require.NoError(t, err)
	assert.Equal(t, service.InheritanceStats{Total: 1, Own: 1, Inherited: 0}, stats)
}
