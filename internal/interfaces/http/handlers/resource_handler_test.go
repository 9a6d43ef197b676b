package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/grc/internal/domain/models"
	"github.com/turtacn/grc/internal/domain/service"
	"github.com/turtacn/grc/internal/interfaces/http/handlers"
	"github.com/turtacn/grc/pkg/constants"
	"github.com/turtacn/grc/pkg/errors"
)

type stubTenantRepo struct {
	tenants map[string]*models.Tenant
}

func (r *stubTenantRepo) FindByID(_ context.Context, id string) (*models.Tenant, error) {
	if t, ok := r.tenants[id]; ok {
		return t, nil
	}
	return nil, errors.Newf(errors.CodeNotFound, "tenant %s not found", id)
}

func (r *stubTenantRepo) FindChildren(_ context.Context, _ string) ([]*models.Tenant, error) {
	return nil, nil
}

type stubGovernanceRepo struct {
	scopes map[string]*models.GovernanceScope
}

func (r *stubGovernanceRepo) FindForScope(_ context.Context, tenantID string, resourceType constants.ResourceType) (*models.GovernanceScope, error) {
	return r.scopes[tenantID+"/"+string(resourceType)], nil
}

func (r *stubGovernanceRepo) FindDefault(_ context.Context, tenantID string) (*models.GovernanceScope, error) {
	return r.scopes[tenantID+"/"], nil
}

type stubAssetRepo struct {
	byTenant map[string][]*models.Asset
}

func (r *stubAssetRepo) FindByTenant(_ context.Context, tenantID string) ([]*models.Asset, error) {
	return r.byTenant[tenantID], nil
}

func (r *stubAssetRepo) FindByTenantIncludingParent(_ context.Context, tenantID, parentID string) ([]*models.Asset, error) {
	return append(append([]*models.Asset{}, r.byTenant[tenantID]...), r.byTenant[parentID]...), nil
}

func setupResourceRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	parent := &models.Tenant{ID: "t-parent", Code: "parent", Active: true}
	child := &models.Tenant{ID: "t-child", Code: "child", ParentID: "t-parent", Parent: parent, Active: true}

	tenantRepo := &stubTenantRepo{tenants: map[string]*models.Tenant{
		"t-parent": parent,
		"t-child":  child,
	}}
	governanceRepo := &stubGovernanceRepo{scopes: map[string]*models.GovernanceScope{
		"t-child/asset": {TenantID: "t-child", ResourceType: constants.ResourceTypeAsset, Model: constants.GovernanceHierarchical},
	}}
	assetRepo := &stubAssetRepo{byTenant: map[string][]*models.Asset{
		"t-parent": {{ID: "a-parent", TenantID: "t-parent", Name: "shared gateway"}},
		"t-child":  {{ID: "a-child", TenantID: "t-child", Name: "own database"}},
	}}

	resolver := service.NewGovernanceResolver(governanceRepo, nil)
	assets := service.NewScopedAccessorWithGovernance[*models.Asset](constants.ResourceTypeAsset, assetRepo, resolver, nil)
	controls := service.NewScopedAccessor[*models.Control](constants.ResourceTypeControl, emptyScopedRepo[*models.Control]{}, nil)
	documents := service.NewScopedAccessor[*models.Document](constants.ResourceTypeDocument, emptyScopedRepo[*models.Document]{}, nil)

	handler := handlers.NewResourceHandler(tenantRepo, resolver, assets, controls, documents, nil, nil)

	engine := gin.New()
	engine.GET("/api/v1/tenants/:tenant_id/governance/:resource_type", handler.GetGovernance)
	engine.GET("/api/v1/tenants/:tenant_id/resources/:resource_type", handler.ListRecords)
	engine.GET("/api/v1/tenants/:tenant_id/resources/:resource_type/stats", handler.GetStats)
	return engine
}

type emptyScopedRepo[R models.Resource] struct{}

func (emptyScopedRepo[R]) FindByTenant(_ context.Context, _ string) ([]R, error) {
	return nil, nil
}

func (emptyScopedRepo[R]) FindByTenantIncludingParent(_ context.Context, _, _ string) ([]R, error) {
	return nil, nil
}

func doRequest(t *testing.T, engine *gin.Engine, method, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestResourceHandler_GetGovernance(t *testing.T) {
	engine := setupResourceRouter(t)

	t.Run("HierarchicalChildCanInherit", func(t *testing.T) {
		rec, body := doRequest(t, engine, http.MethodGet, "/api/v1/tenants/t-child/governance/asset")
		require.Equal(t, http.StatusOK, rec.Code)

		data := body["data"].(map[string]interface{})
		assert.Equal(t, true, data["has_parent"])
		assert.Equal(t, true, data["can_inherit"])
		assert.Equal(t, "hierarchical", data["governance_model"])
	})

	t.Run("RootTenantNeverInherits", func(t *testing.T) {
		rec, body := doRequest(t, engine, http.MethodGet, "/api/v1/tenants/t-parent/governance/asset")
		require.Equal(t, http.StatusOK, rec.Code)

		data := body["data"].(map[string]interface{})
		assert.Equal(t, false, data["has_parent"])
		assert.Equal(t, false, data["can_inherit"])
	})

	t.Run("UnknownResourceType", func(t *testing.T) {
		rec, body := doRequest(t, engine, http.MethodGet, "/api/v1/tenants/t-child/governance/bogus")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, false, body["success"])
	})

	t.Run("UnknownTenant", func(t *testing.T) {
		rec, _ := doRequest(t, engine, http.MethodGet, "/api/v1/tenants/t-missing/governance/asset")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestResourceHandler_ListRecords(t *testing.T) {
	engine := setupResourceRouter(t)

	rec, body := doRequest(t, engine, http.MethodGet, "/api/v1/tenants/t-child/resources/asset")
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]interface{})
	records := data["records"].([]interface{})
	require.Len(t, records, 2)

	byID := make(map[string]map[string]interface{}, len(records))
	for _, raw := range records {
		item := raw.(map[string]interface{})
		record := item["record"].(map[string]interface{})
		byID[record["id"].(string)] = item
	}

	assert.Equal(t, false, byID["a-child"]["inherited"])
	assert.Equal(t, true, byID["a-child"]["editable"])
	assert.Equal(t, true, byID["a-parent"]["inherited"])
	assert.Equal(t, false, byID["a-parent"]["editable"])
}

func TestResourceHandler_GetStats(t *testing.T) {
	engine := setupResourceRouter(t)

	rec, body := doRequest(t, engine, http.MethodGet, "/api/v1/tenants/t-child/resources/asset/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["total"])
	assert.Equal(t, float64(1), data["own"])
	assert.Equal(t, float64(1), data["inherited"])
}

func TestResourceHandler_ScopedEndpointsRejectNonScopedTypes(t *testing.T) {
	engine := setupResourceRouter(t)

	rec, body := doRequest(t, engine, http.MethodGet, "/api/v1/tenants/t-child/resources/risk")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
}
