package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/turtacn/grc/internal/domain/models"
	"github.com/turtacn/grc/internal/infrastructure/persistence/postgres"
	"github.com/turtacn/grc/pkg/constants"
	"github.com/turtacn/grc/pkg/errors"
	"github.com/turtacn/grc/pkg/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Tenant{},
		&models.GovernanceScope{},
		&models.Asset{},
		&models.Risk{},
		&models.Control{},
		&models.Document{},
		&models.Incident{},
		&models.RiskTreatmentPlan{},
	))
	return db
}

func TestTenantRepository_FindByID(t *testing.T) {
	db := setupTestDB(t)
	log := logger.NewNoopLogger()
	repo := postgres.NewTenantRepository(db, log)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Tenant{ID: "t-parent", Code: "HQ", Name: "Headquarters", Active: true}).Error)
	require.NoError(t, db.Create(&models.Tenant{ID: "t-child", Code: "SUB", ParentID: "t-parent", Active: true}).Error)
	require.NoError(t, db.Create(&models.Tenant{ID: "t-orphan", Code: "ORPH", ParentID: "t-gone", Active: true}).Error)

	t.Run("ResolvesParent", func(t *testing.T) {
		tenant, err := repo.FindByID(ctx, "t-child")
		require.NoError(t, err)
		require.NotNil(t, tenant.Parent)
		assert.Equal(t, "t-parent", tenant.Parent.ID)
		assert.True(t, tenant.HasParent())
	})

	t.Run("RootHasNoParent", func(t *testing.T) {
		tenant, err := repo.FindByID(ctx, "t-parent")
		require.NoError(t, err)
		assert.Nil(t, tenant.Parent)
		assert.False(t, tenant.HasParent())
	})

	t.Run("DanglingParentTreatedAsRoot", func(t *testing.T) {
		tenant, err := repo.FindByID(ctx, "t-orphan")
		require.NoError(t, err)
		assert.Nil(t, tenant.Parent)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "t-missing")
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestTenantRepository_FindChildren(t *testing.T) {
	db := setupTestDB(t)
	repo := postgres.NewTenantRepository(db, logger.NewNoopLogger())
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Tenant{ID: "t-parent", Code: "HQ"}).Error)
	require.NoError(t, db.Create(&models.Tenant{ID: "t-b", Code: "B", ParentID: "t-parent"}).Error)
	require.NoError(t, db.Create(&models.Tenant{ID: "t-a", Code: "A", ParentID: "t-parent"}).Error)
	require.NoError(t, db.Create(&models.Tenant{ID: "t-other", Code: "O"}).Error)

	children, err := repo.FindChildren(ctx, "t-parent")
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "t-a", children[0].ID)
	assert.Equal(t, "t-b", children[1].ID)
}

func TestGovernanceRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := postgres.NewGovernanceRepository(db, logger.NewNoopLogger())
	ctx := context.Background()

	require.NoError(t, db.Create(&models.GovernanceScope{
		ID: "g-1", TenantID: "t-1", ResourceType: constants.ResourceTypeAsset,
		Model: constants.GovernanceHierarchical,
	}).Error)
	require.NoError(t, db.Create(&models.GovernanceScope{
		ID: "g-2", TenantID: "t-1", Model: constants.GovernanceIndependent,
	}).Error)

	t.Run("ScopedHit", func(t *testing.T) {
		scope, err := repo.FindForScope(ctx, "t-1", constants.ResourceTypeAsset)
		require.NoError(t, err)
		require.NotNil(t, scope)
		assert.Equal(t, constants.GovernanceHierarchical, scope.Model)
	})

	t.Run("ScopedMissIsNil", func(t *testing.T) {
		scope, err := repo.FindForScope(ctx, "t-1", constants.ResourceTypeDocument)
		require.NoError(t, err)
		assert.Nil(t, scope)
	})

	t.Run("DefaultHit", func(t *testing.T) {
		scope, err := repo.FindDefault(ctx, "t-1")
		require.NoError(t, err)
		require.NotNil(t, scope)
		assert.Equal(t, constants.GovernanceIndependent, scope.Model)
	})

	t.Run("DefaultMissIsNil", func(t *testing.T) {
		scope, err := repo.FindDefault(ctx, "t-2")
		require.NoError(t, err)
		assert.Nil(t, scope)
	})
}

func TestScopedRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := postgres.NewScopedRepository[*models.Asset](db, logger.NewNoopLogger())
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Asset{ID: "a-p1", TenantID: "t-parent", Name: "core switch"}).Error)
	require.NoError(t, db.Create(&models.Asset{ID: "a-p2", TenantID: "t-parent", Name: "erp database"}).Error)
	require.NoError(t, db.Create(&models.Asset{ID: "a-c1", TenantID: "t-child", Name: "branch fileserver"}).Error)
	require.NoError(t, db.Create(&models.Asset{ID: "a-x1", TenantID: "t-unrelated", Name: "lab vm"}).Error)

	t.Run("OwnOnly", func(t *testing.T) {
		records, err := repo.FindByTenant(ctx, "t-child")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "a-c1", records[0].ID)
	})

	t.Run("IncludingParent", func(t *testing.T) {
		records, err := repo.FindByTenantIncludingParent(ctx, "t-child", "t-parent")
		require.NoError(t, err)
		require.Len(t, records, 3)
		// Own records come first.
		assert.Equal(t, "t-child", records[0].TenantID)
	})

	t.Run("WorksForOtherFamilies", func(t *testing.T) {
		docRepo := postgres.NewScopedRepository[*models.Document](db, logger.NewNoopLogger())
		require.NoError(t, db.Create(&models.Document{ID: "d-1", TenantID: "t-child", Title: "acceptable use policy"}).Error)

		records, err := docRepo.FindByTenant(ctx, "t-child")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "d-1", records[0].ID)
	})
}

func TestRiskRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := postgres.NewRiskRepository(db, logger.NewNoopLogger())
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Risk{
		ID: "r-1", TenantID: "t-1", Title: "data exfiltration",
		Status: constants.RiskStatusActive, Probability: 3, Impact: 4,
	}).Error)

	t.Run("RoundTrip", func(t *testing.T) {
		risk, err := repo.FindByID(ctx, "r-1")
		require.NoError(t, err)

		risk.RaiseProbability(1)
		risk.AppendNote(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), "raised after incident")
		require.NoError(t, repo.Save(ctx, risk))

		reloaded, err := repo.FindByID(ctx, "r-1")
		require.NoError(t, err)
		assert.Equal(t, 4, reloaded.Probability)
		assert.Contains(t, reloaded.Notes, "raised after incident")
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "r-missing")
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestIncidentRepository_CountRelated(t *testing.T) {
	db := setupTestDB(t)
	repo := postgres.NewIncidentRepository(db, logger.NewNoopLogger())
	ctx := context.Background()

	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	since := now.AddDate(0, 0, -90)

	sharedRisk := models.Risk{ID: "r-shared", TenantID: "t-1", Status: constants.RiskStatusActive, Probability: 2, Impact: 2}
	require.NoError(t, db.Create(&sharedRisk).Error)

	seed := func(id, assetID string, detected time.Time, risks ...models.Risk) {
		require.NoError(t, db.Create(&models.Incident{
			ID: id, TenantID: "t-1", AssetID: assetID,
			Status: constants.IncidentStatusClosed, Severity: constants.IncidentSeverityLow,
			DetectedAt: detected, RealizedRisks: risks,
		}).Error)
	}

	seed("inc-subject", "asset-1", now, sharedRisk)
	seed("inc-same-asset", "asset-1", now.AddDate(0, 0, -10))
	seed("inc-shared-risk", "asset-2", now.AddDate(0, 0, -20), sharedRisk)
	seed("inc-both", "asset-1", now.AddDate(0, 0, -30), sharedRisk)
	seed("inc-too-old", "asset-1", now.AddDate(0, 0, -120))
	seed("inc-unrelated", "asset-9", now.AddDate(0, 0, -5))

	subject, err := repo.FindByID(ctx, "inc-subject")
	require.NoError(t, err)
	require.True(t, subject.HasRealizedRisks())

	t.Run("SameAssetOrSharedRisk", func(t *testing.T) {
		count, err := repo.CountRelated(ctx, subject, since)
		require.NoError(t, err)
		// inc-same-asset, inc-shared-risk and inc-both; never the subject
		// itself, inc-too-old is outside the window.
		assert.Equal(t, 3, count)
	})

	t.Run("AssetOnlySubject", func(t *testing.T) {
		assetOnly := &models.Incident{ID: "inc-same-asset", AssetID: "asset-1"}
		count, err := repo.CountRelated(ctx, assetOnly, since)
		require.NoError(t, err)
		// inc-subject and inc-both share the asset inside the window.
		assert.Equal(t, 2, count)
	})

	t.Run("NothingToRelateOn", func(t *testing.T) {
		bare := &models.Incident{ID: "inc-bare"}
		count, err := repo.CountRelated(ctx, bare, since)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
