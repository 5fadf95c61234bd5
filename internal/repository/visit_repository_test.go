package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/solemia/studio-api/internal/auth"
	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/repository"
	"github.com/solemia/studio-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisitRepository_CreateBatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewVisitRepository(db)

	base := time.Date(2025, 6, 10, 11, 0, 0, 0, time.UTC)
	visits := []domain.Visit{
		{ClientName: "Laura Esquivel", Date: base.Truncate(24 * time.Hour), OccurredAt: base, ServiceName: "Corte", Category: domain.VisitCategoryHaircut, Amount: 350, StaffName: "Ana", TenantID: domain.TenantSalon},
		{ClientName: "Pedro Gómez", Date: base.Truncate(24 * time.Hour), OccurredAt: base.Add(time.Hour), ServiceName: "Tinte", Category: domain.VisitCategoryColor, Amount: 900, StaffName: "Sofía", TenantID: domain.TenantSalon},
	}

	err := repo.CreateBatch(context.Background(), visits)
	require.NoError(t, err)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestVisitRepository_ListBetween(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewVisitRepository(db)

	testutil.CreateTestVisit(t, db, domain.TenantSalon, "Laura Esquivel", "Ana", domain.VisitCategoryHaircut, 350, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	testutil.CreateTestVisit(t, db, domain.TenantSalon, "Laura Esquivel", "Ana", domain.VisitCategoryColor, 900, time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))
	testutil.CreateTestVisit(t, db, domain.TenantSalon, "Laura Esquivel", "Ana", domain.VisitCategoryNails, 250, time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC))

	visits, err := repo.ListBetween(context.Background(),
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, visits, 2)
	// Oldest first
	assert.Equal(t, domain.VisitCategoryHaircut, visits[0].Category)
	assert.Equal(t, domain.VisitCategoryColor, visits[1].Category)
}

func TestVisitRepository_ListByClientName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewVisitRepository(db)

	testutil.CreateTestVisit(t, db, domain.TenantSalon, "Laura Esquivel", "Ana", domain.VisitCategoryHaircut, 350, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	testutil.CreateTestVisit(t, db, domain.TenantSalon, "Laura Esquivel", "Ana", domain.VisitCategoryColor, 900, time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))
	testutil.CreateTestVisit(t, db, domain.TenantSalon, "Pedro Gómez", "Ana", domain.VisitCategoryNails, 250, time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC))

	visits, err := repo.ListByClientName(context.Background(), "Laura Esquivel")
	require.NoError(t, err)
	require.Len(t, visits, 2)
	// Newest first
	assert.Equal(t, domain.VisitCategoryColor, visits[0].Category)
	assert.Equal(t, domain.VisitCategoryHaircut, visits[1].Category)
}

func TestVisitRepository_ListAllRespectsTenantFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewVisitRepository(db)

	testutil.CreateTestVisit(t, db, domain.TenantSalon, "Laura Esquivel", "Ana", domain.VisitCategoryHaircut, 350, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	testutil.CreateTestVisit(t, db, domain.TenantNutrition, "Pedro Gómez", "Mariana", domain.VisitCategorySkin, 600, time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC))

	nutritionID := domain.TenantNutrition
	ctx := auth.WithTenantFilter(context.Background(), &auth.TenantFilter{TenantID: &nutritionID})

	visits, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, "Pedro Gómez", visits[0].ClientName)
}

func TestVisitRepository_ExistingPOSRefs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewVisitRepository(db)

	visit := testutil.CreateTestVisit(t, db, domain.TenantSalon, "Laura Esquivel", "Ana", domain.VisitCategoryHaircut, 350, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	visit.POSRef = "TKT-1001"
	require.NoError(t, db.Save(visit).Error)

	existing, err := repo.ExistingPOSRefs(context.Background(), []string{"TKT-1001", "TKT-1002"})
	require.NoError(t, err)
	assert.True(t, existing["TKT-1001"])
	assert.False(t, existing["TKT-1002"])

	empty, err := repo.ExistingPOSRefs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestVisitRepository_LatestImportedAt(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewVisitRepository(db)

	// Nothing imported yet
	latest, err := repo.LatestImportedAt(context.Background(), domain.TenantSalon)
	require.NoError(t, err)
	assert.True(t, latest.IsZero())

	// Manual visits do not count as imports
	testutil.CreateTestVisit(t, db, domain.TenantSalon, "Laura Esquivel", "Ana", domain.VisitCategoryHaircut, 350, time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC))

	older := testutil.CreateTestVisit(t, db, domain.TenantSalon, "Pedro Gómez", "Ana", domain.VisitCategoryColor, 900, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	older.POSRef = "TKT-1001"
	require.NoError(t, db.Save(older).Error)

	newer := testutil.CreateTestVisit(t, db, domain.TenantSalon, "Pedro Gómez", "Ana", domain.VisitCategoryNails, 250, time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC))
	newer.POSRef = "TKT-1002"
	require.NoError(t, db.Save(newer).Error)

	latest, err = repo.LatestImportedAt(context.Background(), domain.TenantSalon)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC), latest.UTC())

	// Scoped per tenant
	latest, err = repo.LatestImportedAt(context.Background(), domain.TenantNutrition)
	require.NoError(t, err)
	assert.True(t, latest.IsZero())
}
