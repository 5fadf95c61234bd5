package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/solemia/studio-api/internal/auth"
	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/repository"
	"github.com/solemia/studio-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestClientRepository_CreateAndGetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewClientRepository(db)

	client := &domain.Client{
		Name:     "Laura Esquivel",
		Phone:    "555-0101",
		Email:    "laura@example.com",
		TenantID: domain.TenantSalon,
	}

	err := repo.Create(context.Background(), client)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, client.ID)

	found, err := repo.GetByID(context.Background(), client.ID)
	require.NoError(t, err)
	assert.Equal(t, "Laura Esquivel", found.Name)
	assert.Equal(t, "555-0101", found.Phone)
	assert.Equal(t, domain.TenantSalon, found.TenantID)
}

func TestClientRepository_GetByPhone(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewClientRepository(db)

	testutil.CreateTestClient(t, db, domain.TenantSalon, "Laura Esquivel", "555-0101")

	found, err := repo.GetByPhone(context.Background(), domain.TenantSalon, "555-0101")
	require.NoError(t, err)
	assert.Equal(t, "Laura Esquivel", found.Name)

	// The same phone in the other studio is a different client
	_, err = repo.GetByPhone(context.Background(), domain.TenantNutrition, "555-0101")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestClientRepository_ListAllRespectsTenantFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewClientRepository(db)

	testutil.CreateTestClient(t, db, domain.TenantSalon, "Laura Esquivel", "555-0101")
	testutil.CreateTestClient(t, db, domain.TenantNutrition, "Pedro Gómez", "555-0202")

	// No filter: both studios visible
	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Scoped to the salon
	salonID := domain.TenantSalon
	ctx := auth.WithTenantFilter(context.Background(), &auth.TenantFilter{TenantID: &salonID})
	scoped, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "Laura Esquivel", scoped[0].Name)
}

func TestClientRepository_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewClientRepository(db)

	testutil.CreateTestClient(t, db, domain.TenantSalon, "Laura Esquivel", "555-0101")
	testutil.CreateTestClient(t, db, domain.TenantSalon, "Lorena Ruiz", "555-0303")

	found, err := repo.Search(context.Background(), "laura", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Laura Esquivel", found[0].Name)

	byPhone, err := repo.Search(context.Background(), "555-0303", 10)
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, "Lorena Ruiz", byPhone[0].Name)
}

func TestClientRepository_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewClientRepository(db)

	client := testutil.CreateTestClient(t, db, domain.TenantSalon, "Laura Esquivel", "555-0101")

	err := repo.Delete(context.Background(), client.ID)
	require.NoError(t, err)

	_, err = repo.GetByID(context.Background(), client.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
