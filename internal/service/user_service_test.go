package service_test

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/solemia/studio-api/internal/auth"
	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/repository"
	"github.com/solemia/studio-api/internal/service"
	"github.com/solemia/studio-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newUserService(t *testing.T) (*service.UserService, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	svc := service.NewUserService(
		repository.NewUserRepository(db),
		repository.NewTenantRepository(db),
		zap.NewNop(),
	)
	return svc, db
}

func seedUser(t *testing.T, db *gorm.DB, id, name, email string, tenantID *domain.TenantID) {
	t.Helper()
	user := &domain.User{
		ID:          id,
		Email:       email,
		DisplayName: name,
		Roles:       pq.StringArray{"staff"},
		TenantID:    tenantID,
		IsActive:    true,
	}
	require.NoError(t, db.Create(user).Error)
}

func TestUserService_CurrentUserRecordsLogin(t *testing.T) {
	svc, db := newUserService(t)

	ctx := auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      "user-9",
		DisplayName: "Mariana Flores",
		Email:       "mariana@solemia.mx",
		Roles:       []domain.UserRoleType{domain.RoleStaff},
		TenantID:    domain.TenantSalon,
	})

	dto, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Mariana Flores", dto.Name)
	require.NotNil(t, dto.Tenant)
	assert.Equal(t, "Solemia Beauty Studio", dto.Tenant.Name)

	var stored domain.User
	require.NoError(t, db.First(&stored, "id = ?", "user-9").Error)
	assert.Equal(t, "mariana@solemia.mx", stored.Email)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestUserService_CurrentUserWithoutContext(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.CurrentUser(context.Background())
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestUserService_ListUsersScopedToTenant(t *testing.T) {
	svc, db := newUserService(t)

	salon := domain.TenantSalon
	nutrition := domain.TenantNutrition
	seedUser(t, db, "user-1", "Ana Ruiz", "ana@solemia.mx", &salon)
	seedUser(t, db, "user-2", "Diego León", "diego@solemia.mx", &nutrition)

	staffCtx := auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:   "user-1",
		Roles:    []domain.UserRoleType{domain.RoleStaff},
		TenantID: domain.TenantSalon,
	})

	dtos, err := svc.ListUsers(staffCtx)
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, "Ana Ruiz", dtos[0].Name)
}

func TestUserService_ListUsersOwnerSeesAll(t *testing.T) {
	svc, db := newUserService(t)

	salon := domain.TenantSalon
	nutrition := domain.TenantNutrition
	seedUser(t, db, "user-1", "Ana Ruiz", "ana@solemia.mx", &salon)
	seedUser(t, db, "user-2", "Diego León", "diego@solemia.mx", &nutrition)

	ownerCtx := auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:   "owner-1",
		Roles:    []domain.UserRoleType{domain.RoleOwner},
		TenantID: domain.TenantAll,
	})

	dtos, err := svc.ListUsers(ownerCtx)
	require.NoError(t, err)
	assert.Len(t, dtos, 2)
}
