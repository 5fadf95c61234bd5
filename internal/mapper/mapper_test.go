package mapper_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/solemia/studio-api/internal/analytics"
	"github.com/solemia/studio-api/internal/auth"
	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/mapper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToVisitDTO(t *testing.T) {
	nps := 9
	visit := &domain.Visit{
		BaseModel:   domain.BaseModel{ID: uuid.New()},
		ClientName:  "Laura Esquivel",
		Date:        time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		OccurredAt:  time.Date(2025, 6, 15, 11, 30, 0, 0, time.UTC),
		ServiceName: "Corte y peinado",
		Category:    domain.VisitCategoryHaircut,
		Amount:      350,
		StaffName:   "Ana",
		NPS:         &nps,
	}

	dto := mapper.ToVisitDTO(visit)
	assert.Equal(t, "2025-06-15", dto.Date)
	assert.Equal(t, "2025-06-15T11:30:00Z", dto.OccurredAt)
	assert.Equal(t, domain.VisitCategoryHaircut, dto.Category)
	require.NotNil(t, dto.NPS)
	assert.Equal(t, 9, *dto.NPS)
}

func TestToClientProfileDTO(t *testing.T) {
	profile := &analytics.ClientProfile{
		Name:            "Laura Esquivel",
		TotalSpent:      1250,
		VisitCount:      2,
		AvgSpent:        625,
		FavoriteService: "Corte y peinado",
		LastVisit:       time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Segment:         analytics.SegmentVIP,
		CustomSegments:  []string{"Frecuentes"},
	}

	dto := mapper.ToClientProfileDTO(profile)
	assert.Equal(t, "2025-06-15", dto.LastVisit)
	assert.Equal(t, string(analytics.SegmentVIP), dto.Segment)
	assert.Equal(t, []string{"Frecuentes"}, dto.CustomSegments)
}

func TestToAuthUserDTO(t *testing.T) {
	userCtx := &auth.UserContext{
		UserID:      "user-1",
		DisplayName: "Ana Ruiz",
		Email:       "ana@solemia.mx",
		Roles:       []domain.UserRoleType{domain.RoleOwner},
		TenantID:    domain.TenantAll,
	}
	tenant := &domain.Tenant{ID: domain.TenantSalon, Name: "Solemia Beauty Studio"}

	dto := mapper.ToAuthUserDTO(userCtx, tenant)
	assert.Equal(t, "AR", dto.Initials)
	assert.True(t, dto.IsOwner)
	require.NotNil(t, dto.Tenant)
	assert.Equal(t, domain.TenantSalon, dto.Tenant.ID)

	dto = mapper.ToAuthUserDTO(userCtx, nil)
	assert.Nil(t, dto.Tenant)
}
