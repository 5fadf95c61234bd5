package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/solemia/studio-api/internal/analytics"
	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/repository"
	"github.com/solemia/studio-api/internal/service"
	"github.com/solemia/studio-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newClientService(t *testing.T) (*service.ClientService, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	svc := service.NewClientService(
		repository.NewClientRepository(db),
		repository.NewVisitRepository(db),
		repository.NewSegmentRepository(db),
		zap.NewNop(),
	)
	return svc, db
}

func TestClientService_Create(t *testing.T) {
	svc, _ := newClientService(t)

	dto, err := svc.Create(context.Background(), domain.TenantSalon, &domain.CreateClientRequest{
		Name:  "Laura Esquivel",
		Phone: "555-0101",
		Email: "laura@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Laura Esquivel", dto.Name)
	assert.Equal(t, "555-0101", dto.Phone)
	assert.NotEmpty(t, dto.ID)
}

func TestClientService_CreateRejectsDuplicatePhone(t *testing.T) {
	svc, db := newClientService(t)

	testutil.CreateTestClient(t, db, domain.TenantSalon, "Laura Esquivel", "555-0101")

	_, err := svc.Create(context.Background(), domain.TenantSalon, &domain.CreateClientRequest{
		Name:  "Laura E.",
		Phone: "555-0101",
	})
	assert.ErrorIs(t, err, service.ErrDuplicatePhone)

	// Same phone in the other studio is allowed
	_, err = svc.Create(context.Background(), domain.TenantNutrition, &domain.CreateClientRequest{
		Name:  "Laura E.",
		Phone: "555-0101",
	})
	assert.NoError(t, err)
}

func TestClientService_CreateRequiresTenant(t *testing.T) {
	svc, _ := newClientService(t)

	_, err := svc.Create(context.Background(), "", &domain.CreateClientRequest{
		Name:  "Laura Esquivel",
		Phone: "555-0101",
	})
	assert.ErrorIs(t, err, service.ErrTenantRequired)
}

func TestClientService_CreateRejectsUnknownTenant(t *testing.T) {
	svc, _ := newClientService(t)

	_, err := svc.Create(context.Background(), "barbershop", &domain.CreateClientRequest{
		Name:  "Laura Esquivel",
		Phone: "555-0101",
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestClientService_UpdateRejectsTakenPhone(t *testing.T) {
	svc, db := newClientService(t)

	testutil.CreateTestClient(t, db, domain.TenantSalon, "Laura Esquivel", "555-0101")
	other := testutil.CreateTestClient(t, db, domain.TenantSalon, "Pedro Gómez", "555-0202")

	_, err := svc.Update(context.Background(), other.ID, &domain.UpdateClientRequest{
		Name:  "Pedro Gómez",
		Phone: "555-0101",
	})
	assert.ErrorIs(t, err, service.ErrDuplicatePhone)
}

func TestClientService_Directory(t *testing.T) {
	svc, db := newClientService(t)
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	svc.WithNow(func() time.Time { return now })

	// Two visits for one client, one for another
	testutil.CreateTestVisit(t, db, domain.TenantSalon, "Laura Esquivel", "Ana", domain.VisitCategoryHaircut, 350, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	testutil.CreateTestVisit(t, db, domain.TenantSalon, "Laura Esquivel", "Ana", domain.VisitCategoryColor, 900, time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))
	testutil.CreateTestVisit(t, db, domain.TenantSalon, "Pedro Gómez", "Sofía", domain.VisitCategoryNails, 250, time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC))

	resp, err := svc.Directory(context.Background(), analytics.Query{})
	require.NoError(t, err)
	require.Len(t, resp.Clients, 2)
	assert.Equal(t, 2, resp.Summary.ClientCount)

	byName := map[string]domain.ClientProfileDTO{}
	for _, c := range resp.Clients {
		byName[c.Name] = c
	}
	laura := byName["Laura Esquivel"]
	assert.Equal(t, 1250.0, laura.TotalSpent)
	assert.Equal(t, 2, laura.VisitCount)
	assert.Equal(t, "2025-06-15", laura.LastVisit)
}

func TestClientService_DirectorySearchFilter(t *testing.T) {
	svc, db := newClientService(t)
	svc.WithNow(func() time.Time { return time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC) })

	testutil.CreateTestVisit(t, db, domain.TenantSalon, "Laura Esquivel", "Ana", domain.VisitCategoryHaircut, 350, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	testutil.CreateTestVisit(t, db, domain.TenantSalon, "Pedro Gómez", "Sofía", domain.VisitCategoryNails, 250, time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC))

	resp, err := svc.Directory(context.Background(), analytics.Query{Search: "laura"})
	require.NoError(t, err)
	require.Len(t, resp.Clients, 1)
	assert.Equal(t, "Laura Esquivel", resp.Clients[0].Name)
}

func TestClientService_ExportCSV(t *testing.T) {
	svc, db := newClientService(t)
	svc.WithNow(func() time.Time { return time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC) })

	testutil.CreateTestVisit(t, db, domain.TenantSalon, "Laura Esquivel", "Ana", domain.VisitCategoryHaircut, 350, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))

	data, err := svc.ExportCSV(context.Background(), analytics.Query{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Name,Phone,Email,Total Spent"))
	assert.Contains(t, lines[1], "Laura Esquivel")
	assert.Contains(t, lines[1], "350.00")
}

func TestClientService_ExportCSVJoinsCustomSegments(t *testing.T) {
	svc, db := newClientService(t)
	svc.WithNow(func() time.Time { return time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC) })

	testutil.CreateTestVisit(t, db, domain.TenantSalon, "Laura Esquivel", "Ana", domain.VisitCategoryHaircut, 350, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	// Rule-less segments match every client, so both names join in the CSV.
	require.NoError(t, db.Create(&domain.Segment{Name: "Boda", TenantID: domain.TenantSalon}).Error)
	require.NoError(t, db.Create(&domain.Segment{Name: "Promo Verano", TenantID: domain.TenantSalon}).Error)

	data, err := svc.ExportCSV(context.Background(), analytics.Query{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Boda; Promo Verano")
}
