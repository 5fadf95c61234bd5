package service_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/solemia/studio-api/internal/auth"
	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/repository"
	"github.com/solemia/studio-api/internal/service"
	"github.com/solemia/studio-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuditLogService(t *testing.T) *service.AuditLogService {
	db := testutil.SetupTestDB(t)
	return service.NewAuditLogService(repository.NewAuditLogRepository(db), zap.NewNop())
}

func managerContext() context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      "user-1",
		DisplayName: "Ana Ruiz",
		Email:       "ana@solemia.mx",
		Roles:       []domain.UserRoleType{domain.RoleManager},
		TenantID:    domain.TenantSalon,
	})
}

func TestAuditLogService_LogCreateCapturesUser(t *testing.T) {
	svc := newAuditLogService(t)
	ctx := managerContext()

	entityID := uuid.New()
	salon := domain.TenantSalon
	req := httptest.NewRequest("POST", "/api/v1/clients", nil)
	req.Header.Set("User-Agent", "test-agent")

	err := svc.LogCreate(ctx, req, "Client", entityID, "Laura Esquivel",
		map[string]interface{}{"name": "Laura Esquivel"}, &salon)
	require.NoError(t, err)

	logs, total, err := svc.List(ctx, service.AuditLogQueryParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.AuditActionCreate, logs[0].Action)
	assert.Equal(t, "user-1", logs[0].UserID)
	assert.Equal(t, "ana@solemia.mx", logs[0].UserEmail)
	assert.Equal(t, "Laura Esquivel", logs[0].EntityName)
	require.NotNil(t, logs[0].TenantID)
	assert.Equal(t, domain.TenantSalon, *logs[0].TenantID)
	assert.Equal(t, "test-agent", logs[0].UserAgent)
}

func TestAuditLogService_LogUpdateRecordsChanges(t *testing.T) {
	svc := newAuditLogService(t)
	ctx := managerContext()

	entityID := uuid.New()
	salon := domain.TenantSalon

	err := svc.LogUpdate(ctx, nil, "Client", entityID, "Laura Esquivel",
		map[string]interface{}{"phone": "555-0101"},
		map[string]interface{}{"phone": "555-0999"},
		&salon)
	require.NoError(t, err)

	logs, _, err := svc.List(ctx, service.AuditLogQueryParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Changes, "phone")
	assert.Contains(t, logs[0].Changes, "555-0999")
}

func TestAuditLogService_LogImport(t *testing.T) {
	svc := newAuditLogService(t)

	salon := domain.TenantSalon
	err := svc.LogImport(context.Background(), "Visit", 42, "pos", &salon)
	require.NoError(t, err)

	logs, _, err := svc.List(context.Background(), service.AuditLogQueryParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.AuditActionImport, logs[0].Action)
	assert.Equal(t, "Visit", logs[0].EntityType)
	assert.Contains(t, logs[0].Metadata, "pos")
}

func TestAuditLogService_GetStats(t *testing.T) {
	svc := newAuditLogService(t)
	ctx := managerContext()

	salon := domain.TenantSalon
	id := uuid.New()
	require.NoError(t, svc.LogCreate(ctx, nil, "Client", id, "Laura", nil, &salon))
	require.NoError(t, svc.LogDelete(ctx, nil, "Client", id, "Laura", nil, &salon))

	stats, err := svc.GetStats(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats[domain.AuditActionCreate])
	assert.Equal(t, int64(1), stats[domain.AuditActionDelete])
}
