package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/repository"
	"github.com/solemia/studio-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createAuditLog(t *testing.T, repo *repository.AuditLogRepository, action domain.AuditAction, entityType string, performedAt time.Time) *domain.AuditLog {
	t.Helper()
	entityID := uuid.New()
	log := &domain.AuditLog{
		UserID:      "user-1",
		UserEmail:   "ana@solemia.mx",
		Action:      action,
		EntityType:  entityType,
		EntityID:    &entityID,
		PerformedAt: performedAt,
	}
	require.NoError(t, repo.Create(context.Background(), log))
	return log
}

func TestAuditLogRepository_ListOrdersNewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewAuditLogRepository(db)

	createAuditLog(t, repo, domain.AuditActionCreate, "Client", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	createAuditLog(t, repo, domain.AuditActionUpdate, "Client", time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC))
	createAuditLog(t, repo, domain.AuditActionDelete, "Segment", time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC))

	logs, total, err := repo.List(context.Background(), nil, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, logs, 3)
	assert.Equal(t, domain.AuditActionDelete, logs[0].Action)
	assert.Equal(t, domain.AuditActionCreate, logs[2].Action)
}

func TestAuditLogRepository_ListFiltersByAction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewAuditLogRepository(db)

	createAuditLog(t, repo, domain.AuditActionCreate, "Client", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	createAuditLog(t, repo, domain.AuditActionUpdate, "Client", time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC))

	action := domain.AuditActionUpdate
	logs, total, err := repo.List(context.Background(), &repository.AuditLogFilter{Action: &action}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.AuditActionUpdate, logs[0].Action)
}

func TestAuditLogRepository_ListByEntity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewAuditLogRepository(db)

	log := createAuditLog(t, repo, domain.AuditActionCreate, "Client", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	createAuditLog(t, repo, domain.AuditActionCreate, "Segment", time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC))

	logs, err := repo.ListByEntity(context.Background(), "Client", *log.EntityID, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, log.ID, logs[0].ID)
}

func TestAuditLogRepository_CountByAction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewAuditLogRepository(db)

	createAuditLog(t, repo, domain.AuditActionCreate, "Client", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	createAuditLog(t, repo, domain.AuditActionCreate, "Client", time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC))
	createAuditLog(t, repo, domain.AuditActionImport, "Visit", time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC))

	counts, err := repo.CountByAction(context.Background(),
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[domain.AuditActionCreate])
	assert.Equal(t, int64(1), counts[domain.AuditActionImport])
}

func TestAuditLogRepository_DeleteOlderThan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewAuditLogRepository(db)

	createAuditLog(t, repo, domain.AuditActionCreate, "Client", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	createAuditLog(t, repo, domain.AuditActionUpdate, "Client", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))

	deleted, err := repo.DeleteOlderThan(context.Background(), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, total, err := repo.List(context.Background(), nil, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
