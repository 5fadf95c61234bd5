package service_test

import (
	"context"
	"testing"

	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/repository"
	"github.com/solemia/studio-api/internal/service"
	"github.com/solemia/studio-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPOSSyncService_SyncAllWithoutClient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewPOSSyncService(nil, repository.NewVisitRepository(db), nil, zap.NewNop())

	imported, failed, err := svc.SyncAll(context.Background())
	assert.ErrorIs(t, err, service.ErrPOSNotAvailable)
	assert.Zero(t, imported)
	assert.Zero(t, failed)
}

func TestPOSSyncService_SyncTenantWithoutClient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewPOSSyncService(nil, repository.NewVisitRepository(db), nil, zap.NewNop())

	count, err := svc.SyncTenant(context.Background(), domain.TenantSalon)
	assert.ErrorIs(t, err, service.ErrPOSNotAvailable)
	assert.Zero(t, count)
}
