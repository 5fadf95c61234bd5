// Package testutil provides shared helpers for database-backed tests. Tests
// run against in-memory sqlite so the suite needs no running services.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/solemia/studio-api/internal/database"
	"github.com/solemia/studio-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates a fresh in-memory database with the full schema and
// the two studio tenants seeded.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache database keeps the schema visible across the
	// pooled connections gorm opens.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, database.AutoMigrate(db))
	seedTenants(t, db)

	return db
}

func seedTenants(t *testing.T, db *gorm.DB) {
	t.Helper()
	tenants := []domain.Tenant{
		{ID: domain.TenantSalon, Name: "Solemia Beauty Studio", ShortName: "Beauty", Color: "#e91e63", IsActive: true},
		{ID: domain.TenantNutrition, Name: "Solemia Nutrición", ShortName: "Nutrición", Color: "#4caf50", IsActive: true},
	}
	for i := range tenants {
		require.NoError(t, db.Create(&tenants[i]).Error)
	}
}

// CreateTestClient inserts a client stub and returns it.
func CreateTestClient(t *testing.T, db *gorm.DB, tenantID domain.TenantID, name, phone string) *domain.Client {
	t.Helper()
	client := &domain.Client{
		Name:     name,
		Phone:    phone,
		TenantID: tenantID,
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

// CreateTestVisit inserts a visit and returns it.
func CreateTestVisit(t *testing.T, db *gorm.DB, tenantID domain.TenantID, clientName, staffName string, category domain.VisitCategory, amount float64, occurredAt time.Time) *domain.Visit {
	t.Helper()
	visit := &domain.Visit{
		ClientName:  clientName,
		Date:        occurredAt.UTC().Truncate(24 * time.Hour),
		OccurredAt:  occurredAt.UTC(),
		ServiceName: string(category),
		Category:    category,
		Amount:      amount,
		StaffName:   staffName,
		TenantID:    tenantID,
	}
	require.NoError(t, db.Create(visit).Error)
	return visit
}
