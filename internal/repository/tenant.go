package repository

import (
	"context"

	"github.com/solemia/studio-api/internal/auth"
	"gorm.io/gorm"
)

// ApplyTenantFilter scopes a query to the caller's studio. Queries from
// owners, who see both studios, pass through unchanged.
func ApplyTenantFilter(ctx context.Context, query *gorm.DB) *gorm.DB {
	if tenantID := auth.GetEffectiveTenantFilter(ctx); tenantID != nil {
		return query.Where("tenant_id = ?", *tenantID)
	}
	return query
}
