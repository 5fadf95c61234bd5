package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/solemia/studio-api/internal/auth"
	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func filterRequest(t *testing.T, target string, userCtx *auth.UserContext) (*httptest.ResponseRecorder, *auth.TenantFilter) {
	t.Helper()

	var captured *auth.TenantFilter
	handler := middleware.NewTenantFilterMiddleware(zap.NewNop()).Filter(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if filter, ok := auth.TenantFilterFromContext(r.Context()); ok {
				captured = filter
			}
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest("GET", target, nil)
	if userCtx != nil {
		req = req.WithContext(auth.WithUserContext(req.Context(), userCtx))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, captured
}

func ownerCtx() *auth.UserContext {
	return &auth.UserContext{
		UserID:   "owner-1",
		Roles:    []domain.UserRoleType{domain.RoleOwner},
		TenantID: domain.TenantAll,
	}
}

func staffCtx(tenant domain.TenantID) *auth.UserContext {
	return &auth.UserContext{
		UserID:   "staff-1",
		Roles:    []domain.UserRoleType{domain.RoleStaff},
		TenantID: tenant,
	}
}

func TestTenantFilter_NoUserContextPassesThrough(t *testing.T) {
	rec, captured := filterRequest(t, "/api/v1/clients", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, captured)
}

func TestTenantFilter_OwnerSeesAllByDefault(t *testing.T) {
	rec, captured := filterRequest(t, "/api/v1/clients", ownerCtx())
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Nil(t, captured.TenantID)
}

func TestTenantFilter_OwnerCanScopeToOneTenant(t *testing.T) {
	rec, captured := filterRequest(t, "/api/v1/clients?tenant=salon", ownerCtx())
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	require.NotNil(t, captured.TenantID)
	assert.Equal(t, domain.TenantSalon, *captured.TenantID)
	assert.True(t, captured.RequestedByOwner)
}

func TestTenantFilter_OwnerRequestingAllGetsUnscopedFilter(t *testing.T) {
	rec, captured := filterRequest(t, "/api/v1/clients?tenant=all", ownerCtx())
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Nil(t, captured.TenantID)
	assert.True(t, captured.RequestedByOwner)
}

func TestTenantFilter_StaffScopedToOwnTenant(t *testing.T) {
	rec, captured := filterRequest(t, "/api/v1/clients", staffCtx(domain.TenantNutrition))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	require.NotNil(t, captured.TenantID)
	assert.Equal(t, domain.TenantNutrition, *captured.TenantID)
}

func TestTenantFilter_StaffCannotRequestOtherTenant(t *testing.T) {
	rec, _ := filterRequest(t, "/api/v1/clients?tenant=salon", staffCtx(domain.TenantNutrition))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTenantFilter_UnknownTenantRejected(t *testing.T) {
	rec, _ := filterRequest(t, "/api/v1/clients?tenant=barbershop", ownerCtx())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
