package middleware

import (
	"net/http"

	"github.com/solemia/studio-api/internal/auth"
	"github.com/solemia/studio-api/internal/domain"
	"go.uber.org/zap"
)

// TenantFilterMiddleware handles multi-tenant data isolation. It extracts
// the user's tenant context and optionally allows owners to scope a request
// to one specific business.
type TenantFilterMiddleware struct {
	logger *zap.Logger
}

// NewTenantFilterMiddleware creates a new tenant filter middleware
func NewTenantFilterMiddleware(logger *zap.Logger) *TenantFilterMiddleware {
	return &TenantFilterMiddleware{
		logger: logger,
	}
}

// Filter is the middleware handler that sets the effective tenant filter in context
// - Owners can optionally filter by ?tenant=<id>
// - Staff of a single business are always filtered to their own tenant
// - If no filter is specified, owners see all data, staff see their tenant's data
func (m *TenantFilterMiddleware) Filter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, ok := auth.FromContext(r.Context())
		if !ok {
			// No user context - authentication middleware should have
			// already rejected unauthenticated requests
			next.ServeHTTP(w, r)
			return
		}

		var filter *auth.TenantFilter

		requestedTenant := r.URL.Query().Get("tenant")

		if requestedTenant != "" {
			tenantID := domain.TenantID(requestedTenant)

			if !domain.IsValidTenantID(requestedTenant) {
				http.Error(w, "Invalid tenant parameter", http.StatusBadRequest)
				return
			}

			if !userCtx.CanAccessTenant(tenantID) {
				m.logger.Warn("user attempted to access unauthorized tenant",
					zap.String("user_id", userCtx.UserID),
					zap.String("user_tenant", string(userCtx.TenantID)),
					zap.String("requested_tenant", requestedTenant),
				)
				http.Error(w, "Access denied: you cannot access data for this tenant", http.StatusForbidden)
				return
			}

			if tenantID == domain.TenantAll {
				filter = &auth.TenantFilter{
					TenantID:         nil,
					RequestedByOwner: userCtx.IsOwner(),
				}
			} else {
				filter = &auth.TenantFilter{
					TenantID:         &tenantID,
					RequestedByOwner: userCtx.IsOwner(),
				}
			}
		} else {
			// No explicit tenant requested; fall back to the tenant bound
			// to the caller's token. Owners and all-tenant tokens see
			// everything.
			if userCtx.TenantID != "" && userCtx.TenantID != domain.TenantAll {
				tenantID := userCtx.TenantID
				filter = &auth.TenantFilter{
					TenantID:         &tenantID,
					RequestedByOwner: false,
				}
			} else {
				filter = &auth.TenantFilter{
					TenantID:         nil,
					RequestedByOwner: false,
				}
			}
		}

		ctx := auth.WithTenantFilter(r.Context(), filter)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
