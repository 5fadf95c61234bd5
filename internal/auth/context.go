package auth

import (
	"context"
	"strings"

	"github.com/solemia/studio-api/internal/domain"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID      string
	DisplayName string
	Email       string
	Roles       []domain.UserRoleType
	TenantID    domain.TenantID
}

type contextKey string

const userContextKey contextKey = "userContext"
const tenantFilterKey contextKey = "tenantFilter"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// HasRole checks if user has a specific role
func (u *UserContext) HasRole(role domain.UserRoleType) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole checks if user has any of the specified roles
func (u *UserContext) HasAnyRole(roles ...domain.UserRoleType) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}

// IsOwner checks if user is an owner (has access to both studios)
func (u *UserContext) IsOwner() bool {
	return u.HasRole(domain.RoleOwner)
}

// IsManager checks if user manages their studio
func (u *UserContext) IsManager() bool {
	return u.HasAnyRole(domain.RoleOwner, domain.RoleManager)
}

// CanWrite reports whether the user may create or modify records
func (u *UserContext) CanWrite() bool {
	return u.HasAnyRole(domain.RoleOwner, domain.RoleManager, domain.RoleStaff, domain.RoleAPIService)
}

// CanAccessTenant checks if user can access data for a specific tenant
func (u *UserContext) CanAccessTenant(tenantID domain.TenantID) bool {
	// Owners can access every studio
	if u.IsOwner() || u.TenantID == domain.TenantAll {
		return true
	}
	return u.TenantID == tenantID
}

// GetTenantFilter returns the tenant ID to filter queries by
// Returns nil for owners (no filtering needed)
func (u *UserContext) GetTenantFilter() *domain.TenantID {
	if u.IsOwner() || u.TenantID == domain.TenantAll {
		return nil
	}
	return &u.TenantID
}

// GetDisplayNameInitials returns initials from the display name (e.g., "Ana Ruiz" -> "AR")
func (u *UserContext) GetDisplayNameInitials() string {
	if u.DisplayName == "" {
		return ""
	}
	parts := strings.Fields(u.DisplayName)
	initials := ""
	for _, part := range parts {
		if len(part) > 0 {
			initials += strings.ToUpper(string(part[0]))
		}
	}
	return initials
}

// RolesAsStrings returns roles as a slice of strings
func (u *UserContext) RolesAsStrings() []string {
	result := make([]string, len(u.Roles))
	for i, role := range u.Roles {
		result[i] = string(role)
	}
	return result
}

// TenantFilter represents the effective tenant filter for queries
// This is set by middleware based on user context and query parameters
type TenantFilter struct {
	// TenantID is the studio to filter by (nil means no filter / both studios)
	TenantID *domain.TenantID
	// RequestedByOwner indicates if an owner explicitly requested a specific studio
	RequestedByOwner bool
}

// WithTenantFilter adds tenant filter to the context
func WithTenantFilter(ctx context.Context, filter *TenantFilter) context.Context {
	return context.WithValue(ctx, tenantFilterKey, filter)
}

// TenantFilterFromContext extracts tenant filter from the context
func TenantFilterFromContext(ctx context.Context) (*TenantFilter, bool) {
	filter, ok := ctx.Value(tenantFilterKey).(*TenantFilter)
	return filter, ok
}

// GetEffectiveTenantFilter returns the tenant ID to filter queries by
// This should be used by repositories to apply multi-tenant filtering
// Returns nil if no filtering should be applied (user has access to both studios)
func GetEffectiveTenantFilter(ctx context.Context) *domain.TenantID {
	// First check if there's an explicit tenant filter set by middleware
	if filter, ok := TenantFilterFromContext(ctx); ok && filter != nil {
		return filter.TenantID
	}

	// Fall back to user's default tenant filter
	if userCtx, ok := FromContext(ctx); ok {
		return userCtx.GetTenantFilter()
	}

	return nil
}
