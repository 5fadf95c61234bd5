package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/solemia/studio-api/internal/auth"
	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/mapper"
	"github.com/solemia/studio-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserService resolves the authenticated user and records logins
type UserService struct {
	userRepo   *repository.UserRepository
	tenantRepo *repository.TenantRepository
	logger     *zap.Logger
}

func NewUserService(
	userRepo *repository.UserRepository,
	tenantRepo *repository.TenantRepository,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		logger:     logger,
	}
}

// CurrentUser builds the /auth/me payload for the authenticated caller and
// records the login.
func (s *UserService) CurrentUser(ctx context.Context) (*domain.AuthUserDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:          userCtx.UserID,
		Email:       userCtx.Email,
		DisplayName: userCtx.DisplayName,
		Roles:       pq.StringArray(userCtx.RolesAsStrings()),
		IsActive:    true,
		LastLoginAt: &now,
	}
	if userCtx.TenantID != domain.TenantAll {
		tenantID := userCtx.TenantID
		user.TenantID = &tenantID
	}

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		// A failed login record should not block the session
		s.logger.Warn("failed to record login", zap.Error(err), zap.String("user_id", userCtx.UserID))
	}

	var tenant *domain.Tenant
	if userCtx.TenantID != "" && userCtx.TenantID != domain.TenantAll {
		t, err := s.tenantRepo.GetByID(ctx, userCtx.TenantID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load tenant: %w", err)
		}
		tenant = t
	}

	dto := mapper.ToAuthUserDTO(userCtx, tenant)
	return &dto, nil
}

// ListUsers returns the active users visible to the caller. Staff see only
// their own studio's users; owners see everyone.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.UserDTO, error) {
	if _, ok := auth.FromContext(ctx); !ok {
		return nil, ErrUnauthorized
	}

	users, err := s.userRepo.List(ctx, auth.GetEffectiveTenantFilter(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	dtos := make([]domain.UserDTO, len(users))
	for i, user := range users {
		dtos[i] = domain.UserDTO{
			ID:    user.ID,
			Name:  user.DisplayName,
			Email: user.Email,
			Roles: []string(user.Roles),
		}
	}
	return dtos, nil
}
