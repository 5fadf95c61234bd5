package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/mapper"
	"github.com/solemia/studio-api/internal/repository"
	"gorm.io/gorm"
)

// TenantService exposes the configured studios
type TenantService struct {
	tenantRepo *repository.TenantRepository
}

func NewTenantService(tenantRepo *repository.TenantRepository) *TenantService {
	return &TenantService{tenantRepo: tenantRepo}
}

func (s *TenantService) List(ctx context.Context) ([]domain.TenantDTO, error) {
	tenants, err := s.tenantRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}

	dtos := make([]domain.TenantDTO, len(tenants))
	for i := range tenants {
		dtos[i] = mapper.ToTenantDTO(&tenants[i])
	}
	return dtos, nil
}

func (s *TenantService) GetByID(ctx context.Context, id domain.TenantID) (*domain.TenantDTO, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	dto := mapper.ToTenantDTO(tenant)
	return &dto, nil
}
