package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/mapper"
	"github.com/solemia/studio-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// VisitService manages visit records: manual entry from the dashboard and
// read access for the visit log.
type VisitService struct {
	visitRepo *repository.VisitRepository
	logger    *zap.Logger
}

func NewVisitService(visitRepo *repository.VisitRepository, logger *zap.Logger) *VisitService {
	return &VisitService{
		visitRepo: visitRepo,
		logger:    logger,
	}
}

func (s *VisitService) Create(ctx context.Context, tenantID domain.TenantID, req *domain.CreateVisitRequest) (*domain.VisitDTO, error) {
	tenant, err := resolveTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if !req.Category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, req.Category)
	}

	visit := &domain.Visit{
		ClientName:  req.ClientName,
		Date:        req.Date.UTC().Truncate(24 * time.Hour),
		OccurredAt:  req.Date.UTC(),
		ServiceName: req.ServiceName,
		Category:    req.Category,
		Amount:      req.Amount,
		StaffName:   req.StaffName,
		NPS:         req.NPS,
		Insight:     req.Insight,
		IsNewClient: req.IsNewClient,
		Commission:  req.Commission,
		TenantID:    tenant,
	}

	if err := s.visitRepo.Create(ctx, visit); err != nil {
		return nil, fmt.Errorf("failed to create visit: %w", err)
	}

	s.logger.Info("visit recorded",
		zap.String("visit_id", visit.ID.String()),
		zap.String("client_name", visit.ClientName),
		zap.String("tenant_id", string(tenant)),
	)

	dto := mapper.ToVisitDTO(visit)
	return &dto, nil
}

func (s *VisitService) GetByID(ctx context.Context, id uuid.UUID) (*domain.VisitDTO, error) {
	visit, err := s.visitRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitNotFound
		}
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}

	dto := mapper.ToVisitDTO(visit)
	return &dto, nil
}

func (s *VisitService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.visitRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVisitNotFound
		}
		return fmt.Errorf("failed to get visit: %w", err)
	}

	if err := s.visitRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete visit: %w", err)
	}
	return nil
}

// List returns visits, optionally restricted to a date range or a client.
func (s *VisitService) List(ctx context.Context, clientName string, start, end *time.Time) ([]domain.VisitDTO, error) {
	var visits []domain.Visit
	var err error

	switch {
	case clientName != "":
		visits, err = s.visitRepo.ListByClientName(ctx, clientName)
	case start != nil && end != nil:
		visits, err = s.visitRepo.ListBetween(ctx, *start, *end)
	default:
		visits, err = s.visitRepo.ListAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}

	dtos := make([]domain.VisitDTO, len(visits))
	for i := range visits {
		dtos[i] = mapper.ToVisitDTO(&visits[i])
	}
	return dtos, nil
}
