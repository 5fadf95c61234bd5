package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/solemia/studio-api/internal/analytics"
	"github.com/solemia/studio-api/internal/domain"
	"github.com/solemia/studio-api/internal/mapper"
	"github.com/solemia/studio-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SegmentService manages custom client segments. Rules are validated at
// creation time so that a malformed rule can never reach the matching engine.
type SegmentService struct {
	segmentRepo *repository.SegmentRepository
	logger      *zap.Logger
}

func NewSegmentService(segmentRepo *repository.SegmentRepository, logger *zap.Logger) *SegmentService {
	return &SegmentService{
		segmentRepo: segmentRepo,
		logger:      logger,
	}
}

func rulesFromRequest(reqs []domain.SegmentRuleRequest) domain.SegmentRules {
	rules := make(domain.SegmentRules, len(reqs))
	for i, r := range reqs {
		rules[i] = domain.SegmentRule{
			Metric:   r.Metric,
			Operator: r.Operator,
			Value:    r.Value,
			Value2:   r.Value2,
			Active:   r.Active,
		}
	}
	return rules
}

func (s *SegmentService) Create(ctx context.Context, tenantID domain.TenantID, req *domain.CreateSegmentRequest) (*domain.SegmentDTO, error) {
	tenant, err := resolveTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	rules := rulesFromRequest(req.Rules)
	if err := analytics.ValidateSegment(req.Name, rules); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, err := s.segmentRepo.GetByName(ctx, tenant, req.Name); err == nil {
		return nil, ErrDuplicateSegmentName
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check segment name: %w", err)
	}

	segment := &domain.Segment{
		Name:     req.Name,
		Rules:    rules,
		TenantID: tenant,
	}
	if req.Color != "" {
		segment.Color = req.Color
	}

	if err := s.segmentRepo.Create(ctx, segment); err != nil {
		return nil, fmt.Errorf("failed to create segment: %w", err)
	}

	s.logger.Info("segment created",
		zap.String("segment_id", segment.ID.String()),
		zap.String("name", segment.Name),
		zap.String("tenant_id", string(tenant)),
	)

	dto := mapper.ToSegmentDTO(segment)
	return &dto, nil
}

func (s *SegmentService) GetByID(ctx context.Context, id uuid.UUID) (*domain.SegmentDTO, error) {
	segment, err := s.segmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSegmentNotFound
		}
		return nil, fmt.Errorf("failed to get segment: %w", err)
	}

	dto := mapper.ToSegmentDTO(segment)
	return &dto, nil
}

func (s *SegmentService) Update(ctx context.Context, id uuid.UUID, req *domain.CreateSegmentRequest) (*domain.SegmentDTO, error) {
	segment, err := s.segmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSegmentNotFound
		}
		return nil, fmt.Errorf("failed to get segment: %w", err)
	}

	rules := rulesFromRequest(req.Rules)
	if err := analytics.ValidateSegment(req.Name, rules); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.Name != segment.Name {
		if _, err := s.segmentRepo.GetByName(ctx, segment.TenantID, req.Name); err == nil {
			return nil, ErrDuplicateSegmentName
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check segment name: %w", err)
		}
	}

	segment.Name = req.Name
	segment.Rules = rules
	if req.Color != "" {
		segment.Color = req.Color
	}

	if err := s.segmentRepo.Update(ctx, segment); err != nil {
		return nil, fmt.Errorf("failed to update segment: %w", err)
	}

	dto := mapper.ToSegmentDTO(segment)
	return &dto, nil
}

func (s *SegmentService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.segmentRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSegmentNotFound
		}
		return fmt.Errorf("failed to get segment: %w", err)
	}

	if err := s.segmentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete segment: %w", err)
	}
	return nil
}

func (s *SegmentService) List(ctx context.Context) ([]domain.SegmentDTO, error) {
	segments, err := s.segmentRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}

	dtos := make([]domain.SegmentDTO, len(segments))
	for i := range segments {
		dtos[i] = mapper.ToSegmentDTO(&segments[i])
	}
	return dtos, nil
}
