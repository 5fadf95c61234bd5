package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/solemia/studio-api/internal/domain"
	"gorm.io/gorm"
)

type SegmentRepository struct {
	db *gorm.DB
}

func NewSegmentRepository(db *gorm.DB) *SegmentRepository {
	return &SegmentRepository{db: db}
}

func (r *SegmentRepository) Create(ctx context.Context, segment *domain.Segment) error {
	return r.db.WithContext(ctx).Create(segment).Error
}

func (r *SegmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Segment, error) {
	var segment domain.Segment
	query := r.db.WithContext(ctx).Where("id = ?", id)
	query = ApplyTenantFilter(ctx, query)
	err := query.First(&segment).Error
	if err != nil {
		return nil, err
	}
	return &segment, nil
}

func (r *SegmentRepository) GetByName(ctx context.Context, tenantID domain.TenantID, name string) (*domain.Segment, error) {
	var segment domain.Segment
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND name = ?", tenantID, name).
		First(&segment).Error
	if err != nil {
		return nil, err
	}
	return &segment, nil
}

func (r *SegmentRepository) Update(ctx context.Context, segment *domain.Segment) error {
	return r.db.WithContext(ctx).Save(segment).Error
}

func (r *SegmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Segment{}, "id = ?", id).Error
}

// ListAll returns segments in creation order. Segment evaluation reports
// matches in this order, so it must be stable.
func (r *SegmentRepository) ListAll(ctx context.Context) ([]domain.Segment, error) {
	var segments []domain.Segment
	query := r.db.WithContext(ctx).Model(&domain.Segment{})
	query = ApplyTenantFilter(ctx, query)
	err := query.Order("created_at ASC").Find(&segments).Error
	return segments, err
}
