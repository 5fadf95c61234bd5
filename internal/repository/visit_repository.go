package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/solemia/studio-api/internal/domain"
	"gorm.io/gorm"
)

type VisitRepository struct {
	db *gorm.DB
}

func NewVisitRepository(db *gorm.DB) *VisitRepository {
	return &VisitRepository{db: db}
}

func (r *VisitRepository) Create(ctx context.Context, visit *domain.Visit) error {
	return r.db.WithContext(ctx).Create(visit).Error
}

// CreateBatch inserts imported visits in a single transaction. Used by the
// POS import job.
func (r *VisitRepository) CreateBatch(ctx context.Context, visits []domain.Visit) error {
	if len(visits) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(visits, 200).Error
}

func (r *VisitRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Visit, error) {
	var visit domain.Visit
	query := r.db.WithContext(ctx).Where("id = ?", id)
	query = ApplyTenantFilter(ctx, query)
	err := query.First(&visit).Error
	if err != nil {
		return nil, err
	}
	return &visit, nil
}

func (r *VisitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Visit{}, "id = ?", id).Error
}

// ListAll returns every visit visible to the caller, oldest first. The
// profile and statistics engines operate on the full history.
func (r *VisitRepository) ListAll(ctx context.Context) ([]domain.Visit, error) {
	var visits []domain.Visit
	query := r.db.WithContext(ctx).Model(&domain.Visit{})
	query = ApplyTenantFilter(ctx, query)
	err := query.Order("occurred_at ASC").Find(&visits).Error
	return visits, err
}

// ListBetween returns visits whose date falls inside [start, end], inclusive.
func (r *VisitRepository) ListBetween(ctx context.Context, start, end time.Time) ([]domain.Visit, error) {
	var visits []domain.Visit
	query := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", start, end)
	query = ApplyTenantFilter(ctx, query)
	err := query.Order("occurred_at ASC").Find(&visits).Error
	return visits, err
}

// ListByClientName returns a client's visits, newest first.
func (r *VisitRepository) ListByClientName(ctx context.Context, clientName string) ([]domain.Visit, error) {
	var visits []domain.Visit
	query := r.db.WithContext(ctx).Where("client_name = ?", clientName)
	query = ApplyTenantFilter(ctx, query)
	err := query.Order("occurred_at DESC").Find(&visits).Error
	return visits, err
}

// ExistingPOSRefs returns which of the given POS references are already
// imported. The import job uses this to skip duplicates.
func (r *VisitRepository) ExistingPOSRefs(ctx context.Context, refs []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(refs))
	if len(refs) == 0 {
		return existing, nil
	}

	var found []string
	err := r.db.WithContext(ctx).Model(&domain.Visit{}).
		Where("pos_ref IN ?", refs).
		Pluck("pos_ref", &found).Error
	if err != nil {
		return nil, err
	}

	for _, ref := range found {
		existing[ref] = true
	}
	return existing, nil
}

// LatestImportedAt returns the occurred_at of the newest imported visit for
// a tenant, or the zero time when nothing has been imported yet. The import
// job uses it as the lower bound of the next fetch.
func (r *VisitRepository) LatestImportedAt(ctx context.Context, tenantID domain.TenantID) (time.Time, error) {
	var latest *time.Time
	err := r.db.WithContext(ctx).Model(&domain.Visit{}).
		Where("tenant_id = ? AND pos_ref IS NOT NULL AND pos_ref <> ''", tenantID).
		Select("MAX(occurred_at)").
		Scan(&latest).Error
	if err != nil {
		return time.Time{}, err
	}
	if latest == nil {
		return time.Time{}, nil
	}
	return *latest, nil
}

func (r *VisitRepository) Count(ctx context.Context) (int, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Visit{})
	query = ApplyTenantFilter(ctx, query)
	err := query.Count(&count).Error
	return int(count), err
}
