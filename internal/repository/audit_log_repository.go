package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/solemia/studio-api/internal/domain"
	"gorm.io/gorm"
)

// AuditLogFilter narrows audit queries. Zero-valued fields are ignored.
type AuditLogFilter struct {
	UserID     string
	Action     *domain.AuditAction
	EntityType string
	EntityID   *uuid.UUID
	TenantID   *domain.TenantID
	StartTime  *time.Time
	EndTime    *time.Time
}

func (f *AuditLogFilter) apply(query *gorm.DB) *gorm.DB {
	if f == nil {
		return query
	}
	if f.UserID != "" {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.Action != nil {
		query = query.Where("action = ?", *f.Action)
	}
	if f.EntityType != "" {
		query = query.Where("entity_type = ?", f.EntityType)
	}
	if f.EntityID != nil {
		query = query.Where("entity_id = ?", *f.EntityID)
	}
	if f.TenantID != nil {
		query = query.Where("tenant_id = ?", *f.TenantID)
	}
	if f.StartTime != nil {
		query = query.Where("performed_at >= ?", *f.StartTime)
	}
	if f.EndTime != nil {
		query = query.Where("performed_at <= ?", *f.EndTime)
	}
	return query
}

// AuditLogRepository persists audit entries. The table is append-only;
// there is deliberately no Update method.
type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *AuditLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AuditLog, error) {
	var log domain.AuditLog
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&log).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

// List returns one page of entries, newest first, plus the unpaged total.
func (r *AuditLogRepository) List(ctx context.Context, filter *AuditLogFilter, page, pageSize int) ([]domain.AuditLog, int64, error) {
	query := filter.apply(r.db.WithContext(ctx).Model(&domain.AuditLog{}))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []domain.AuditLog
	err := query.
		Order("performed_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&logs).Error
	return logs, total, err
}

// ListByEntity returns the most recent entries touching one record.
func (r *AuditLogRepository) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID, limit int) ([]domain.AuditLog, error) {
	var logs []domain.AuditLog
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("performed_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// CountByAction tallies entries per action within [start, end].
func (r *AuditLogRepository) CountByAction(ctx context.Context, start, end time.Time) (map[domain.AuditAction]int64, error) {
	var rows []struct {
		Action domain.AuditAction
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&domain.AuditLog{}).
		Select("action, COUNT(*) as count").
		Where("performed_at >= ? AND performed_at <= ?", start, end).
		Group("action").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.AuditAction]int64, len(rows))
	for _, row := range rows {
		counts[row.Action] = row.Count
	}
	return counts, nil
}

// DeleteOlderThan purges entries past the retention cutoff. Called from the
// scheduled retention job only.
func (r *AuditLogRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("performed_at < ?", before).
		Delete(&domain.AuditLog{})
	return result.RowsAffected, result.Error
}
