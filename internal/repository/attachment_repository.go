package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/solemia/studio-api/internal/domain"
	"gorm.io/gorm"
)

type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) Create(ctx context.Context, attachment *domain.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

func (r *AttachmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	var attachment domain.Attachment
	query := r.db.WithContext(ctx).Where("id = ?", id)
	query = ApplyTenantFilter(ctx, query)
	err := query.First(&attachment).Error
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *AttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Attachment{}, "id = ?", id).Error
}

func (r *AttachmentRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Attachment, error) {
	var attachments []domain.Attachment
	query := r.db.WithContext(ctx).Where("client_id = ?", clientID)
	query = ApplyTenantFilter(ctx, query)
	err := query.Order("created_at DESC").Find(&attachments).Error
	return attachments, err
}
