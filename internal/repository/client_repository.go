package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/solemia/studio-api/internal/domain"
	"gorm.io/gorm"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	var client domain.Client
	query := r.db.WithContext(ctx).Preload("Attachments").Where("id = ?", id)
	query = ApplyTenantFilter(ctx, query)
	err := query.First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// GetByPhone finds a client stub by phone within a tenant. Used for the
// duplicate check on creation.
func (r *ClientRepository) GetByPhone(ctx context.Context, tenantID domain.TenantID, phone string) (*domain.Client, error) {
	var client domain.Client
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND phone = ?", tenantID, phone).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) Update(ctx context.Context, client *domain.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *ClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Client{}, "id = ?", id).Error
}

// ListAll returns every client stub visible to the caller. The directory is
// small enough that profile building always works on the full set.
func (r *ClientRepository) ListAll(ctx context.Context) ([]domain.Client, error) {
	var clients []domain.Client
	query := r.db.WithContext(ctx).Model(&domain.Client{})
	query = ApplyTenantFilter(ctx, query)
	err := query.Order("created_at ASC").Find(&clients).Error
	return clients, err
}

func (r *ClientRepository) Count(ctx context.Context) (int, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Client{})
	query = ApplyTenantFilter(ctx, query)
	err := query.Count(&count).Error
	return int(count), err
}

func (r *ClientRepository) Search(ctx context.Context, searchQuery string, limit int) ([]domain.Client, error) {
	var clients []domain.Client
	searchPattern := "%" + strings.ToLower(searchQuery) + "%"
	query := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR phone LIKE ?", searchPattern, searchPattern)
	query = ApplyTenantFilter(ctx, query)
	err := query.Limit(limit).Find(&clients).Error
	return clients, err
}
