package repository

import (
	"context"
	"errors"

	"github.com/solemia/studio-api/internal/domain"
	"gorm.io/gorm"
)

// UserRepository stores the users known to the API. Accounts originate in
// the identity provider; this table mirrors them for role and tenant
// assignments and login bookkeeping.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// List returns active users ordered by name, optionally scoped to one studio.
func (r *UserRepository) List(ctx context.Context, tenantID *domain.TenantID) ([]domain.User, error) {
	query := r.db.WithContext(ctx).Where("is_active = ?", true)
	if tenantID != nil {
		query = query.Where("tenant_id = ?", *tenantID)
	}

	var users []domain.User
	err := query.Order("name ASC").Find(&users).Error
	return users, err
}

// Upsert records a login. New users are created as-is; for existing users
// only the display name and login timestamp are refreshed, so that roles and
// tenant assignments managed in the database survive.
func (r *UserRepository) Upsert(ctx context.Context, user *domain.User) error {
	var existing domain.User
	err := r.db.WithContext(ctx).Where("email = ?", user.Email).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(user).Error
	}
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"name":          user.DisplayName,
			"last_login_at": user.LastLoginAt,
		}).Error
}
