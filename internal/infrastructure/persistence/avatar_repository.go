package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/consignly/backend/internal/domain/distribution"
	"github.com/consignly/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAvatarRepository implements distribution.AvatarRepository using GORM
type GormAvatarRepository struct {
	db *gorm.DB
}

// NewGormAvatarRepository creates a new GormAvatarRepository
func NewGormAvatarRepository(db *gorm.DB) *GormAvatarRepository {
	return &GormAvatarRepository{db: db}
}

// FindByIDForTenant finds an avatar by ID within a tenant
func (r *GormAvatarRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*distribution.Avatar, error) {
	var a distribution.Avatar
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByIDs finds the tenant's avatars among ids; unknown ids are simply absent
func (r *GormAvatarRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]distribution.Avatar, error) {
	if len(ids) == 0 {
		return []distribution.Avatar{}, nil
	}
	var avatars []distribution.Avatar
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&avatars).Error; err != nil {
		return nil, err
	}
	return avatars, nil
}

// FindMain returns the tenant's main avatar, or nil when none exists yet
func (r *GormAvatarRepository) FindMain(ctx context.Context, tenantID uuid.UUID) (*distribution.Avatar, error) {
	var avatars []distribution.Avatar
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_main = ?", tenantID, true).
		Order("created_at ASC").
		Limit(1).
		Find(&avatars).Error; err != nil {
		return nil, err
	}
	if len(avatars) == 0 {
		return nil, nil
	}
	return &avatars[0], nil
}

// FindAllForTenant lists avatars with the main avatar first
func (r *GormAvatarRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]distribution.Avatar, error) {
	var avatars []distribution.Avatar
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("is_main DESC, name ASC").
		Find(&avatars).Error; err != nil {
		return nil, err
	}
	return avatars, nil
}

// ExistsByName checks for a case-insensitive name clash, optionally ignoring excludeID
func (r *GormAvatarRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&distribution.Avatar{}).
		Where("tenant_id = ? AND LOWER(name) = ?", tenantID, strings.ToLower(strings.TrimSpace(name)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an avatar
func (r *GormAvatarRepository) Save(ctx context.Context, a *distribution.Avatar) error {
	if err := r.db.WithContext(ctx).Save(a).Error; err != nil {
		if isDuplicateKey(err) {
			return distribution.ErrAvatarNameTaken
		}
		return err
	}
	return nil
}

// Delete removes an avatar within a tenant
func (r *GormAvatarRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&distribution.Avatar{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ distribution.AvatarRepository = (*GormAvatarRepository)(nil)
