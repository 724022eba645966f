package persistence

import (
	"context"

	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/consignly/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomPaymentMethodRepository implements consignment.CustomPaymentMethodRepository using GORM
type GormCustomPaymentMethodRepository struct {
	db *gorm.DB
}

// NewGormCustomPaymentMethodRepository creates a new GormCustomPaymentMethodRepository
func NewGormCustomPaymentMethodRepository(db *gorm.DB) *GormCustomPaymentMethodRepository {
	return &GormCustomPaymentMethodRepository{db: db}
}

// ExistsByName checks whether the user already remembered name
func (r *GormCustomPaymentMethodRepository) ExistsByName(ctx context.Context, tenantID, userID uuid.UUID, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&consignment.CustomPaymentMethod{}).
		Where("tenant_id = ? AND user_id = ? AND name = ?", tenantID, userID, name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create stores a remembered method. A concurrent duplicate surfaces as ErrAlreadyExists.
func (r *GormCustomPaymentMethodRepository) Create(ctx context.Context, method *consignment.CustomPaymentMethod) error {
	if err := r.db.WithContext(ctx).Create(method).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByUser lists the user's remembered methods, oldest first
func (r *GormCustomPaymentMethodRepository) FindByUser(ctx context.Context, tenantID, userID uuid.UUID) ([]consignment.CustomPaymentMethod, error) {
	var methods []consignment.CustomPaymentMethod
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Order("created_at ASC").
		Find(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}

var _ consignment.CustomPaymentMethodRepository = (*GormCustomPaymentMethodRepository)(nil)
