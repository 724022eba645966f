package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/consignly/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormVariantRepository implements consignment.VariantRepository using GORM
type GormVariantRepository struct {
	db *gorm.DB
}

// NewGormVariantRepository creates a new GormVariantRepository
func NewGormVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// FindByIDForTenant finds a variant by ID within a tenant
func (r *GormVariantRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*consignment.Variant, error) {
	var v consignment.Variant
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// FindAllForTenant returns one page of variants and the total matching count
func (r *GormVariantRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter consignment.VariantFilter) ([]consignment.Variant, int64, error) {
	f := filter.Normalize()

	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&consignment.Variant{}), tenantID, filter).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var variants []consignment.Variant
	if err := r.applyFilter(r.db.WithContext(ctx), tenantID, filter).
		Order(orderClause(f.OrderBy, f.OrderDir, VariantSortFields, "created_at")).
		Offset(f.Offset()).Limit(f.PageSize).
		Find(&variants).Error; err != nil {
		return nil, 0, err
	}
	return variants, total, nil
}

func (r *GormVariantRepository) applyFilter(query *gorm.DB, tenantID uuid.UUID, filter consignment.VariantFilter) *gorm.DB {
	query = query.Where("tenant_id = ?", tenantID)
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		query = query.Where("(LOWER(sku) LIKE ? OR LOWER(name) LIKE ?)", pattern, pattern)
	}
	if filter.ConsignorID != nil {
		query = query.Where("consignor_id = ?", *filter.ConsignorID)
	}
	if filter.OwnerType != nil {
		query = query.Where("owner_type = ?", *filter.OwnerType)
	}
	if filter.IsSold != nil {
		query = query.Where("is_sold = ?", *filter.IsSold)
	}
	return query
}

// Save creates or updates a variant
func (r *GormVariantRepository) Save(ctx context.Context, v *consignment.Variant) error {
	return r.db.WithContext(ctx).Save(v).Error
}

// SaveWithLock updates ownership and sold state under optimistic locking.
// A unit sold by a concurrent checkout fails here instead of being sold twice.
func (r *GormVariantRepository) SaveWithLock(ctx context.Context, v *consignment.Variant) error {
	result := r.db.WithContext(ctx).
		Model(&consignment.Variant{}).
		Where("tenant_id = ? AND id = ? AND version = ?", v.TenantID, v.ID, v.Version-1).
		Updates(map[string]any{
			"owner_type":   v.OwnerType,
			"consignor_id": v.ConsignorID,
			"cost_price":   v.CostPrice,
			"list_price":   v.ListPrice,
			"is_sold":      v.IsSold,
			"sold_at":      v.SoldAt,
			"version":      v.Version,
			"updated_at":   v.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.ErrConcurrencyConflict.Code, "Variant was modified by another transaction")
	}
	return nil
}

var _ consignment.VariantRepository = (*GormVariantRepository)(nil)
