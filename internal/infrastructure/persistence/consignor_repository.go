package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/consignly/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormConsignorRepository implements consignment.ConsignorRepository using GORM
type GormConsignorRepository struct {
	db *gorm.DB
}

// NewGormConsignorRepository creates a new GormConsignorRepository
func NewGormConsignorRepository(db *gorm.DB) *GormConsignorRepository {
	return &GormConsignorRepository{db: db}
}

// FindByIDForTenant finds a consignor by ID within a tenant
func (r *GormConsignorRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*consignment.Consignor, error) {
	var c consignment.Consignor
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByIDForTenantForUpdate finds a consignor and locks its row with
// SELECT ... FOR UPDATE. Only meaningful inside a transaction.
func (r *GormConsignorRepository) FindByIDForTenantForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*consignment.Consignor, error) {
	var c consignment.Consignor
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByID finds a consignor by ID across tenants
func (r *GormConsignorRepository) FindByID(ctx context.Context, id uuid.UUID) (*consignment.Consignor, error) {
	var c consignment.Consignor
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAllForTenant returns one page of consignors and the total matching count
func (r *GormConsignorRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter consignment.ConsignorFilter) ([]consignment.Consignor, int64, error) {
	f := filter.Normalize()

	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&consignment.Consignor{}), tenantID, filter).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var consignors []consignment.Consignor
	if err := r.applyFilter(r.db.WithContext(ctx), tenantID, filter).
		Order(orderClause(f.OrderBy, f.OrderDir, ConsignorSortFields, "created_at")).
		Offset(f.Offset()).Limit(f.PageSize).
		Find(&consignors).Error; err != nil {
		return nil, 0, err
	}
	return consignors, total, nil
}

func (r *GormConsignorRepository) applyFilter(query *gorm.DB, tenantID uuid.UUID, filter consignment.ConsignorFilter) *gorm.DB {
	query = query.Where("tenant_id = ?", tenantID)
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?)", pattern, pattern, pattern)
	}
	switch {
	case filter.OnlyArchived:
		query = query.Where("is_archived = ?", true)
	case !filter.IncludeArchived:
		query = query.Where("is_archived = ?", false)
	}
	return query
}

// Save creates or updates a consignor
func (r *GormConsignorRepository) Save(ctx context.Context, c *consignment.Consignor) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// SaveWithLock updates a consignor only if the stored version is the one it was loaded at
func (r *GormConsignorRepository) SaveWithLock(ctx context.Context, c *consignment.Consignor) error {
	result := r.db.WithContext(ctx).
		Model(&consignment.Consignor{}).
		Where("tenant_id = ? AND id = ? AND version = ?", c.TenantID, c.ID, c.Version-1).
		Updates(map[string]any{
			"name":                 c.Name,
			"email":                c.Email,
			"phone":                c.Phone,
			"notes":                c.Notes,
			"commission_rate":      c.CommissionRate,
			"payout_method":        c.PayoutMethod,
			"fixed_markup":         c.FixedMarkup,
			"markup_percentage":    c.MarkupPercentage,
			"is_archived":          c.IsArchived,
			"archived_at":          c.ArchivedAt,
			"portal_password_hash": c.PortalPasswordHash,
			"version":              c.Version,
			"updated_at":           c.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.ErrConcurrencyConflict.Code, "Consignor was modified by another transaction")
	}
	return nil
}

// Delete hard-deletes a consignor within a tenant
func (r *GormConsignorRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&consignment.Consignor{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ consignment.ConsignorRepository = (*GormConsignorRepository)(nil)
