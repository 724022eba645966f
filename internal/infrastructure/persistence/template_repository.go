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

// GormTemplateRepository implements distribution.TemplateRepository using GORM
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewGormTemplateRepository creates a new GormTemplateRepository
func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

func preloadTemplateItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).Preload("Items.Avatar")
}

// FindByIDForTenant loads a template with its items and their avatars
func (r *GormTemplateRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*distribution.ProfitDistributionTemplate, error) {
	var t distribution.ProfitDistributionTemplate
	if err := preloadTemplateItems(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindAllForTenant returns one page of templates and the total count
func (r *GormTemplateRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter distribution.TemplateFilter) ([]distribution.ProfitDistributionTemplate, int64, error) {
	f := filter.Normalize()
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("tenant_id = ?", tenantID)
		if s := strings.TrimSpace(f.Search); s != "" {
			db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&distribution.ProfitDistributionTemplate{}).
		Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var templates []distribution.ProfitDistributionTemplate
	if err := preloadTemplateItems(r.db.WithContext(ctx)).
		Scopes(scope).
		Order(orderClause(f.OrderBy, f.OrderDir, TemplateSortFields, "created_at")).
		Offset(f.Offset()).Limit(f.PageSize).
		Find(&templates).Error; err != nil {
		return nil, 0, err
	}
	return templates, total, nil
}

// ExistsByName checks for a case-insensitive name clash, optionally ignoring excludeID
func (r *GormTemplateRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&distribution.ProfitDistributionTemplate{}).
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

// Save upserts the header and replaces its items in one transaction
func (r *GormTemplateRepository) Save(ctx context.Context, t *distribution.ProfitDistributionTemplate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(t).Error; err != nil {
			if isDuplicateKey(err) {
				return distribution.ErrTemplateNameTaken
			}
			return err
		}
		if err := tx.Where("template_id = ?", t.ID).Delete(&distribution.TemplateItem{}).Error; err != nil {
			return err
		}
		if len(t.Items) == 0 {
			return nil
		}
		items := make([]distribution.TemplateItem, len(t.Items))
		for i, item := range t.Items {
			item.TemplateID = t.ID
			item.Avatar = nil
			items[i] = item
		}
		return tx.Create(&items).Error
	})
}

// Delete removes a template and its items. Recorded sale distributions keep
// their snapshot and are not touched.
func (r *GormTemplateRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&distribution.ProfitDistributionTemplate{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("template_id = ?", id).Delete(&distribution.TemplateItem{}).Error
	})
}

var _ distribution.TemplateRepository = (*GormTemplateRepository)(nil)
