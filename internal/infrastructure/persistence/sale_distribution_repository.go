package persistence

import (
	"context"

	"github.com/consignly/backend/internal/domain/distribution"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSaleDistributionRepository implements distribution.SaleDistributionRepository using GORM
type GormSaleDistributionRepository struct {
	db *gorm.DB
}

// NewGormSaleDistributionRepository creates a new GormSaleDistributionRepository
func NewGormSaleDistributionRepository(db *gorm.DB) *GormSaleDistributionRepository {
	return &GormSaleDistributionRepository{db: db}
}

// FindBySale returns the recorded snapshot for a sale in share order
func (r *GormSaleDistributionRepository) FindBySale(ctx context.Context, tenantID, saleID uuid.UUID) ([]distribution.SaleDistribution, error) {
	var rows []distribution.SaleDistribution
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sale_id = ?", tenantID, saleID).
		Order("sort_order ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ReplaceForSale swaps the sale's snapshot for rows atomically
func (r *GormSaleDistributionRepository) ReplaceForSale(ctx context.Context, tenantID, saleID uuid.UUID, rows []distribution.SaleDistribution) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND sale_id = ?", tenantID, saleID).
			Delete(&distribution.SaleDistribution{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

var _ distribution.SaleDistributionRepository = (*GormSaleDistributionRepository)(nil)
