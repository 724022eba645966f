package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/consignly/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormConsignmentSaleRepository implements consignment.ConsignmentSaleRepository using GORM
type GormConsignmentSaleRepository struct {
	db *gorm.DB
}

// NewGormConsignmentSaleRepository creates a new GormConsignmentSaleRepository
func NewGormConsignmentSaleRepository(db *gorm.DB) *GormConsignmentSaleRepository {
	return &GormConsignmentSaleRepository{db: db}
}

// FindByIDForTenant finds a ledger row by ID within a tenant
func (r *GormConsignmentSaleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*consignment.ConsignmentSale, error) {
	var sale consignment.ConsignmentSale
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindPendingByConsignor returns the consignor's pending rows oldest first.
// id breaks ties between rows created in the same instant.
func (r *GormConsignmentSaleRepository) FindPendingByConsignor(ctx context.Context, tenantID, consignorID uuid.UUID) ([]*consignment.ConsignmentSale, error) {
	var sales []*consignment.ConsignmentSale
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND consignor_id = ? AND payout_status = ?", tenantID, consignorID, consignment.PayoutStatusPending).
		Order("created_at ASC, id ASC").
		Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// FindAllForTenant returns one page of ledger rows
func (r *GormConsignmentSaleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter consignment.ConsignmentSaleFilter) ([]consignment.ConsignmentSale, error) {
	query := r.applyFilter(r.db.WithContext(ctx), tenantID, filter).
		Order(orderClause(filter.OrderBy, filter.OrderDir, ConsignmentSaleSortFields, "created_at"))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var sales []consignment.ConsignmentSale
	if err := query.Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// Totals aggregates every row matching filter, ignoring its paging
func (r *GormConsignmentSaleRepository) Totals(ctx context.Context, tenantID uuid.UUID, filter consignment.ConsignmentSaleFilter) (consignment.SaleTotals, error) {
	var totals consignment.SaleTotals
	err := r.applyFilter(r.db.WithContext(ctx).Model(&consignment.ConsignmentSale{}), tenantID, filter).
		Select("COUNT(*) AS count, " +
			"COALESCE(SUM(sale_price), 0) AS total_amount, " +
			"COALESCE(SUM(consignor_payout), 0) AS total_payout, " +
			"COALESCE(SUM(store_commission), 0) AS total_commission").
		Scan(&totals).Error
	if err != nil {
		return consignment.SaleTotals{}, err
	}
	return totals, nil
}

func (r *GormConsignmentSaleRepository) applyFilter(query *gorm.DB, tenantID uuid.UUID, filter consignment.ConsignmentSaleFilter) *gorm.DB {
	query = query.Where("tenant_id = ?", tenantID)
	if filter.ConsignorID != nil {
		query = query.Where("consignor_id = ?", *filter.ConsignorID)
	}
	if filter.SaleID != nil {
		query = query.Where("sale_id = ?", *filter.SaleID)
	}
	if filter.Status != nil {
		query = query.Where("payout_status = ?", *filter.Status)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	return query
}

// ExistsForSaleItem reports whether the sale line was already recorded
func (r *GormConsignmentSaleRepository) ExistsForSaleItem(ctx context.Context, tenantID, saleID, variantID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&consignment.ConsignmentSale{}).
		Where("tenant_id = ? AND sale_id = ? AND variant_id = ?", tenantID, saleID, variantID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountUnpaidByConsignor counts rows that are not yet paid
func (r *GormConsignmentSaleRepository) CountUnpaidByConsignor(ctx context.Context, tenantID, consignorID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&consignment.ConsignmentSale{}).
		Where("tenant_id = ? AND consignor_id = ? AND payout_status <> ?", tenantID, consignorID, consignment.PayoutStatusPaid).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a ledger row. The unique (sale_id, variant_id) index turns a
// replayed checkout into ErrAlreadyRecorded.
func (r *GormConsignmentSaleRepository) Create(ctx context.Context, sale *consignment.ConsignmentSale) error {
	if err := r.db.WithContext(ctx).Create(sale).Error; err != nil {
		if isDuplicateKey(err) {
			return consignment.ErrAlreadyRecorded
		}
		return err
	}
	return nil
}

// MarkPaidIfPending writes the paid state only while the row is still pending
func (r *GormConsignmentSaleRepository) MarkPaidIfPending(ctx context.Context, sale *consignment.ConsignmentSale) (bool, error) {
	if sale.PayoutStatus != consignment.PayoutStatusPaid {
		return false, fmt.Errorf("consignment sale %s is not marked paid", sale.ID)
	}
	result := r.db.WithContext(ctx).
		Model(&consignment.ConsignmentSale{}).
		Where("tenant_id = ? AND id = ? AND payout_status = ?", sale.TenantID, sale.ID, consignment.PayoutStatusPending).
		Updates(map[string]any{
			"payout_status":         sale.PayoutStatus,
			"payout_transaction_id": sale.PayoutTransactionID,
			"paid_at":               sale.PaidAt,
			"payment_method":        sale.PaymentMethod,
			"payout_notes":          sale.PayoutNotes,
			"version":               gorm.Expr("version + 1"),
			"updated_at":            sale.UpdatedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

var _ consignment.ConsignmentSaleRepository = (*GormConsignmentSaleRepository)(nil)
