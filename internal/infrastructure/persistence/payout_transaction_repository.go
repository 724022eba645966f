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

// GormPayoutTransactionRepository implements consignment.PayoutTransactionRepository using GORM
type GormPayoutTransactionRepository struct {
	db *gorm.DB
}

// NewGormPayoutTransactionRepository creates a new GormPayoutTransactionRepository
func NewGormPayoutTransactionRepository(db *gorm.DB) *GormPayoutTransactionRepository {
	return &GormPayoutTransactionRepository{db: db}
}

// FindByIDForTenant loads a payout header with its items
func (r *GormPayoutTransactionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*consignment.PayoutTransaction, error) {
	var payout consignment.PayoutTransaction
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&payout).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payout, nil
}

// FindAllForTenant returns one page of payouts with their items
func (r *GormPayoutTransactionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter consignment.PayoutTransactionFilter) ([]consignment.PayoutTransaction, error) {
	query := r.applyFilter(r.db.WithContext(ctx), tenantID, filter).
		Preload("Items").
		Order(orderClause(filter.OrderBy, filter.OrderDir, PayoutSortFields, "created_at"))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var payouts []consignment.PayoutTransaction
	if err := query.Find(&payouts).Error; err != nil {
		return nil, err
	}
	return payouts, nil
}

// Totals aggregates every payout matching filter, ignoring its paging
func (r *GormPayoutTransactionRepository) Totals(ctx context.Context, tenantID uuid.UUID, filter consignment.PayoutTransactionFilter) (consignment.PayoutTotals, error) {
	var totals consignment.PayoutTotals
	err := r.applyFilter(r.db.WithContext(ctx).Model(&consignment.PayoutTransaction{}), tenantID, filter).
		Select("COUNT(*) AS count, " +
			"COALESCE(SUM(total_amount), 0) AS total_amount, " +
			"COALESCE(SUM(processed_amount), 0) AS total_processed_amount").
		Scan(&totals).Error
	if err != nil {
		return consignment.PayoutTotals{}, err
	}
	return totals, nil
}

func (r *GormPayoutTransactionRepository) applyFilter(query *gorm.DB, tenantID uuid.UUID, filter consignment.PayoutTransactionFilter) *gorm.DB {
	query = query.Where("tenant_id = ?", tenantID)
	if filter.ConsignorID != nil {
		query = query.Where("consignor_id = ?", *filter.ConsignorID)
	}
	if filter.PaymentMethod != "" {
		query = query.Where("payment_method = ?", filter.PaymentMethod)
	}
	if filter.From != nil {
		query = query.Where("payout_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("payout_date <= ?", *filter.To)
	}
	return query
}

// CreateHeader inserts the payout header without its items
func (r *GormPayoutTransactionRepository) CreateHeader(ctx context.Context, payout *consignment.PayoutTransaction) error {
	if err := r.db.WithContext(ctx).Omit("Items").Create(payout).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.NewDomainError(shared.ErrAlreadyExists.Code,
				fmt.Sprintf("Payout number %s was issued concurrently, retry the payout", payout.PayoutNumber))
		}
		return err
	}
	return nil
}

// CreateItems inserts payout line items in one statement
func (r *GormPayoutTransactionRepository) CreateItems(ctx context.Context, items []consignment.PayoutTransactionItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// UpdateProcessedAmount stores the amount actually allocated
func (r *GormPayoutTransactionRepository) UpdateProcessedAmount(ctx context.Context, payout *consignment.PayoutTransaction) error {
	result := r.db.WithContext(ctx).
		Model(&consignment.PayoutTransaction{}).
		Where("tenant_id = ? AND id = ?", payout.TenantID, payout.ID).
		Updates(map[string]any{
			"processed_amount": payout.ProcessedAmount,
			"updated_at":       gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a payout header and any items. Used only to compensate a
// best-effort payout that settled nothing.
func (r *GormPayoutTransactionRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("payout_transaction_id = ?", id).
			Delete(&consignment.PayoutTransactionItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&consignment.PayoutTransaction{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

var _ consignment.PayoutTransactionRepository = (*GormPayoutTransactionRepository)(nil)
