package consignment

import (
	"context"
	"time"

	"github.com/consignly/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConsignorFilter defines filtering options for consignor queries
type ConsignorFilter struct {
	shared.Filter
	IncludeArchived bool
	OnlyArchived    bool
}

// ConsignorRepository defines the interface for consignor persistence
type ConsignorRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Consignor, error)
	// FindByIDForTenantForUpdate loads a consignor and holds a row lock on it
	// until the surrounding transaction ends. Sale recording and deletion both
	// take it, so they serialise per consignor.
	FindByIDForTenantForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Consignor, error)
	// FindByID loads a consignor regardless of tenant, used by the public portal
	FindByID(ctx context.Context, id uuid.UUID) (*Consignor, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ConsignorFilter) ([]Consignor, int64, error)
	Save(ctx context.Context, consignor *Consignor) error
	SaveWithLock(ctx context.Context, consignor *Consignor) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// VariantFilter defines filtering options for variant queries
type VariantFilter struct {
	shared.Filter
	ConsignorID *uuid.UUID
	OwnerType   *OwnerType
	IsSold      *bool
}

// VariantRepository defines the interface for variant persistence
type VariantRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Variant, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter VariantFilter) ([]Variant, int64, error)
	Save(ctx context.Context, variant *Variant) error
	SaveWithLock(ctx context.Context, variant *Variant) error
}

// ConsignmentSaleFilter defines filtering options for ledger queries
type ConsignmentSaleFilter struct {
	shared.Filter
	ConsignorID *uuid.UUID
	SaleID      *uuid.UUID
	Status      *PayoutStatus
	From        *time.Time
	To          *time.Time
}

// SaleTotals are aggregates over a filtered set of ledger rows
type SaleTotals struct {
	Count           int64
	TotalAmount     decimal.Decimal
	TotalPayout     decimal.Decimal
	TotalCommission decimal.Decimal
}

// ConsignmentSaleRepository defines the interface for ledger row persistence
type ConsignmentSaleRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ConsignmentSale, error)
	// FindPendingByConsignor returns pending rows ordered by created_at ascending
	FindPendingByConsignor(ctx context.Context, tenantID, consignorID uuid.UUID) ([]*ConsignmentSale, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ConsignmentSaleFilter) ([]ConsignmentSale, error)
	Totals(ctx context.Context, tenantID uuid.UUID, filter ConsignmentSaleFilter) (SaleTotals, error)
	ExistsForSaleItem(ctx context.Context, tenantID, saleID, variantID uuid.UUID) (bool, error)
	CountUnpaidByConsignor(ctx context.Context, tenantID, consignorID uuid.UUID) (int64, error)
	Create(ctx context.Context, sale *ConsignmentSale) error
	// MarkPaidIfPending flips one row to paid only while it is still pending.
	// Returns false when another payout got there first.
	MarkPaidIfPending(ctx context.Context, sale *ConsignmentSale) (bool, error)
}

// PayoutTransactionFilter defines filtering options for payout queries
type PayoutTransactionFilter struct {
	shared.Filter
	ConsignorID   *uuid.UUID
	PaymentMethod string
	From          *time.Time
	To            *time.Time
}

// PayoutTotals are aggregates over a filtered set of payouts
type PayoutTotals struct {
	Count                int64
	TotalAmount          decimal.Decimal
	TotalProcessedAmount decimal.Decimal
}

// PayoutTransactionRepository defines the interface for payout persistence
type PayoutTransactionRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PayoutTransaction, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter PayoutTransactionFilter) ([]PayoutTransaction, error)
	Totals(ctx context.Context, tenantID uuid.UUID, filter PayoutTransactionFilter) (PayoutTotals, error)
	CreateHeader(ctx context.Context, payout *PayoutTransaction) error
	CreateItems(ctx context.Context, items []PayoutTransactionItem) error
	UpdateProcessedAmount(ctx context.Context, payout *PayoutTransaction) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// PayoutNumberSequencer mints human readable payout reference numbers
type PayoutNumberSequencer interface {
	Next(ctx context.Context, tenantID uuid.UUID, date time.Time) (string, error)
}

// CustomPaymentMethodRepository defines persistence for remembered payment methods
type CustomPaymentMethodRepository interface {
	ExistsByName(ctx context.Context, tenantID, userID uuid.UUID, name string) (bool, error)
	Create(ctx context.Context, method *CustomPaymentMethod) error
	FindByUser(ctx context.Context, tenantID, userID uuid.UUID) ([]CustomPaymentMethod, error)
}
