package consignment

import (
	"fmt"
	"time"

	"github.com/consignly/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayoutStatus is the settlement state of a ledger row.
// pending -> paid is the only transition.
type PayoutStatus string

const (
	PayoutStatusPending PayoutStatus = "pending"
	PayoutStatusPaid    PayoutStatus = "paid"
)

// IsValid checks if the payout status is valid
func (s PayoutStatus) IsValid() bool {
	return s == PayoutStatusPending || s == PayoutStatusPaid
}

// String returns the string representation of PayoutStatus
func (s PayoutStatus) String() string {
	return string(s)
}

// ConsignmentSale is the ledger row for one sold consignor-owned item
type ConsignmentSale struct {
	shared.TenantAggregateRoot
	SaleID              uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_consignment_sale_item,priority:1"`
	VariantID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_consignment_sale_item,priority:2"`
	ConsignorID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	SalePrice           decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CostPrice           decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CommissionRate      decimal.Decimal `gorm:"type:decimal(7,2);not null"`
	StoreCommission     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ConsignorPayout     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PayoutMethod        PayoutMethod    `gorm:"type:varchar(30);not null"`
	CommissionBasis     CommissionBasis `gorm:"type:varchar(10);not null;default:'total'"`
	PayoutStatus        PayoutStatus    `gorm:"type:varchar(20);not null;default:'pending';index"`
	PayoutTransactionID *uuid.UUID      `gorm:"type:uuid;index"`
	PaidAt              *time.Time
	PaymentMethod       string `gorm:"type:varchar(100)"`
	PayoutNotes         string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ConsignmentSale) TableName() string {
	return "consignment_sales"
}

// NewConsignmentSale records the split of one sold item as a pending ledger row
func NewConsignmentSale(
	tenantID uuid.UUID,
	saleID uuid.UUID,
	variant *Variant,
	consignor *Consignor,
	salePrice decimal.Decimal,
	basis CommissionBasis,
	split SplitResult,
) (*ConsignmentSale, error) {
	if saleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SALE", "Sale ID is required")
	}
	if !salePrice.IsPositive() {
		return nil, shared.NewDomainError(CodeInvalidAmount, "Sale price must be greater than zero")
	}
	if !variant.IsConsignedBy(consignor.ID) {
		return nil, ErrVariantNotConsigned
	}
	if !split.StoreGets.Add(split.ConsignorGets).Equal(salePrice) {
		return nil, shared.NewDomainError("INVALID_SPLIT",
			fmt.Sprintf("Store commission %s and consignor payout %s do not add up to sale price %s",
				split.StoreGets.StringFixed(2), split.ConsignorGets.StringFixed(2), salePrice.StringFixed(2)))
	}

	s := &ConsignmentSale{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SaleID:              saleID,
		VariantID:           variant.ID,
		ConsignorID:         consignor.ID,
		SalePrice:           salePrice,
		CostPrice:           variant.CostPrice,
		CommissionRate:      split.EffectiveRate,
		StoreCommission:     split.StoreGets,
		ConsignorPayout:     split.ConsignorGets,
		PayoutMethod:        consignor.PayoutMethod.OrDefault(),
		CommissionBasis:     basis.OrDefault(),
		PayoutStatus:        PayoutStatusPending,
	}
	s.AddDomainEvent(NewConsignmentSaleRecordedEvent(s))
	return s, nil
}

// IsPending reports whether the consignor is still owed this sale's payout
func (s *ConsignmentSale) IsPending() bool {
	return s.PayoutStatus == PayoutStatusPending
}

// MarkPaid settles the row in full against a payout transaction
func (s *ConsignmentSale) MarkPaid(payoutTransactionID uuid.UUID, paidAt time.Time, method, notes string) error {
	if !s.IsPending() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot pay consignment sale in %s status", s.PayoutStatus))
	}
	s.PayoutStatus = PayoutStatusPaid
	s.PayoutTransactionID = &payoutTransactionID
	s.PaidAt = &paidAt
	s.PaymentMethod = method
	s.PayoutNotes = notes
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}
