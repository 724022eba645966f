package consignment

import (
	"strings"
	"time"

	"github.com/consignly/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OwnerType says who owns a physical unit of stock
type OwnerType string

const (
	OwnerTypeStore     OwnerType = "store"
	OwnerTypeConsignor OwnerType = "consignor"
)

// IsValid checks if the owner type is valid
func (o OwnerType) IsValid() bool {
	return o == OwnerTypeStore || o == OwnerTypeConsignor
}

// Variant is one physical unit of stock, the item a sale line refers to
type Variant struct {
	shared.TenantAggregateRoot
	SKU         string          `gorm:"type:varchar(100);not null;index"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Size        string          `gorm:"type:varchar(20)"`
	OwnerType   OwnerType       `gorm:"type:varchar(20);not null;default:'store';index"`
	ConsignorID *uuid.UUID      `gorm:"type:uuid;index"`
	CostPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ListPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	IsSold      bool            `gorm:"not null;default:false;index"`
	SoldAt      *time.Time
}

// TableName returns the table name for GORM
func (Variant) TableName() string {
	return "variants"
}

// NewVariant creates a stock unit owned by the store, or by consignorID when given
func NewVariant(tenantID uuid.UUID, sku, name, size string, costPrice, listPrice decimal.Decimal, consignorID *uuid.UUID) (*Variant, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Variant name cannot be empty")
	}
	if costPrice.IsNegative() || listPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}

	v := &Variant{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKU:                 sku,
		Name:                strings.TrimSpace(name),
		Size:                strings.TrimSpace(size),
		OwnerType:           OwnerTypeStore,
		CostPrice:           costPrice,
		ListPrice:           listPrice,
	}
	if consignorID != nil && *consignorID != uuid.Nil {
		id := *consignorID
		v.OwnerType = OwnerTypeConsignor
		v.ConsignorID = &id
	}
	return v, nil
}

// AssignToConsignor reassigns ownership to a consignor before the unit sells
func (v *Variant) AssignToConsignor(consignorID uuid.UUID) error {
	if v.IsSold {
		return ErrVariantAlreadySold
	}
	if consignorID == uuid.Nil {
		return shared.NewDomainError("INVALID_CONSIGNOR", "Consignor ID is required")
	}
	v.OwnerType = OwnerTypeConsignor
	v.ConsignorID = &consignorID
	v.Touch()
	v.IncrementVersion()
	return nil
}

// AssignToStore returns ownership to the store
func (v *Variant) AssignToStore() error {
	if v.IsSold {
		return ErrVariantAlreadySold
	}
	v.OwnerType = OwnerTypeStore
	v.ConsignorID = nil
	v.Touch()
	v.IncrementVersion()
	return nil
}

// IsConsignedBy reports whether consignorID owns this unit
func (v *Variant) IsConsignedBy(consignorID uuid.UUID) bool {
	return v.OwnerType == OwnerTypeConsignor && v.ConsignorID != nil && *v.ConsignorID == consignorID
}

// MarkSold freezes the unit; ownership can no longer change
func (v *Variant) MarkSold(at time.Time) error {
	if v.IsSold {
		return ErrVariantAlreadySold
	}
	v.IsSold = true
	v.SoldAt = &at
	v.UpdatedAt = at
	v.IncrementVersion()
	return nil
}
