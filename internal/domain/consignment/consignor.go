package consignment

import (
	"strings"
	"time"

	"github.com/consignly/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayoutMethod is the policy deciding how much of a sale the consignor receives
type PayoutMethod string

const (
	PayoutMethodCostPrice          PayoutMethod = "cost_price"
	PayoutMethodCostPlusFixed      PayoutMethod = "cost_plus_fixed"
	PayoutMethodCostPlusPercentage PayoutMethod = "cost_plus_percentage"
	PayoutMethodPercentageSplit    PayoutMethod = "percentage_split"
)

// IsValid checks if the payout method is valid
func (m PayoutMethod) IsValid() bool {
	switch m {
	case PayoutMethodCostPrice, PayoutMethodCostPlusFixed,
		PayoutMethodCostPlusPercentage, PayoutMethodPercentageSplit:
		return true
	}
	return false
}

// OrDefault returns percentage_split for an unset method
func (m PayoutMethod) OrDefault() PayoutMethod {
	if m == "" {
		return PayoutMethodPercentageSplit
	}
	return m
}

// String returns the string representation of PayoutMethod
func (m PayoutMethod) String() string {
	return string(m)
}

// DefaultCommissionRate is the store's share under percentage_split when none is configured
var DefaultCommissionRate = decimal.NewFromInt(20)

// PayoutTerms groups the consignor's payout policy parameters
type PayoutTerms struct {
	Method           PayoutMethod
	CommissionRate   decimal.Decimal
	FixedMarkup      decimal.Decimal
	MarkupPercentage decimal.Decimal
}

// Validate checks the terms are internally consistent
func (t PayoutTerms) Validate() error {
	if !t.Method.OrDefault().IsValid() {
		return invalidSplit("Unknown payout method: " + string(t.Method))
	}
	if !isPercent(t.CommissionRate) {
		return invalidSplit("Commission rate must be between 0 and 100")
	}
	if !isPercent(t.MarkupPercentage) {
		return invalidSplit("Markup percentage must be between 0 and 100")
	}
	if t.FixedMarkup.IsNegative() {
		return invalidSplit("Fixed markup cannot be negative")
	}
	return nil
}

func isPercent(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(100))
}

// Consignor is a third party who owns stock the store sells on their behalf
type Consignor struct {
	shared.TenantAggregateRoot
	Name               string          `gorm:"type:varchar(200);not null"`
	Email              string          `gorm:"type:varchar(200)"`
	Phone              string          `gorm:"type:varchar(50)"`
	Notes              string          `gorm:"type:text"`
	CommissionRate     decimal.Decimal `gorm:"type:decimal(5,2);not null;default:20"`
	PayoutMethod       PayoutMethod    `gorm:"type:varchar(30);not null;default:'percentage_split'"`
	FixedMarkup        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	MarkupPercentage   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	IsArchived         bool            `gorm:"not null;default:false;index"`
	ArchivedAt         *time.Time
	PortalPasswordHash string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (Consignor) TableName() string {
	return "consignors"
}

// NewConsignor creates a new consignor with the given payout terms
func NewConsignor(tenantID uuid.UUID, name string, terms PayoutTerms) (*Consignor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Consignor name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Consignor name cannot exceed 200 characters")
	}
	terms.Method = terms.Method.OrDefault()
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	c := &Consignor{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
	}
	c.applyTerms(terms)
	c.AddDomainEvent(NewConsignorCreatedEvent(c))
	return c, nil
}

func (c *Consignor) applyTerms(terms PayoutTerms) {
	c.PayoutMethod = terms.Method.OrDefault()
	c.CommissionRate = terms.CommissionRate
	c.FixedMarkup = terms.FixedMarkup
	c.MarkupPercentage = terms.MarkupPercentage
}

// Terms returns the consignor's current payout terms
func (c *Consignor) Terms() PayoutTerms {
	return PayoutTerms{
		Method:           c.PayoutMethod.OrDefault(),
		CommissionRate:   c.CommissionRate,
		FixedMarkup:      c.FixedMarkup,
		MarkupPercentage: c.MarkupPercentage,
	}
}

// UpdateContact replaces the consignor's contact details
func (c *Consignor) UpdateContact(name, email, phone, notes string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Consignor name cannot be empty")
	}
	c.Name = name
	c.Email = strings.TrimSpace(email)
	c.Phone = strings.TrimSpace(phone)
	c.Notes = notes
	c.Touch()
	c.IncrementVersion()
	return nil
}

// UpdateTerms changes the default payout terms. Already recorded sales keep
// the rate they were recorded with.
func (c *Consignor) UpdateTerms(terms PayoutTerms) error {
	terms.Method = terms.Method.OrDefault()
	if err := terms.Validate(); err != nil {
		return err
	}
	c.applyTerms(terms)
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Archive soft-deletes the consignor
func (c *Consignor) Archive() error {
	if c.IsArchived {
		return shared.NewDomainError("INVALID_STATE", "Consignor is already archived")
	}
	now := time.Now()
	c.IsArchived = true
	c.ArchivedAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()
	c.AddDomainEvent(NewConsignorArchivedEvent(c))
	return nil
}

// Unarchive restores an archived consignor
func (c *Consignor) Unarchive() error {
	if !c.IsArchived {
		return shared.NewDomainError("INVALID_STATE", "Consignor is not archived")
	}
	c.IsArchived = false
	c.ArchivedAt = nil
	c.Touch()
	c.IncrementVersion()
	return nil
}

// EnsureDeletable returns an error unless every sale has been paid out
func (c *Consignor) EnsureDeletable(unpaidSales int64) error {
	if unpaidSales > 0 {
		return ErrConsignorHasUnpaidSales
	}
	return nil
}

// SetPortalPasswordHash stores an already hashed portal password
func (c *Consignor) SetPortalPasswordHash(hash string) {
	c.PortalPasswordHash = hash
	c.Touch()
	c.IncrementVersion()
}

// HasPortalAccess reports whether a portal password has been configured
func (c *Consignor) HasPortalAccess() bool {
	return c.PortalPasswordHash != ""
}

// SplitInputFor builds the split calculator input for one sold item.
// A non-nil rateOverride replaces the default commission rate.
func (c *Consignor) SplitInputFor(salePrice, costPrice decimal.Decimal, rateOverride *decimal.Decimal, basis CommissionBasis) SplitInput {
	rate := c.CommissionRate
	if rateOverride != nil {
		rate = *rateOverride
	}
	fixed := c.FixedMarkup
	pct := c.MarkupPercentage
	return SplitInput{
		OwnerType:        OwnerTypeConsignor,
		SalePrice:        salePrice,
		CostPrice:        costPrice,
		PayoutMethod:     c.PayoutMethod.OrDefault(),
		CommissionRate:   &rate,
		FixedMarkup:      &fixed,
		MarkupPercentage: &pct,
		CommissionBasis:  basis,
	}
}
