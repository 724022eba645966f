package consignment

import (
	"time"

	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Consignor DTOs ====================

// CreateConsignorInput is the input for registering a consignor
type CreateConsignorInput struct {
	Name             string
	Email            string
	Phone            string
	Notes            string
	CommissionRate   *decimal.Decimal
	PayoutMethod     consignment.PayoutMethod
	FixedMarkup      decimal.Decimal
	MarkupPercentage decimal.Decimal
}

// UpdateConsignorInput replaces a consignor's contact details and terms
type UpdateConsignorInput struct {
	Name             string
	Email            string
	Phone            string
	Notes            string
	CommissionRate   decimal.Decimal
	PayoutMethod     consignment.PayoutMethod
	FixedMarkup      decimal.Decimal
	MarkupPercentage decimal.Decimal
}

// ConsignorResponse is the consignor view returned to callers
type ConsignorResponse struct {
	ID               uuid.UUID                `json:"id"`
	Name             string                   `json:"name"`
	Email            string                   `json:"email,omitempty"`
	Phone            string                   `json:"phone,omitempty"`
	Notes            string                   `json:"notes,omitempty"`
	CommissionRate   decimal.Decimal          `json:"commissionRate"`
	PayoutMethod     consignment.PayoutMethod `json:"payoutMethod"`
	FixedMarkup      decimal.Decimal          `json:"fixedMarkup"`
	MarkupPercentage decimal.Decimal          `json:"markupPercentage"`
	IsArchived       bool                     `json:"isArchived"`
	ArchivedAt       *time.Time               `json:"archivedAt,omitempty"`
	HasPortalAccess  bool                     `json:"hasPortalAccess"`
	PendingTotal     *decimal.Decimal         `json:"pendingTotal,omitempty"`
	PaidTotal        *decimal.Decimal         `json:"paidTotal,omitempty"`
	CreatedAt        time.Time                `json:"createdAt"`
	UpdatedAt        time.Time                `json:"updatedAt"`
}

// ToConsignorResponse converts a domain consignor to its response
func ToConsignorResponse(c *consignment.Consignor) ConsignorResponse {
	return ConsignorResponse{
		ID:               c.ID,
		Name:             c.Name,
		Email:            c.Email,
		Phone:            c.Phone,
		Notes:            c.Notes,
		CommissionRate:   c.CommissionRate,
		PayoutMethod:     c.PayoutMethod.OrDefault(),
		FixedMarkup:      c.FixedMarkup,
		MarkupPercentage: c.MarkupPercentage,
		IsArchived:       c.IsArchived,
		ArchivedAt:       c.ArchivedAt,
		HasPortalAccess:  c.HasPortalAccess(),
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// ==================== Variant DTOs ====================

// CreateVariantInput is the input for adding one unit of stock
type CreateVariantInput struct {
	SKU         string
	Name        string
	Size        string
	CostPrice   decimal.Decimal
	ListPrice   decimal.Decimal
	ConsignorID *uuid.UUID
}

// VariantResponse is the variant view returned to callers
type VariantResponse struct {
	ID          uuid.UUID             `json:"id"`
	SKU         string                `json:"sku"`
	Name        string                `json:"name"`
	Size        string                `json:"size,omitempty"`
	OwnerType   consignment.OwnerType `json:"ownerType"`
	ConsignorID *uuid.UUID            `json:"consignorId,omitempty"`
	CostPrice   decimal.Decimal       `json:"costPrice"`
	ListPrice   decimal.Decimal       `json:"listPrice"`
	IsSold      bool                  `json:"isSold"`
	SoldAt      *time.Time            `json:"soldAt,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
}

// ToVariantResponse converts a domain variant to its response
func ToVariantResponse(v *consignment.Variant) VariantResponse {
	return VariantResponse{
		ID:          v.ID,
		SKU:         v.SKU,
		Name:        v.Name,
		Size:        v.Size,
		OwnerType:   v.OwnerType,
		ConsignorID: v.ConsignorID,
		CostPrice:   v.CostPrice,
		ListPrice:   v.ListPrice,
		IsSold:      v.IsSold,
		SoldAt:      v.SoldAt,
		CreatedAt:   v.CreatedAt,
	}
}

// ==================== Sale recording DTOs ====================

// RecordSaleInput describes one sold item. ConsignorID may be left nil to use
// the variant's current owner.
type RecordSaleInput struct {
	SaleID          uuid.UUID
	ConsignorID     uuid.UUID
	VariantID       uuid.UUID
	SalePrice       decimal.Decimal
	CommissionRate  *decimal.Decimal
	CommissionBasis consignment.CommissionBasis
}

// RecordedSale echoes the ledger row written for one item
type RecordedSale struct {
	ID               uuid.UUID                   `json:"id"`
	SaleID           uuid.UUID                   `json:"saleId"`
	VariantID        uuid.UUID                   `json:"variantId"`
	ConsignorID      uuid.UUID                   `json:"consignorId"`
	SalePrice        decimal.Decimal             `json:"salePrice"`
	CostPrice        decimal.Decimal             `json:"costPrice"`
	CommissionRate   decimal.Decimal             `json:"commissionRate"`
	CommissionAmount decimal.Decimal             `json:"commissionAmount"`
	ConsignorPayout  decimal.Decimal             `json:"consignorPayout"`
	PayoutMethod     consignment.PayoutMethod    `json:"payoutMethod"`
	CommissionBasis  consignment.CommissionBasis `json:"commissionBasis"`
	PayoutStatus     consignment.PayoutStatus    `json:"payoutStatus"`
	CreatedAt        time.Time                   `json:"createdAt"`
}

// ToRecordedSale converts a ledger row to its response
func ToRecordedSale(s *consignment.ConsignmentSale) RecordedSale {
	return RecordedSale{
		ID:               s.ID,
		SaleID:           s.SaleID,
		VariantID:        s.VariantID,
		ConsignorID:      s.ConsignorID,
		SalePrice:        s.SalePrice,
		CostPrice:        s.CostPrice,
		CommissionRate:   s.CommissionRate,
		CommissionAmount: s.StoreCommission,
		ConsignorPayout:  s.ConsignorPayout,
		PayoutMethod:     s.PayoutMethod,
		CommissionBasis:  s.CommissionBasis,
		PayoutStatus:     s.PayoutStatus,
		CreatedAt:        s.CreatedAt,
	}
}

// SkippedItem is a bulk line that did not produce a ledger row
type SkippedItem struct {
	VariantID uuid.UUID `json:"variantId"`
	Reason    string    `json:"reason"`
}

// BulkRecordResult is the outcome of recording a whole checkout
type BulkRecordResult struct {
	Recorded []RecordedSale `json:"recorded"`
	Skipped  []SkippedItem  `json:"skipped"`
}

// ==================== Payout DTOs ====================

// AllocationMode selects how a payout is applied to the ledger
type AllocationMode string

const (
	// AllocationModeAtomic applies a payout in one transaction or not at all
	AllocationModeAtomic AllocationMode = "atomic"
	// AllocationModeBestEffort pays as many sales as it can and compensates
	// only when none were updated
	AllocationModeBestEffort AllocationMode = "best_effort"
)

// IsValid checks if the allocation mode is valid
func (m AllocationMode) IsValid() bool {
	return m == AllocationModeAtomic || m == AllocationModeBestEffort
}

// ProcessPayoutInput is the operator's payout request
type ProcessPayoutInput struct {
	ConsignorID   uuid.UUID
	Amount        decimal.Decimal
	PaymentMethod string
	PayoutDate    time.Time
	Notes         string
}

// PayoutResult reports what a payout actually did
type PayoutResult struct {
	PayoutTransactionID uuid.UUID       `json:"payoutTransactionId"`
	PayoutNumber        string          `json:"payoutNumber"`
	RequestedAmount     decimal.Decimal `json:"requestedAmount"`
	ProcessedAmount     decimal.Decimal `json:"processedAmount"`
	UpdatedSaleCount    int             `json:"updatedSaleCount"`
	FailedSaleCount     int             `json:"failedSaleCount,omitempty"`
	RemainingPending    decimal.Decimal `json:"remainingPending"`
	PayoutDate          time.Time       `json:"payoutDate"`
}

// PayoutItemResponse is one settled sale within a payout
type PayoutItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ConsignmentSaleID uuid.UUID       `json:"consignmentSaleId"`
	Amount            decimal.Decimal `json:"amount"`
}

// PayoutResponse is the payout header view
type PayoutResponse struct {
	ID              uuid.UUID            `json:"id"`
	PayoutNumber    string               `json:"payoutNumber"`
	ConsignorID     uuid.UUID            `json:"consignorId"`
	TotalAmount     decimal.Decimal      `json:"totalAmount"`
	ProcessedAmount decimal.Decimal      `json:"processedAmount"`
	PaymentMethod   string               `json:"paymentMethod"`
	PayoutDate      time.Time            `json:"payoutDate"`
	Notes           string               `json:"notes,omitempty"`
	Status          string               `json:"status"`
	Items           []PayoutItemResponse `json:"items,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
}

// ToPayoutResponse converts a payout header, with items when loaded
func ToPayoutResponse(p *consignment.PayoutTransaction) PayoutResponse {
	resp := PayoutResponse{
		ID:              p.ID,
		PayoutNumber:    p.PayoutNumber,
		ConsignorID:     p.ConsignorID,
		TotalAmount:     p.TotalAmount,
		ProcessedAmount: p.ProcessedAmount,
		PaymentMethod:   p.PaymentMethod,
		PayoutDate:      p.PayoutDate,
		Notes:           p.Notes,
		Status:          string(p.Status),
		CreatedAt:       p.CreatedAt,
	}
	for _, item := range p.Items {
		resp.Items = append(resp.Items, PayoutItemResponse{
			ID:                item.ID,
			ConsignmentSaleID: item.ConsignmentSaleID,
			Amount:            item.Amount,
		})
	}
	return resp
}

// ==================== Ledger DTOs ====================

// SaleListResult is a page of ledger rows plus totals over the whole filtered set
type SaleListResult struct {
	Sales           []RecordedSale  `json:"sales"`
	Total           int64           `json:"total"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	TotalPayout     decimal.Decimal `json:"totalPayout"`
	TotalCommission decimal.Decimal `json:"totalCommission"`
}

// PayoutListResult is a page of payouts plus totals over the whole filtered set
type PayoutListResult struct {
	Payouts              []PayoutResponse `json:"payouts"`
	Total                int64            `json:"total"`
	TotalAmount          decimal.Decimal  `json:"totalAmount"`
	TotalProcessedAmount decimal.Decimal  `json:"totalProcessedAmount"`
}

// PayoutExportRow is one line of the payout export
type PayoutExportRow struct {
	PayoutNumber    string
	ConsignorName   string
	PayoutDate      time.Time
	PaymentMethod   string
	TotalAmount     decimal.Decimal
	ProcessedAmount decimal.Decimal
	SaleCount       int
	Notes           string
}

// ==================== Payment method DTOs ====================

// PaymentMethodOption is an entry of the payment method picker
type PaymentMethodOption struct {
	Name     string `json:"name"`
	IsCustom bool   `json:"isCustom"`
}

// ==================== Portal DTOs ====================

// PortalStats summarizes a consignor's account
type PortalStats struct {
	TotalSales   int64           `json:"totalSales"`
	TotalSold    decimal.Decimal `json:"totalSold"`
	TotalPaid    decimal.Decimal `json:"totalPaid"`
	TotalPending decimal.Decimal `json:"totalPending"`
	ItemsInStock int64           `json:"itemsInStock"`
}

// PortalSale is a ledger row as the consignor sees it
type PortalSale struct {
	ID              uuid.UUID                `json:"id"`
	SalePrice       decimal.Decimal          `json:"salePrice"`
	ConsignorPayout decimal.Decimal          `json:"consignorPayout"`
	PayoutStatus    consignment.PayoutStatus `json:"payoutStatus"`
	PaidAt          *time.Time               `json:"paidAt,omitempty"`
	SoldAt          time.Time                `json:"soldAt"`
}

// PortalView is everything the public consignor portal shows
type PortalView struct {
	ConsignorID uuid.UUID         `json:"consignorId"`
	Name        string            `json:"name"`
	Stats       PortalStats       `json:"stats"`
	Sales       []PortalSale      `json:"sales"`
	Inventory   []VariantResponse `json:"inventory"`
}
