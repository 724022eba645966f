package consignment

import (
	"strings"
	"time"

	"github.com/consignly/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayoutTransactionStatus is the state of a payout header
type PayoutTransactionStatus string

// PayoutTransactionStatusCompleted is the only modeled state
const PayoutTransactionStatusCompleted PayoutTransactionStatus = "completed"

// PayoutTransactionItem links a payout to one fully paid ledger row
type PayoutTransactionItem struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PayoutTransactionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ConsignmentSaleID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Amount              decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt           time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PayoutTransactionItem) TableName() string {
	return "payout_transaction_items"
}

// PayoutTransaction is the header of one payout action
type PayoutTransaction struct {
	shared.TenantAggregateRoot
	PayoutNumber    string                  `gorm:"type:varchar(50);not null;index"`
	ConsignorID     uuid.UUID               `gorm:"type:uuid;not null;index"`
	TotalAmount     decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	ProcessedAmount decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentMethod   string                  `gorm:"type:varchar(100);not null"`
	PayoutDate      time.Time               `gorm:"not null;index"`
	Notes           string                  `gorm:"type:text"`
	Status          PayoutTransactionStatus `gorm:"type:varchar(20);not null;default:'completed'"`
	Items           []PayoutTransactionItem `gorm:"foreignKey:PayoutTransactionID;references:ID"`
}

// TableName returns the table name for GORM
func (PayoutTransaction) TableName() string {
	return "payout_transactions"
}

// NewPayoutTransaction creates a payout header. TotalAmount is the amount the
// operator requested; ProcessedAmount grows as items are added.
func NewPayoutTransaction(
	tenantID uuid.UUID,
	payoutNumber string,
	consignorID uuid.UUID,
	requested decimal.Decimal,
	paymentMethod string,
	payoutDate time.Time,
	notes string,
) (*PayoutTransaction, error) {
	if payoutNumber == "" {
		return nil, shared.NewDomainError("INVALID_PAYOUT_NUMBER", "Payout number cannot be empty")
	}
	if consignorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONSIGNOR", "Consignor ID is required")
	}
	if !requested.IsPositive() {
		return nil, ErrInvalidAmount
	}
	paymentMethod = strings.TrimSpace(paymentMethod)
	if paymentMethod == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is required")
	}
	if payoutDate.IsZero() {
		payoutDate = time.Now()
	}

	return &PayoutTransaction{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PayoutNumber:        payoutNumber,
		ConsignorID:         consignorID,
		TotalAmount:         requested,
		ProcessedAmount:     decimal.Zero,
		PaymentMethod:       paymentMethod,
		PayoutDate:          payoutDate,
		Notes:               notes,
		Status:              PayoutTransactionStatusCompleted,
		Items:               make([]PayoutTransactionItem, 0),
	}, nil
}

// AddItem records that sale was paid amount by this payout
func (p *PayoutTransaction) AddItem(saleID uuid.UUID, amount decimal.Decimal) PayoutTransactionItem {
	item := PayoutTransactionItem{
		ID:                  uuid.New(),
		PayoutTransactionID: p.ID,
		ConsignmentSaleID:   saleID,
		Amount:              amount,
		CreatedAt:           time.Now(),
	}
	p.Items = append(p.Items, item)
	p.ProcessedAmount = p.ProcessedAmount.Add(amount)
	return item
}

// ItemCount returns the number of sales settled by this payout
func (p *PayoutTransaction) ItemCount() int {
	return len(p.Items)
}

// Complete raises the processed event once items are in place
func (p *PayoutTransaction) Complete(remainingPending decimal.Decimal) {
	p.AddDomainEvent(NewPayoutProcessedEvent(p, remainingPending))
}
