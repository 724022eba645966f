package consignment

import (
	"time"

	"github.com/consignly/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type names used in events
const (
	AggregateTypeConsignor         = "Consignor"
	AggregateTypeConsignmentSale   = "ConsignmentSale"
	AggregateTypePayoutTransaction = "PayoutTransaction"
)

// Event type names
const (
	EventTypeConsignorCreated        = "ConsignorCreated"
	EventTypeConsignorArchived       = "ConsignorArchived"
	EventTypeConsignmentSaleRecorded = "ConsignmentSaleRecorded"
	EventTypePayoutProcessed         = "PayoutProcessed"
)

// ConsignorCreatedEvent is raised when a consignor is registered
type ConsignorCreatedEvent struct {
	shared.EventHeader
	ConsignorID  uuid.UUID    `json:"consignor_id"`
	Name         string       `json:"name"`
	PayoutMethod PayoutMethod `json:"payout_method"`
}

// NewConsignorCreatedEvent creates a new ConsignorCreatedEvent
func NewConsignorCreatedEvent(c *Consignor) *ConsignorCreatedEvent {
	return &ConsignorCreatedEvent{
		EventHeader:  shared.NewEventHeader(EventTypeConsignorCreated, AggregateTypeConsignor, c.ID, c.TenantID),
		ConsignorID:  c.ID,
		Name:         c.Name,
		PayoutMethod: c.PayoutMethod,
	}
}

// ConsignorArchivedEvent is raised when a consignor is archived
type ConsignorArchivedEvent struct {
	shared.EventHeader
	ConsignorID uuid.UUID `json:"consignor_id"`
}

// NewConsignorArchivedEvent creates a new ConsignorArchivedEvent
func NewConsignorArchivedEvent(c *Consignor) *ConsignorArchivedEvent {
	return &ConsignorArchivedEvent{
		EventHeader: shared.NewEventHeader(EventTypeConsignorArchived, AggregateTypeConsignor, c.ID, c.TenantID),
		ConsignorID: c.ID,
	}
}

// ConsignmentSaleRecordedEvent is raised when a ledger row is written at checkout
type ConsignmentSaleRecordedEvent struct {
	shared.EventHeader
	SaleID          uuid.UUID       `json:"sale_id"`
	VariantID       uuid.UUID       `json:"variant_id"`
	ConsignorID     uuid.UUID       `json:"consignor_id"`
	SalePrice       decimal.Decimal `json:"sale_price"`
	StoreCommission decimal.Decimal `json:"store_commission"`
	ConsignorPayout decimal.Decimal `json:"consignor_payout"`
}

// NewConsignmentSaleRecordedEvent creates a new ConsignmentSaleRecordedEvent
func NewConsignmentSaleRecordedEvent(s *ConsignmentSale) *ConsignmentSaleRecordedEvent {
	return &ConsignmentSaleRecordedEvent{
		EventHeader:     shared.NewEventHeader(EventTypeConsignmentSaleRecorded, AggregateTypeConsignmentSale, s.ID, s.TenantID),
		SaleID:          s.SaleID,
		VariantID:       s.VariantID,
		ConsignorID:     s.ConsignorID,
		SalePrice:       s.SalePrice,
		StoreCommission: s.StoreCommission,
		ConsignorPayout: s.ConsignorPayout,
	}
}

// PayoutProcessedEvent is raised after a payout settled at least one sale
type PayoutProcessedEvent struct {
	shared.EventHeader
	PayoutTransactionID uuid.UUID       `json:"payout_transaction_id"`
	PayoutNumber        string          `json:"payout_number"`
	ConsignorID         uuid.UUID       `json:"consignor_id"`
	RequestedAmount     decimal.Decimal `json:"requested_amount"`
	ProcessedAmount     decimal.Decimal `json:"processed_amount"`
	SaleCount           int             `json:"sale_count"`
	RemainingPending    decimal.Decimal `json:"remaining_pending"`
	PayoutDate          time.Time       `json:"payout_date"`
}

// NewPayoutProcessedEvent creates a new PayoutProcessedEvent
func NewPayoutProcessedEvent(p *PayoutTransaction, remainingPending decimal.Decimal) *PayoutProcessedEvent {
	return &PayoutProcessedEvent{
		EventHeader:         shared.NewEventHeader(EventTypePayoutProcessed, AggregateTypePayoutTransaction, p.ID, p.TenantID),
		PayoutTransactionID: p.ID,
		PayoutNumber:        p.PayoutNumber,
		ConsignorID:         p.ConsignorID,
		RequestedAmount:     p.TotalAmount,
		ProcessedAmount:     p.ProcessedAmount,
		SaleCount:           p.ItemCount(),
		RemainingPending:    remainingPending,
		PayoutDate:          p.PayoutDate,
	}
}
