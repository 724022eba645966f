package consignment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/consignly/backend/internal/domain/shared"
	"github.com/consignly/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaleRecorder writes consignment ledger rows for sold consignor-owned items
type SaleRecorder struct {
	txScope      TransactionScope
	publisher    shared.EventPublisher
	metrics      PayoutMetrics
	defaultBasis consignment.CommissionBasis
	logger       *zap.Logger
}

// SaleRecorderOption configures a SaleRecorder
type SaleRecorderOption func(*SaleRecorder)

// WithRecorderPublisher sets the publisher for ConsignmentSaleRecorded events
func WithRecorderPublisher(p shared.EventPublisher) SaleRecorderOption {
	return func(r *SaleRecorder) { r.publisher = p }
}

// WithRecorderMetrics sets the metrics sink
func WithRecorderMetrics(m PayoutMetrics) SaleRecorderOption {
	return func(r *SaleRecorder) { r.metrics = m }
}

// WithDefaultCommissionBasis sets the basis used when a request leaves it empty
func WithDefaultCommissionBasis(b consignment.CommissionBasis) SaleRecorderOption {
	return func(r *SaleRecorder) { r.defaultBasis = b }
}

// NewSaleRecorder creates a new SaleRecorder
func NewSaleRecorder(txScope TransactionScope, logger *zap.Logger, opts ...SaleRecorderOption) *SaleRecorder {
	r := &SaleRecorder{
		txScope:      txScope,
		metrics:      nopMetrics{},
		defaultBasis: consignment.CommissionBasisTotal,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RecordSale records one sold item. A store-owned variant is rejected.
func (r *SaleRecorder) RecordSale(ctx context.Context, tenantID, userID uuid.UUID, in RecordSaleInput) (*RecordedSale, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "consignment_sale", "record")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrSaleID, in.SaleID.String(),
		telemetry.SpanAttrVariantID, in.VariantID.String(),
		telemetry.SpanAttrConsignorID, in.ConsignorID.String(),
	)

	var recorded *consignment.ConsignmentSale
	err := r.txScope.Execute(ctx, func(repos Repositories) error {
		sale, skipped, err := r.recordOne(ctx, repos, tenantID, userID, in)
		if err != nil {
			return err
		}
		if skipped != "" {
			return consignment.ErrVariantNotConsigned
		}
		recorded = sale
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	r.afterCommit(ctx, tenantID, recorded)
	out := ToRecordedSale(recorded)
	return &out, nil
}

// RecordSales records every consignor-owned item of a checkout in one
// transaction. Store-owned items are reported as skipped; any other failure
// rolls the whole batch back.
func (r *SaleRecorder) RecordSales(ctx context.Context, tenantID, userID uuid.UUID, inputs []RecordSaleInput) (*BulkRecordResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "consignment_sale", "record_bulk")
	defer span.End()
	telemetry.SetAttribute(span, "items_count", len(inputs))

	var result *BulkRecordResult
	var sales []*consignment.ConsignmentSale
	err := r.txScope.Execute(ctx, func(repos Repositories) error {
		var err error
		result, sales, err = r.RecordSalesIn(ctx, repos, tenantID, userID, inputs)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	r.PublishRecorded(ctx, tenantID, sales)
	telemetry.SetAttributes(span, "recorded_count", len(result.Recorded), "skipped_count", len(result.Skipped))
	return result, nil
}

// RecordSalesIn is RecordSales against repositories of a caller-owned
// transaction. Events are left on the returned sales for the caller to publish
// after commit.
func (r *SaleRecorder) RecordSalesIn(ctx context.Context, repos Repositories, tenantID, userID uuid.UUID, inputs []RecordSaleInput) (*BulkRecordResult, []*consignment.ConsignmentSale, error) {
	result := &BulkRecordResult{
		Recorded: make([]RecordedSale, 0, len(inputs)),
		Skipped:  make([]SkippedItem, 0),
	}
	sales := make([]*consignment.ConsignmentSale, 0, len(inputs))
	for i, in := range inputs {
		sale, skipped, err := r.recordOne(ctx, repos, tenantID, userID, in)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to record item %d: %w", i+1, err)
		}
		if skipped != "" {
			result.Skipped = append(result.Skipped, SkippedItem{VariantID: in.VariantID, Reason: skipped})
			continue
		}
		sales = append(sales, sale)
		result.Recorded = append(result.Recorded, ToRecordedSale(sale))
	}
	return result, sales, nil
}

// recordOne returns a non-empty skip reason for store-owned variants
func (r *SaleRecorder) recordOne(ctx context.Context, repos Repositories, tenantID, userID uuid.UUID, in RecordSaleInput) (*consignment.ConsignmentSale, string, error) {
	if !in.SalePrice.IsPositive() {
		return nil, "", shared.NewDomainError(consignment.CodeInvalidAmount, "Sale price must be greater than zero")
	}
	basis := in.CommissionBasis
	if basis == "" {
		basis = r.defaultBasis
	}
	if !basis.OrDefault().IsValid() {
		return nil, "", shared.NewDomainError(consignment.CodeInvalidSplitInput, "Unknown commission basis: "+string(basis))
	}

	variant, err := repos.Variants().FindByIDForTenant(ctx, tenantID, in.VariantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, "", consignment.ErrVariantNotFound
		}
		return nil, "", fmt.Errorf("failed to load variant: %w", err)
	}
	if variant.OwnerType != consignment.OwnerTypeConsignor {
		return nil, "store-owned", nil
	}

	consignorID := in.ConsignorID
	if consignorID == uuid.Nil && variant.ConsignorID != nil {
		consignorID = *variant.ConsignorID
	}

	exists, err := repos.Sales().ExistsForSaleItem(ctx, tenantID, in.SaleID, variant.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing sale: %w", err)
	}
	if exists {
		return nil, "", consignment.ErrAlreadyRecorded
	}

	consignor, err := repos.Consignors().FindByIDForTenantForUpdate(ctx, tenantID, consignorID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, "", consignment.ErrConsignorNotFound
		}
		return nil, "", fmt.Errorf("failed to load consignor: %w", err)
	}
	if consignor.IsArchived {
		return nil, "", consignment.ErrConsignorArchived
	}
	if !variant.IsConsignedBy(consignor.ID) {
		return nil, "", consignment.ErrVariantNotConsigned
	}
	if variant.IsSold {
		return nil, "", consignment.ErrVariantAlreadySold
	}

	split, err := consignment.ComputeSplit(consignor.SplitInputFor(in.SalePrice, variant.CostPrice, in.CommissionRate, basis))
	if err != nil {
		return nil, "", err
	}

	sale, err := consignment.NewConsignmentSale(tenantID, in.SaleID, variant, consignor, in.SalePrice, basis, split)
	if err != nil {
		return nil, "", err
	}
	sale.SetCreatedBy(userID)

	if err := variant.MarkSold(time.Now()); err != nil {
		return nil, "", err
	}
	if err := repos.Variants().SaveWithLock(ctx, variant); err != nil {
		return nil, "", fmt.Errorf("failed to mark variant sold: %w", err)
	}
	if err := repos.Sales().Create(ctx, sale); err != nil {
		return nil, "", fmt.Errorf("failed to save consignment sale: %w", err)
	}

	r.logger.Debug("Consignment sale recorded",
		zap.String("sale_id", in.SaleID.String()),
		zap.String("variant_id", variant.ID.String()),
		zap.String("consignor_id", consignor.ID.String()),
		zap.String("store_commission", split.StoreGets.StringFixed(2)),
		zap.String("consignor_payout", split.ConsignorGets.StringFixed(2)),
	)
	return sale, "", nil
}

// PublishRecorded runs the post-commit hooks for sales returned by RecordSalesIn
func (r *SaleRecorder) PublishRecorded(ctx context.Context, tenantID uuid.UUID, sales []*consignment.ConsignmentSale) {
	for _, s := range sales {
		r.afterCommit(ctx, tenantID, s)
	}
}

func (r *SaleRecorder) afterCommit(ctx context.Context, tenantID uuid.UUID, sale *consignment.ConsignmentSale) {
	r.metrics.RecordSaleRecorded(ctx, tenantID.String(), sale.PayoutMethod)
	publishEvents(ctx, r.publisher, r.logger, sale)
}

type eventSource interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// publishEvents hands collected events to the publisher. Failures are logged;
// the state change they describe is already committed.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, src eventSource) {
	events := src.GetDomainEvents()
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Warn("Failed to publish domain events", zap.Int("count", len(events)), zap.Error(err))
		return
	}
	src.ClearDomainEvents()
}
