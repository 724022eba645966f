package event

import (
	"context"

	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/consignly/backend/internal/domain/shared"
	"github.com/consignly/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AuditLogHandler writes one structured log line per domain event
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates a handler logging to base
func NewAuditLogHandler(base *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{logger: base.Named("audit")}
}

// Handle logs the event envelope plus the money fields of ledger events
func (h *AuditLogHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_id", ev.EventID().String()),
		zap.String("event_type", ev.EventType()),
		zap.String("aggregate_type", ev.AggregateType()),
		zap.String("aggregate_id", ev.AggregateID().String()),
		zap.String("tenant_id", ev.TenantID().String()),
		zap.Time("occurred_at", ev.OccurredAt()),
	}

	switch e := ev.(type) {
	case *consignment.PayoutProcessedEvent:
		fields = append(fields,
			zap.String("payout_number", e.PayoutNumber),
			zap.String("consignor_id", e.ConsignorID.String()),
			zap.String("requested_amount", e.RequestedAmount.StringFixed(2)),
			zap.String("processed_amount", e.ProcessedAmount.StringFixed(2)),
			zap.Int("sale_count", e.SaleCount),
			zap.String("remaining_pending", e.RemainingPending.StringFixed(2)),
		)
	case *consignment.ConsignmentSaleRecordedEvent:
		fields = append(fields,
			zap.String("sale_id", e.SaleID.String()),
			zap.String("consignor_id", e.ConsignorID.String()),
			zap.String("sale_price", e.SalePrice.StringFixed(2)),
			zap.String("consignor_payout", e.ConsignorPayout.StringFixed(2)),
			zap.String("store_commission", e.StoreCommission.StringFixed(2)),
		)
	}

	logger.For(ctx, h.logger).Info("Domain event", fields...)
	return nil
}
