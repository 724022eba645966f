package telemetry

import (
	"context"
	"errors"

	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when metrics are built without a meter
var ErrMeterNil = errors.New("telemetry: meter is nil")

// PayoutMetrics counts consignment ledger activity
type PayoutMetrics struct {
	payoutsProcessed *Counter
	payoutAmount     *FloatCounter
	salesPaid        *Counter
	payoutFailures   *Counter
	salesRecorded    *Counter
}

// NewPayoutMetrics registers the payout instruments on meter
func NewPayoutMetrics(meter metric.Meter) (*PayoutMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	m := &PayoutMetrics{}
	var err error
	if m.payoutsProcessed, err = NewCounter(meter, "payout_processed_total", "Payout transactions created", "{payout}"); err != nil {
		return nil, err
	}
	if m.payoutAmount, err = NewFloatCounter(meter, "payout_amount_total", "Amount paid out to consignors", "{currency}"); err != nil {
		return nil, err
	}
	if m.salesPaid, err = NewCounter(meter, "payout_sales_paid_total", "Ledger rows marked paid", "{sale}"); err != nil {
		return nil, err
	}
	if m.payoutFailures, err = NewCounter(meter, "payout_failures_total", "Rejected or failed payouts", "{payout}"); err != nil {
		return nil, err
	}
	if m.salesRecorded, err = NewCounter(meter, "consignment_sales_recorded_total", "Consignment ledger rows written", "{sale}"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordPayout counts one completed payout
func (m *PayoutMetrics) RecordPayout(ctx context.Context, tenantID, paymentMethod string, processed decimal.Decimal, saleCount int) {
	attrs := []attribute.KeyValue{AttrTenantID.String(tenantID), AttrPaymentMethod.String(paymentMethod)}
	m.payoutsProcessed.Inc(ctx, attrs...)
	m.payoutAmount.Add(ctx, processed.InexactFloat64(), attrs...)
	m.salesPaid.Add(ctx, int64(saleCount), attrs...)
}

// RecordPayoutFailure counts a payout that ended in error code
func (m *PayoutMetrics) RecordPayoutFailure(ctx context.Context, tenantID, code string) {
	m.payoutFailures.Inc(ctx, AttrTenantID.String(tenantID), AttrErrorCode.String(code))
}

// RecordSaleRecorded counts one ledger row
func (m *PayoutMetrics) RecordSaleRecorded(ctx context.Context, tenantID string, payoutMethod consignment.PayoutMethod) {
	m.salesRecorded.Inc(ctx, AttrTenantID.String(tenantID), AttrPayoutMethod.String(string(payoutMethod)))
}
