package consignment

import (
	"context"

	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/shopspring/decimal"
)

// PayoutLocker serializes payouts per consignor across server instances.
// TryLock reports ok=false, with a nil error, when someone else holds key.
type PayoutLocker interface {
	TryLock(ctx context.Context, key string) (unlock func(), ok bool, err error)
}

// PayoutMetrics receives payout outcomes
type PayoutMetrics interface {
	RecordPayout(ctx context.Context, tenantID, paymentMethod string, processed decimal.Decimal, saleCount int)
	RecordPayoutFailure(ctx context.Context, tenantID, code string)
	RecordSaleRecorded(ctx context.Context, tenantID string, payoutMethod consignment.PayoutMethod)
}

type nopMetrics struct{}

func (nopMetrics) RecordPayout(context.Context, string, string, decimal.Decimal, int)   {}
func (nopMetrics) RecordPayoutFailure(context.Context, string, string)                  {}
func (nopMetrics) RecordSaleRecorded(context.Context, string, consignment.PayoutMethod) {}

// PasswordHasher hashes and checks consignor portal passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// PayoutExporter renders a payout ledger into a downloadable document
type PayoutExporter interface {
	ExportPayouts(rows []PayoutExportRow, totals consignment.PayoutTotals) ([]byte, error)
	ContentType() string
	FileExtension() string
}
