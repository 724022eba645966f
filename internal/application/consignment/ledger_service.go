package consignment

import (
	"context"
	"errors"
	"fmt"

	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/consignly/backend/internal/domain/shared"
	"github.com/consignly/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxExportRows bounds a single export
const maxExportRows = 10000

// LedgerService answers read queries over consignment sales and payouts
type LedgerService struct {
	repos    Repositories
	exporter PayoutExporter
	logger   *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(repos Repositories, exporter PayoutExporter, logger *zap.Logger) *LedgerService {
	return &LedgerService{repos: repos, exporter: exporter, logger: logger}
}

// ListSales returns a page of ledger rows. Totals cover every row matching
// the filter, not just the page.
func (s *LedgerService) ListSales(ctx context.Context, tenantID uuid.UUID, filter consignment.ConsignmentSaleFilter) (*SaleListResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "list_sales")
	defer span.End()

	filter.Filter = filter.Filter.Normalize()
	sales, err := s.repos.Sales().FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to list consignment sales: %w", err)
	}
	totals, err := s.repos.Sales().Totals(ctx, tenantID, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to total consignment sales: %w", err)
	}

	out := &SaleListResult{
		Sales:           make([]RecordedSale, 0, len(sales)),
		Total:           totals.Count,
		TotalAmount:     totals.TotalAmount,
		TotalPayout:     totals.TotalPayout,
		TotalCommission: totals.TotalCommission,
	}
	for i := range sales {
		out.Sales = append(out.Sales, ToRecordedSale(&sales[i]))
	}
	return out, nil
}

// ListPayouts returns a page of payout headers with totals over the filtered set
func (s *LedgerService) ListPayouts(ctx context.Context, tenantID uuid.UUID, filter consignment.PayoutTransactionFilter) (*PayoutListResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "list_payouts")
	defer span.End()

	filter.Filter = filter.Filter.Normalize()
	payouts, err := s.repos.Payouts().FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to list payouts: %w", err)
	}
	totals, err := s.repos.Payouts().Totals(ctx, tenantID, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to total payouts: %w", err)
	}

	out := &PayoutListResult{
		Payouts:              make([]PayoutResponse, 0, len(payouts)),
		Total:                totals.Count,
		TotalAmount:          totals.TotalAmount,
		TotalProcessedAmount: totals.TotalProcessedAmount,
	}
	for i := range payouts {
		out.Payouts = append(out.Payouts, ToPayoutResponse(&payouts[i]))
	}
	return out, nil
}

// GetPayout returns one payout with its items
func (s *LedgerService) GetPayout(ctx context.Context, tenantID, id uuid.UUID) (*PayoutResponse, error) {
	p, err := s.repos.Payouts().FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, consignment.ErrPayoutNotFound
		}
		return nil, fmt.Errorf("failed to load payout: %w", err)
	}
	resp := ToPayoutResponse(p)
	return &resp, nil
}

// ExportPayouts renders every payout matching filter, ignoring its paging
func (s *LedgerService) ExportPayouts(ctx context.Context, tenantID uuid.UUID, filter consignment.PayoutTransactionFilter) ([]byte, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "export_payouts")
	defer span.End()

	if s.exporter == nil {
		return nil, shared.NewDomainError("EXPORT_UNAVAILABLE", "Payout export is not configured")
	}

	filter.Filter = shared.Filter{Page: 1, PageSize: maxExportRows, OrderBy: "payout_date", OrderDir: "asc"}
	payouts, err := s.repos.Payouts().FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load payouts for export: %w", err)
	}
	totals, err := s.repos.Payouts().Totals(ctx, tenantID, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to total payouts for export: %w", err)
	}
	if totals.Count > int64(len(payouts)) {
		s.logger.Warn("Payout export truncated", zap.Int64("matching", totals.Count), zap.Int("exported", len(payouts)))
	}

	names := make(map[uuid.UUID]string)
	rows := make([]PayoutExportRow, 0, len(payouts))
	for _, p := range payouts {
		name, ok := names[p.ConsignorID]
		if !ok {
			name = s.consignorName(ctx, tenantID, p.ConsignorID)
			names[p.ConsignorID] = name
		}
		rows = append(rows, PayoutExportRow{
			PayoutNumber:    p.PayoutNumber,
			ConsignorName:   name,
			PayoutDate:      p.PayoutDate,
			PaymentMethod:   p.PaymentMethod,
			TotalAmount:     p.TotalAmount,
			ProcessedAmount: p.ProcessedAmount,
			SaleCount:       len(p.Items),
			Notes:           p.Notes,
		})
	}

	data, err := s.exporter.ExportPayouts(rows, totals)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to render payout export: %w", err)
	}
	telemetry.SetAttributes(span, "rows", len(rows), "bytes", len(data))
	return data, nil
}

// Exporter returns the configured exporter, nil when export is disabled
func (s *LedgerService) Exporter() PayoutExporter {
	return s.exporter
}

func (s *LedgerService) consignorName(ctx context.Context, tenantID, id uuid.UUID) string {
	c, err := s.repos.Consignors().FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		// deleted consignors still have payouts
		return id.String()
	}
	return c.Name
}
