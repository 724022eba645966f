package consignment

import (
	"context"
	"testing"
	"time"

	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/consignly/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingExporter struct {
	rows   []PayoutExportRow
	totals consignment.PayoutTotals
}

func (e *recordingExporter) ExportPayouts(rows []PayoutExportRow, totals consignment.PayoutTotals) ([]byte, error) {
	e.rows = rows
	e.totals = totals
	return []byte("xlsx"), nil
}

func (e *recordingExporter) ContentType() string   { return "application/octet-stream" }
func (e *recordingExporter) FileExtension() string { return "bin" }

func TestLedgerService_ListSalesTotalsCoverFilteredSet(t *testing.T) {
	repos := newTestRepos()
	tenantID, consignorID := uuid.New(), uuid.New()
	page := pendingSales(tenantID, consignorID, "40", "30")
	repos.sales.On("FindAllForTenant", mock.Anything, tenantID, mock.MatchedBy(func(f consignment.ConsignmentSaleFilter) bool {
		return f.Page == 1 && f.PageSize == 2
	})).Return([]consignment.ConsignmentSale{*page[0], *page[1]}, nil)
	repos.sales.On("Totals", mock.Anything, tenantID, mock.Anything).Return(consignment.SaleTotals{
		Count:           5,
		TotalAmount:     d("500"),
		TotalPayout:     d("400"),
		TotalCommission: d("100"),
	}, nil)

	out, err := NewLedgerService(repos.Repositories(), nil, zap.NewNop()).ListSales(context.Background(), tenantID,
		consignment.ConsignmentSaleFilter{Filter: shared.Filter{PageSize: 2}, ConsignorID: &consignorID})
	require.NoError(t, err)

	assert.Len(t, out.Sales, 2)
	assert.Equal(t, int64(5), out.Total)
	assert.True(t, out.TotalPayout.Equal(d("400")))
	assert.True(t, out.TotalCommission.Equal(d("100")))
	assert.True(t, out.Sales[0].CommissionAmount.Equal(d("10")))
}

func TestLedgerService_GetPayoutNotFound(t *testing.T) {
	repos := newTestRepos()
	tenantID, id := uuid.New(), uuid.New()
	repos.payouts.On("FindByIDForTenant", mock.Anything, tenantID, id).Return(nil, shared.ErrNotFound)

	_, err := NewLedgerService(repos.Repositories(), nil, zap.NewNop()).GetPayout(context.Background(), tenantID, id)
	assert.ErrorIs(t, err, consignment.ErrPayoutNotFound)
}

func TestLedgerService_ExportPayouts(t *testing.T) {
	repos := newTestRepos()
	tenantID := uuid.New()
	c := newConsignor(tenantID, consignment.PayoutTerms{})
	p1, err := consignment.NewPayoutTransaction(tenantID, "PO-20260401-0001", c.ID, d("50"), "CASH", time.Now(), "")
	require.NoError(t, err)
	p1.AddItem(uuid.New(), d("40"))
	p2, err := consignment.NewPayoutTransaction(tenantID, "PO-20260401-0002", c.ID, d("30"), "Venmo", time.Now(), "")
	require.NoError(t, err)
	p2.AddItem(uuid.New(), d("30"))

	repos.payouts.On("FindAllForTenant", mock.Anything, tenantID, mock.Anything).Return([]consignment.PayoutTransaction{*p1, *p2}, nil)
	repos.payouts.On("Totals", mock.Anything, tenantID, mock.Anything).Return(consignment.PayoutTotals{
		Count: 2, TotalAmount: d("80"), TotalProcessedAmount: d("70"),
	}, nil)
	repos.consignors.On("FindByIDForTenant", mock.Anything, tenantID, c.ID).Return(c, nil).Once()

	exporter := &recordingExporter{}
	data, err := NewLedgerService(repos.Repositories(), exporter, zap.NewNop()).
		ExportPayouts(context.Background(), tenantID, consignment.PayoutTransactionFilter{})
	require.NoError(t, err)

	assert.Equal(t, []byte("xlsx"), data)
	require.Len(t, exporter.rows, 2)
	assert.Equal(t, "Kicks Vault", exporter.rows[1].ConsignorName)
	assert.Equal(t, 1, exporter.rows[0].SaleCount)
	assert.True(t, exporter.totals.TotalProcessedAmount.Equal(d("70")))
	repos.consignors.AssertNumberOfCalls(t, "FindByIDForTenant", 1)
}
