package export

import (
	"bytes"
	"testing"
	"time"

	consignmentapp "github.com/consignly/backend/internal/application/consignment"
	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
)

func TestPayoutXLSXExporter_ExportPayouts(t *testing.T) {
	e := NewPayoutXLSXExporter(language.English)
	rows := []consignmentapp.PayoutExportRow{
		{
			PayoutNumber:    "PO-20260314-0001",
			ConsignorName:   "Kicks Vault",
			PayoutDate:      time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
			PaymentMethod:   "CASH",
			TotalAmount:     decimal.RequireFromString("500"),
			ProcessedAmount: decimal.RequireFromString("480"),
			SaleCount:       3,
			Notes:           "March",
		},
		{
			PayoutNumber:    "PO-20260315-0001",
			ConsignorName:   "Sole Supply",
			PayoutDate:      time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			PaymentMethod:   "Venmo",
			TotalAmount:     decimal.RequireFromString("1200.50"),
			ProcessedAmount: decimal.RequireFromString("1200.50"),
			SaleCount:       1,
		},
	}
	totals := consignment.PayoutTotals{
		Count:                1234,
		TotalAmount:          decimal.RequireFromString("1700.50"),
		TotalProcessedAmount: decimal.RequireFromString("1680.50"),
	}

	data, err := e.ExportPayouts(rows, totals)
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", e.ContentType())
	assert.Equal(t, "xlsx", e.FileExtension())

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Payouts"}, f.GetSheetList())
	got, err := f.GetRows("Payouts", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, "Payout Number", got[0][0])
	assert.Equal(t, "PO-20260314-0001", got[1][0])
	assert.Equal(t, "Kicks Vault", got[1][1])
	assert.Equal(t, "480", got[1][5])
	assert.Equal(t, "Venmo", got[2][3])
	assert.Equal(t, "1200.5", got[2][4])

	assert.Equal(t, "Total (1,234 payouts)", got[3][0])
	assert.Equal(t, "1700.5", got[3][4])
	assert.Equal(t, "1680.5", got[3][5])
}

func TestPayoutXLSXExporter_EmptyLedger(t *testing.T) {
	data, err := NewPayoutXLSXExporter(language.English).ExportPayouts(nil, consignment.PayoutTotals{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("Payouts")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Total (0 payouts)", got[1][0])
}
