// Package export renders ledger data into downloadable spreadsheets.
package export

import (
	"fmt"

	consignmentapp "github.com/consignly/backend/internal/application/consignment"
	"github.com/consignly/backend/internal/domain/consignment"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	payoutSheet = "Payouts"
	xlsxMIME    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	numFmtThousands2 = 4 // #,##0.00
)

var payoutHeaders = []string{
	"Payout Number", "Consignor", "Payout Date", "Payment Method",
	"Requested", "Processed", "Sales", "Notes",
}

// PayoutXLSXExporter writes the payout ledger as an Excel workbook with a
// totals row under the data.
type PayoutXLSXExporter struct {
	printer *message.Printer
}

// NewPayoutXLSXExporter creates an exporter whose totals label is formatted for tag
func NewPayoutXLSXExporter(tag language.Tag) *PayoutXLSXExporter {
	return &PayoutXLSXExporter{printer: message.NewPrinter(tag)}
}

// ContentType returns the XLSX MIME type
func (e *PayoutXLSXExporter) ContentType() string { return xlsxMIME }

// FileExtension returns "xlsx"
func (e *PayoutXLSXExporter) FileExtension() string { return "xlsx" }

// ExportPayouts renders rows and totals into an in-memory workbook
func (e *PayoutXLSXExporter) ExportPayouts(rows []consignmentapp.PayoutExportRow, totals consignment.PayoutTotals) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", payoutSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	styles, err := newPayoutStyles(f)
	if err != nil {
		return nil, err
	}

	for i, h := range payoutHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(payoutSheet, cell, h); err != nil {
			return nil, err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(payoutHeaders))
	if err := f.SetCellStyle(payoutSheet, "A1", lastCol+"1", styles.header); err != nil {
		return nil, err
	}

	for i, r := range rows {
		rowNo := i + 2
		values := []any{
			r.PayoutNumber,
			r.ConsignorName,
			r.PayoutDate,
			r.PaymentMethod,
			r.TotalAmount.InexactFloat64(),
			r.ProcessedAmount.InexactFloat64(),
			r.SaleCount,
			r.Notes,
		}
		start, _ := excelize.CoordinatesToCellName(1, rowNo)
		if err := f.SetSheetRow(payoutSheet, start, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", rowNo, err)
		}
	}

	totalRow := len(rows) + 2
	if len(rows) > 0 {
		last := totalRow - 1
		if err := f.SetCellStyle(payoutSheet, "C2", fmt.Sprintf("C%d", last), styles.date); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(payoutSheet, "E2", fmt.Sprintf("F%d", last), styles.money); err != nil {
			return nil, err
		}
	}

	label := e.printer.Sprintf("Total (%d payouts)", totals.Count)
	totalValues := []any{
		label, nil, nil, nil,
		totals.TotalAmount.InexactFloat64(),
		totals.TotalProcessedAmount.InexactFloat64(),
	}
	start, _ := excelize.CoordinatesToCellName(1, totalRow)
	if err := f.SetSheetRow(payoutSheet, start, &totalValues); err != nil {
		return nil, fmt.Errorf("failed to write totals: %w", err)
	}
	if err := f.SetCellStyle(payoutSheet, start, fmt.Sprintf("F%d", totalRow), styles.total); err != nil {
		return nil, err
	}

	widths := map[string]float64{"A": 20, "B": 28, "C": 14, "D": 18, "E": 14, "F": 14, "G": 8, "H": 40}
	for col, w := range widths {
		if err := f.SetColWidth(payoutSheet, col, col, w); err != nil {
			return nil, err
		}
	}
	if err := f.SetPanes(payoutSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type payoutStyles struct {
	header, date, money, total int
}

func newPayoutStyles(f *excelize.File) (payoutStyles, error) {
	var s payoutStyles
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	}); err != nil {
		return s, fmt.Errorf("failed to create header style: %w", err)
	}
	dateFmt := "yyyy-mm-dd"
	if s.date, err = f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt}); err != nil {
		return s, fmt.Errorf("failed to create date style: %w", err)
	}
	if s.money, err = f.NewStyle(&excelize.Style{NumFmt: numFmtThousands2}); err != nil {
		return s, fmt.Errorf("failed to create money style: %w", err)
	}
	if s.total, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		NumFmt: numFmtThousands2,
		Border: []excelize.Border{{Type: "top", Color: "000000", Style: 1}},
	}); err != nil {
		return s, fmt.Errorf("failed to create totals style: %w", err)
	}
	return s, nil
}

var _ consignmentapp.PayoutExporter = (*PayoutXLSXExporter)(nil)
