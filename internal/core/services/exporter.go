package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/ledgerlite/ledger_reports_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// GetActions returns the export actions of the report. Exports consume the
// rows published by the last refresh; callers run SetReportData first.
func (r *ledgerReport) GetActions() []domain.Action {
	return []domain.Action{
		{
			Name:      "export-csv",
			Label:     "Export CSV",
			Extension: "csv",
			Run: func(ctx context.Context, w io.Writer) error {
				return exportCSV(r.GetColumns(), r.reportData, w)
			},
		},
		{
			Name:      "export-xlsx",
			Label:     "Export Excel",
			Extension: "xlsx",
			Run: func(ctx context.Context, w io.Writer) error {
				return exportXLSX(r.cfg.Title, r.GetColumns(), r.reportData, w)
			},
		},
	}
}

// exportCSV writes a header row of column labels followed by the display
// values of every non-spacer row.
func exportCSV(columns []domain.ColumnField, data domain.ReportData, w io.Writer) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.Label
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	record := make([]string, len(columns))
	for _, row := range data {
		if row.IsEmpty {
			continue
		}
		for i, cell := range row.Cells {
			record[i] = cell.Value
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// exportXLSX writes the report to a single-sheet workbook. Raw values are
// used where they carry a sortable type so spreadsheet consumers keep
// numeric and date semantics.
func exportXLSX(title string, columns []domain.ColumnField, data domain.ReportData, w io.Writer) error {
	f := excelize.NewFile()
	const sheet = "Sheet1"

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col.Label); err != nil {
			return err
		}
	}

	rowNo := 2
	for _, row := range data {
		if row.IsEmpty {
			rowNo++
			continue
		}
		for i, c := range row.Cells {
			cell, err := excelize.CoordinatesToCellName(i+1, rowNo)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, exportCellValue(c)); err != nil {
				return err
			}
		}
		rowNo++
	}

	if err := f.SetDocProps(&excelize.DocProperties{Title: title}); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func exportCellValue(c domain.Cell) any {
	switch v := c.RawValue.(type) {
	case decimal.Decimal:
		return v.InexactFloat64()
	case time.Time:
		return v
	case nil:
		return ""
	default:
		return c.Value
	}
}
