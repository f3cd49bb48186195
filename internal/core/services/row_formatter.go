package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ledgerlite/ledger_reports_app/internal/core/domain"
	"github.com/ledgerlite/ledger_reports_app/internal/utils"
	"github.com/shopspring/decimal"
)

// revertedMarker is the display marker for reverted payment entries. Only
// the reverted field gets this treatment; it is the sole boolean column in
// practice, every other boolean renders via generic coercion.
const revertedMarker = "Reverted"

const (
	defaultAlign = "left"
	defaultWidth = 1
)

// RowFormatter converts typed raw entries into display rows. SchemaLabel
// resolves link-target schema names to human labels for referenceType
// columns; a nil func leaves values as-is.
type RowFormatter struct {
	SchemaLabel func(schema string) (string, bool)
}

// RowFromEntry renders one entry against the column set. Every cell keeps
// the untransformed RawValue alongside the display string. Spacer entries
// short-circuit into an empty row sized to the column widths.
func (f *RowFormatter) RowFromEntry(entry *domain.RawEntry, columns []domain.ColumnField) domain.ReportRow {
	if entry.Sentinel == domain.SentinelSpacer {
		row := domain.ReportRow{IsEmpty: true}
		for _, col := range columns {
			row.Cells = append(row.Cells, domain.Cell{
				Value:    "",
				RawValue: "",
				Width:    columnWidth(col),
			})
		}
		return row
	}

	row := domain.ReportRow{}
	for _, col := range columns {
		rawValue, _ := entry.Field(col.Fieldname)
		value := f.displayValue(rawValue, col)

		align := col.Align
		if align == "" {
			align = defaultAlign
		}

		row.Cells = append(row.Cells, domain.Cell{
			Value:    value,
			RawValue: rawValue,
			Align:    align,
			Width:    columnWidth(col),
			Italic:   entry.Sentinel == domain.SentinelExcluded,
			Bold:     entry.Sentinel == domain.SentinelTotal,
		})
	}
	return row
}

func (f *RowFormatter) displayValue(raw any, col domain.ColumnField) string {
	var value string
	switch v := raw.(type) {
	case nil:
		value = ""
	case time.Time:
		value = utils.FormatDate(v)
	case decimal.Decimal:
		if col.Fieldname == domain.FieldIndex {
			value = v.String()
		} else {
			value = utils.FormatCurrency(v)
		}
	case int:
		value = f.numericValue(decimal.NewFromInt(int64(v)), col)
	case int64:
		value = f.numericValue(decimal.NewFromInt(v), col)
	case float64:
		value = f.numericValue(decimal.NewFromFloat(v), col)
	case bool:
		if col.Fieldname == domain.FieldReverted {
			if v {
				value = revertedMarker
			}
		} else {
			value = strconv.FormatBool(v)
		}
	default:
		// Unexpected shapes coerce silently; rendering stays resilient to
		// partial metadata.
		value = fmt.Sprint(v)
	}

	if col.Fieldname == domain.FieldReferenceType && f.SchemaLabel != nil {
		if label, ok := f.SchemaLabel(value); ok {
			value = label
		}
	}
	return value
}

func (f *RowFormatter) numericValue(d decimal.Decimal, col domain.ColumnField) string {
	if col.Fieldname == domain.FieldIndex {
		return d.String()
	}
	return utils.FormatCurrency(d)
}

func columnWidth(col domain.ColumnField) float64 {
	if col.Width == 0 {
		return defaultWidth
	}
	return col.Width
}
