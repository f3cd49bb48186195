package services

import "github.com/ledgerlite/ledger_reports_app/internal/core/domain"

// FormatRowValueForTest exposes the cell display coercion to black-box tests.
func FormatRowValueForTest(raw any, col domain.ColumnField) string {
	f := &RowFormatter{}
	return f.displayValue(raw, col)
}
