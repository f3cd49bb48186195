package utils

import (
	"fmt"
	"time"

	"github.com/ledgerlite/ledger_reports_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateDisplayLayout is the date display rule applied to Date-typed report
// values.
const DateDisplayLayout = "2006-01-02"

// CurrencyDisplayPrecision is the display precision of the currency rule.
const CurrencyDisplayPrecision = 2

// FormatValue renders a raw value for display according to its semantic
// field type. Values of unexpected shape for their declared type coerce to
// their generic string representation rather than failing; report rendering
// stays resilient to partial metadata.
func FormatValue(value any, fieldtype domain.FieldType) string {
	switch fieldtype {
	case domain.FieldTypeDate:
		if t, ok := value.(time.Time); ok {
			return FormatDate(t)
		}
	case domain.FieldTypeCurrency:
		if d, ok := toDecimal(value); ok {
			return FormatCurrency(d)
		}
	}
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

// FormatDate formats a timestamp with the date display rule.
func FormatDate(t time.Time) string {
	return t.Format(DateDisplayLayout)
}

// FormatCurrency formats an amount with the currency display rule.
// Example: 12.3456 returns "12.35".
func FormatCurrency(amount decimal.Decimal) string {
	return amount.StringFixed(CurrencyDisplayPrecision)
}

// FormatWithPrecision formats an amount with the given precision.
// This is a convenience function for callers carrying per-currency precision.
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.Round(int32(precision)).String()
}

func toDecimal(value any) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case float64:
		return decimal.NewFromFloat(v), true
	}
	return decimal.Decimal{}, false
}
