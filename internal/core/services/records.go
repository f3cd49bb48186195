package services

import (
	"time"

	"github.com/ledgerlite/ledger_reports_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Typed accessors over the field-keyed rows the record fetcher returns.
// Storage drivers differ in the concrete Go types they hand back, so each
// accessor normalizes the shapes seen in practice and falls back to the
// zero value.

func recordString(record domain.RawRecord, field string) string {
	switch v := record[field].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}
	return ""
}

func recordTime(record domain.RawRecord, field string) *time.Time {
	switch v := record[field].(type) {
	case time.Time:
		return &v
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return &t
		}
		if t, err := time.Parse("2006-01-02", v); err == nil {
			return &t
		}
	}
	return nil
}

func recordDecimal(record domain.RawRecord, field string) decimal.Decimal {
	switch v := record[field].(type) {
	case decimal.Decimal:
		return v
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	case float64:
		return decimal.NewFromFloat(v)
	case int64:
		return decimal.NewFromInt(v)
	case int:
		return decimal.NewFromInt(int64(v))
	}
	return decimal.Zero
}

func recordBool(record domain.RawRecord, field string) bool {
	switch v := record[field].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	}
	return false
}
