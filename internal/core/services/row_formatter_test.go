package services_test

import (
	"testing"
	"time"

	"github.com/ledgerlite/ledger_reports_app/internal/core/domain"
	"github.com/ledgerlite/ledger_reports_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var paymentColumns = []domain.ColumnField{
	{Label: "#", Fieldtype: domain.FieldTypeInt, Fieldname: domain.FieldIndex, Align: "right", Width: 0.5},
	{Label: "Date", Fieldtype: domain.FieldTypeDate, Fieldname: domain.FieldDate},
	{Label: "Party", Fieldtype: domain.FieldTypeLink, Fieldname: domain.FieldParty},
	{Label: "Amount", Fieldtype: domain.FieldTypeCurrency, Fieldname: domain.FieldAmount},
	{Label: "Reverted", Fieldtype: domain.FieldTypeCheck, Fieldname: domain.FieldReverted},
	{Label: "Reference Type", Fieldtype: domain.FieldTypeData, Fieldname: domain.FieldReferenceType},
}

func TestRowFromEntry_RawValueRoundTrip(t *testing.T) {
	f := &services.RowFormatter{}
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	entry := &domain.RawEntry{
		Name:   "PAY-001",
		Index:  "1",
		Date:   &date,
		Party:  "Alpha",
		Amount: decimal.RequireFromString("1234.5"),
	}

	row := f.RowFromEntry(entry, paymentColumns)
	require.Len(t, row.Cells, len(paymentColumns))

	// Display strings are coerced; raw values keep the source type.
	assert.Equal(t, "2024-03-15", row.Cells[1].Value)
	assert.Equal(t, date, row.Cells[1].RawValue)

	assert.Equal(t, "1234.50", row.Cells[3].Value)
	raw, ok := row.Cells[3].RawValue.(decimal.Decimal)
	require.True(t, ok)
	assert.True(t, raw.Equal(entry.Amount))
}

func TestRowFromEntry_IndexColumnSkipsCurrencyRule(t *testing.T) {
	f := &services.RowFormatter{}
	entry := &domain.RawEntry{Name: "PAY-001", Index: "7"}

	row := f.RowFromEntry(entry, paymentColumns)
	assert.Equal(t, "7", row.Cells[0].Value)
}

func TestRowFromEntry_MissingValuesRenderEmpty(t *testing.T) {
	f := &services.RowFormatter{}
	entry := &domain.RawEntry{Name: "PAY-001"}

	row := f.RowFromEntry(entry, []domain.ColumnField{
		{Label: "Date", Fieldtype: domain.FieldTypeDate, Fieldname: domain.FieldDate},
		{Label: "Clearance Date", Fieldtype: domain.FieldTypeDate, Fieldname: domain.FieldClearanceDate},
	})

	assert.Equal(t, "", row.Cells[0].Value)
	assert.Nil(t, row.Cells[0].RawValue)
	assert.Equal(t, "", row.Cells[1].Value)
}

func TestRowFromEntry_RevertedMarkerIsScopedToRevertedField(t *testing.T) {
	f := &services.RowFormatter{}

	row := f.RowFromEntry(&domain.RawEntry{Name: "PAY-001", Reverted: true}, paymentColumns)
	assert.Equal(t, "Reverted", row.Cells[4].Value)
	assert.Equal(t, true, row.Cells[4].RawValue)

	row = f.RowFromEntry(&domain.RawEntry{Name: "PAY-002", Reverted: false}, paymentColumns)
	assert.Equal(t, "", row.Cells[4].Value)
}

func TestRowFromEntry_OtherBooleansUseGenericCoercion(t *testing.T) {
	// A hypothetical boolean column outside reverted falls through to
	// strconv-style rendering, confirming the marker special case is scoped.
	formatted := services.FormatRowValueForTest(true, domain.ColumnField{Fieldname: "submitted", Fieldtype: domain.FieldTypeCheck})
	assert.Equal(t, "true", formatted)

	formatted = services.FormatRowValueForTest(false, domain.ColumnField{Fieldname: "submitted", Fieldtype: domain.FieldTypeCheck})
	assert.Equal(t, "false", formatted)
}

func TestRowFromEntry_ReferenceTypeResolvesSchemaLabel(t *testing.T) {
	f := &services.RowFormatter{
		SchemaLabel: func(schema string) (string, bool) {
			if schema == domain.SchemaSalesInvoice {
				return "Sales Invoice", true
			}
			return "", false
		},
	}

	entry := &domain.RawEntry{Name: "PAY-001", ReferenceType: domain.SchemaSalesInvoice}
	row := f.RowFromEntry(entry, paymentColumns)
	assert.Equal(t, "Sales Invoice", row.Cells[5].Value)
	assert.Equal(t, domain.SchemaSalesInvoice, row.Cells[5].RawValue)

	// Unknown schemas stay as-is.
	entry = &domain.RawEntry{Name: "PAY-002", ReferenceType: "CreditNote"}
	row = f.RowFromEntry(entry, paymentColumns)
	assert.Equal(t, "CreditNote", row.Cells[5].Value)
}

func TestRowFromEntry_SentinelStyles(t *testing.T) {
	f := &services.RowFormatter{}

	row := f.RowFromEntry(&domain.RawEntry{Sentinel: domain.SentinelTotal, PaymentNo: "Total (Receive)"}, paymentColumns)
	for _, cell := range row.Cells {
		assert.True(t, cell.Bold)
		assert.False(t, cell.Italic)
	}

	row = f.RowFromEntry(&domain.RawEntry{Sentinel: domain.SentinelExcluded, Name: "PAY-001"}, paymentColumns)
	for _, cell := range row.Cells {
		assert.True(t, cell.Italic)
		assert.False(t, cell.Bold)
	}
}

func TestRowFromEntry_SpacerShortCircuits(t *testing.T) {
	f := &services.RowFormatter{}

	row := f.RowFromEntry(&domain.RawEntry{Sentinel: domain.SentinelSpacer}, paymentColumns)
	assert.True(t, row.IsEmpty)
	require.Len(t, row.Cells, len(paymentColumns))
	assert.Equal(t, 0.5, row.Cells[0].Width)
	assert.Equal(t, 1.0, row.Cells[1].Width)
	for _, cell := range row.Cells {
		assert.Equal(t, "", cell.Value)
	}
}

func TestRowFromEntry_DefaultAlignAndWidth(t *testing.T) {
	f := &services.RowFormatter{}
	row := f.RowFromEntry(&domain.RawEntry{Name: "PAY-001"}, paymentColumns)

	assert.Equal(t, "right", row.Cells[0].Align)
	assert.Equal(t, 0.5, row.Cells[0].Width)
	assert.Equal(t, "left", row.Cells[1].Align)
	assert.Equal(t, 1.0, row.Cells[1].Width)
}
