package services_test

import (
	"testing"

	"github.com/ledgerlite/ledger_reports_app/internal/core/domain"
	"github.com/ledgerlite/ledger_reports_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeOutstanding_CustomerNetsSalesMinusPurchases(t *testing.T) {
	directory := []domain.Party{
		{Name: "A", Email: "a@example.com", Currency: "USD"},
		{Name: "B", Currency: "USD"},
	}
	sales := map[string]decimal.Decimal{
		"A": decimal.NewFromInt(100),
		"B": decimal.NewFromInt(20),
	}
	purchases := map[string]decimal.Decimal{
		"A": decimal.NewFromInt(40),
		"B": decimal.NewFromInt(20),
	}

	entries := services.ComputeOutstanding(sales, purchases, directory, domain.RoleCustomer)

	// B nets to exactly zero and is excluded.
	require.Len(t, entries, 1)
	assert.Equal(t, "A", entries[0].Party)
	assert.True(t, entries[0].OutstandingAmount.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, "a@example.com", entries[0].Email)
	assert.Equal(t, "USD", entries[0].Currency)
}

func TestComputeOutstanding_SupplierInvertsAddAndSubtract(t *testing.T) {
	directory := []domain.Party{{Name: "S"}}
	sales := map[string]decimal.Decimal{"S": decimal.NewFromInt(30)}
	purchases := map[string]decimal.Decimal{"S": decimal.NewFromInt(100)}

	entries := services.ComputeOutstanding(sales, purchases, directory, domain.RoleSupplier)

	require.Len(t, entries, 1)
	assert.True(t, entries[0].OutstandingAmount.Equal(decimal.NewFromInt(70)))
}

func TestComputeOutstanding_NegativeNetIsIncluded(t *testing.T) {
	// Only exact zero is dropped; an overpaid counterparty keeps its signed
	// balance.
	directory := []domain.Party{{Name: "A"}}
	sales := map[string]decimal.Decimal{"A": decimal.NewFromInt(10)}
	purchases := map[string]decimal.Decimal{"A": decimal.NewFromInt(25)}

	entries := services.ComputeOutstanding(sales, purchases, directory, domain.RoleCustomer)

	require.Len(t, entries, 1)
	assert.True(t, entries[0].OutstandingAmount.Equal(decimal.NewFromInt(-15)))
}

func TestComputeOutstanding_MissingSidesDefaultToZero(t *testing.T) {
	directory := []domain.Party{
		{Name: "OnlySales"},
		{Name: "OnlyPurchases"},
		{Name: "Neither"},
	}
	sales := map[string]decimal.Decimal{"OnlySales": decimal.RequireFromString("12.5")}
	purchases := map[string]decimal.Decimal{"OnlyPurchases": decimal.RequireFromString("7.25")}

	entries := services.ComputeOutstanding(sales, purchases, directory, domain.RoleCustomer)

	require.Len(t, entries, 2)
	assert.Equal(t, "OnlySales", entries[0].Party)
	assert.True(t, entries[0].OutstandingAmount.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, "OnlyPurchases", entries[1].Party)
	assert.True(t, entries[1].OutstandingAmount.Equal(decimal.RequireFromString("-7.25")))
}

func TestComputeOutstanding_OutputFollowsDirectoryOrder(t *testing.T) {
	directory := []domain.Party{{Name: "Z"}, {Name: "M"}, {Name: "A"}}
	sales := map[string]decimal.Decimal{
		"A": decimal.NewFromInt(1),
		"M": decimal.NewFromInt(2),
		"Z": decimal.NewFromInt(3),
	}

	entries := services.ComputeOutstanding(sales, nil, directory, domain.RoleCustomer)

	require.Len(t, entries, 3)
	assert.Equal(t, "Z", entries[0].Party)
	assert.Equal(t, "M", entries[1].Party)
	assert.Equal(t, "A", entries[2].Party)
}
