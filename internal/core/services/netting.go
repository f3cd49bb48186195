package services

import (
	"github.com/ledgerlite/ledger_reports_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ComputeOutstanding merges two opposing per-party aggregates into one signed
// outstanding balance per counterparty. For customers the sales side adds and
// the purchase side subtracts; for suppliers the roles invert. Parties whose
// net is exactly zero are dropped. Output order follows directory order.
//
// Both input maps must already be filtered to positive outstanding amounts;
// exclusion of zero/negative source rows happens at the aggregation step, not
// here.
func ComputeOutstanding(
	salesTotals map[string]decimal.Decimal,
	purchaseTotals map[string]decimal.Decimal,
	directory []domain.Party,
	partyType domain.PartyRole,
) []*domain.RawEntry {
	add, sub := salesTotals, purchaseTotals
	if partyType != domain.RoleCustomer {
		add, sub = purchaseTotals, salesTotals
	}

	entries := make([]*domain.RawEntry, 0, len(directory))
	for _, party := range directory {
		outstanding := decimal.Zero
		if amount, ok := add[party.Name]; ok {
			outstanding = outstanding.Add(amount)
		}
		if amount, ok := sub[party.Name]; ok {
			outstanding = outstanding.Sub(amount)
		}

		if outstanding.IsZero() {
			continue
		}

		entries = append(entries, &domain.RawEntry{
			Name:              party.Name,
			Party:             party.Name,
			Email:             party.Email,
			Phone:             party.Phone,
			Address:           party.Address,
			Currency:          party.Currency,
			OutstandingAmount: outstanding,
		})
	}
	return entries
}
