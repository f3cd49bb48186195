package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledgerlite/ledger_reports_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// fetchPaymentEntries loads the payment ledger rows for Collections and
// Payments: one entry per payment in the period, amounts normalized to
// non-negative magnitudes, optionally joined with its invoice references.
func (r *ledgerReport) fetchPaymentEntries(ctx context.Context) ([]*domain.RawEntry, error) {
	order := domain.OrderDesc
	if r.params.Ascending {
		order = domain.OrderAsc
	}

	records, err := r.fetcher.FetchRecords(ctx, domain.SchemaPayment, domain.RecordQuery{
		Filters: r.buildPaymentFilters(),
		OrderBy: []string{domain.FieldDate, "created"},
		Order:   order,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching payments: %w", err)
	}

	references := map[string][]string{}
	if r.cfg.JoinReferences && len(records) > 0 {
		names := make([]string, 0, len(records))
		for _, record := range records {
			names = append(names, recordString(record, domain.FieldName))
		}
		refRecords, err := r.fetcher.FetchRecords(ctx, domain.SchemaPaymentFor, domain.RecordQuery{
			Fields:  []string{"parent", "referenceName"},
			Filters: domain.FilterSet{"parent": {{Op: domain.OpIn, Value: names}}},
		})
		if err != nil {
			return nil, fmt.Errorf("fetching payment references: %w", err)
		}
		for _, record := range refRecords {
			parent := recordString(record, "parent")
			references[parent] = append(references[parent], recordString(record, "referenceName"))
		}
	}

	entries := make([]*domain.RawEntry, 0, len(records))
	for _, record := range records {
		name := recordString(record, domain.FieldName)
		entries = append(entries, &domain.RawEntry{
			Name:          name,
			PaymentNo:     name,
			Date:          recordTime(record, domain.FieldDate),
			Amount:        recordDecimal(record, domain.FieldAmount).Abs(),
			Party:         recordString(record, domain.FieldParty),
			Account:       recordString(record, domain.FieldAccount),
			PaymentMethod: recordString(record, domain.FieldPaymentMethod),
			ClearanceDate: recordTime(record, domain.FieldClearanceDate),
			ReferenceID:   recordString(record, domain.FieldReferenceID),
			ReferenceDate: recordTime(record, domain.FieldReferenceDate),
			Reverted:      recordBool(record, domain.FieldReverted),
			Reverts:       recordString(record, domain.FieldReverts),
			References:    strings.Join(references[name], ", "),
		})
	}
	return entries, nil
}

// buildPaymentFilters translates the stored report parameters into the
// predicate set of the payment fetch. Unset parameters are omitted entirely;
// the date bounds are inclusive and independent.
func (r *ledgerReport) buildPaymentFilters() domain.FilterSet {
	filters := domain.FilterSet{}
	if r.params.Party != "" {
		filters.Add(domain.FieldParty, domain.OpEq, r.params.Party)
	}
	if r.params.FromDate != nil {
		filters.Add(domain.FieldDate, domain.OpGte, *r.params.FromDate)
	}
	if r.params.ToDate != nil {
		filters.Add(domain.FieldDate, domain.OpLte, *r.params.ToDate)
	}
	// "Include Cancelled" widens the fetch to reverted payments.
	if !r.params.Reverted {
		filters.Add(domain.FieldReverted, domain.OpEq, false)
	}
	filters.Add("paymentType", domain.OpEq, string(r.cfg.Direction))
	return filters
}

// fetchOutstandingEntries loads the netting inputs for Receivable and
// Payable: the counterparty directory and the per-party outstanding
// aggregates of both invoice schemas, then nets them into one signed
// balance per party.
func (r *ledgerReport) fetchOutstandingEntries(ctx context.Context) ([]*domain.RawEntry, error) {
	directory, err := r.fetchPartyDirectory(ctx)
	if err != nil {
		return nil, err
	}

	allowed := make([]string, 0, len(directory))
	for _, party := range directory {
		allowed = append(allowed, party.Name)
	}

	salesTotals, err := r.fetchOutstandingTotals(ctx, domain.SchemaSalesInvoice, allowed)
	if err != nil {
		return nil, err
	}
	purchaseTotals, err := r.fetchOutstandingTotals(ctx, domain.SchemaPurchaseInvoice, allowed)
	if err != nil {
		return nil, err
	}

	return ComputeOutstanding(salesTotals, purchaseTotals, directory, r.cfg.PartyType), nil
}

// fetchPartyDirectory loads the counterparties this report nets over: the
// configured party type plus dual-role parties, in directory order.
func (r *ledgerReport) fetchPartyDirectory(ctx context.Context) ([]domain.Party, error) {
	records, err := r.fetcher.FetchRecords(ctx, domain.SchemaParty, domain.RecordQuery{
		Fields: []string{"name", "email", "phone", "address", "role", "currency"},
		Filters: domain.FilterSet{
			"role": {{Op: domain.OpIn, Value: []string{string(r.cfg.PartyType), string(domain.RoleBoth)}}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fetching parties: %w", err)
	}

	directory := make([]domain.Party, 0, len(records))
	for _, record := range records {
		directory = append(directory, domain.Party{
			Name:     recordString(record, "name"),
			Email:    recordString(record, "email"),
			Phone:    recordString(record, "phone"),
			Address:  recordString(record, "address"),
			Role:     domain.PartyRole(recordString(record, "role")),
			Currency: recordString(record, "currency"),
		})
	}
	return directory, nil
}

// fetchOutstandingTotals aggregates one invoice schema into per-party sums.
// Zero and negative outstanding rows are excluded here, at the source
// aggregation step; the netting engine assumes positive inputs.
func (r *ledgerReport) fetchOutstandingTotals(ctx context.Context, schema string, allowed []string) (map[string]decimal.Decimal, error) {
	records, err := r.fetcher.FetchRecords(ctx, schema, domain.RecordQuery{
		Fields:  []string{domain.FieldParty, domain.FieldOutstandingAmount},
		Filters: r.buildOutstandingFilters(allowed),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching %s outstanding amounts: %w", schema, err)
	}

	totals := make(map[string]decimal.Decimal, len(records))
	for _, record := range records {
		outstanding := recordDecimal(record, domain.FieldOutstandingAmount)
		if !outstanding.IsPositive() {
			continue
		}
		party := recordString(record, domain.FieldParty)
		totals[party] = totals[party].Add(outstanding)
	}
	return totals, nil
}

// buildOutstandingFilters constrains invoice fetches to submitted,
// non-cancelled records with positive outstanding amounts, held by a
// counterparty from the allowed directory.
func (r *ledgerReport) buildOutstandingFilters(allowed []string) domain.FilterSet {
	filters := domain.FilterSet{}
	if r.params.Party != "" {
		filters.Add(domain.FieldParty, domain.OpEq, r.params.Party)
	}
	if r.params.ToDate != nil {
		filters.Add(domain.FieldDate, domain.OpLte, *r.params.ToDate)
	}
	filters.Add("submitted", domain.OpEq, true)
	filters.Add("cancelled", domain.OpEq, false)
	filters.Add(domain.FieldParty, domain.OpIn, allowed)
	filters.Add(domain.FieldOutstandingAmount, domain.OpGt, 0)
	return filters
}
