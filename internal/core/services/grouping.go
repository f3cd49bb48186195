package services

import (
	"sort"
	"strconv"
	"time"

	"github.com/ledgerlite/ledger_reports_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GroupOptions parametrizes one grouping pass. Magnitude selects the signed
// magnitude field the grand total accumulates; NewTotalsEntry builds the
// synthetic totals entry for the computed total.
type GroupOptions struct {
	Sort           bool
	Ascending      bool
	Magnitude      func(*domain.RawEntry) decimal.Decimal
	NewTotalsEntry func(total decimal.Decimal) *domain.RawEntry
}

// GroupEntries partitions entries by the given dimension, sums the grand
// total across all entries regardless of group, and appends the synthetic
// totals group last. GroupByNone and empty keys fall back to entry identity.
// When opts.Sort is set entries are stably sorted by date first; callers
// skip the sort when the fetch step already delivered storage order.
func GroupEntries(entries []*domain.RawEntry, key domain.GroupByKey, opts GroupOptions) *domain.GroupedMap {
	if key == "" || key == domain.GroupByNone {
		key = domain.GroupByName
	}

	if opts.Sort {
		sortEntriesByDate(entries, opts.Ascending)
	}

	m := partitionEntries(entries, key)
	total := sumMagnitude(entries, opts.Magnitude)
	m.Append(domain.TotalsKey, opts.NewTotalsEntry(total))
	return m
}

// partitionEntries splits entries into a GroupedMap keyed by the grouping
// dimension, preserving first-seen order. A stored value colliding with the
// reserved totals key is shifted to a private key so it cannot merge into
// the synthetic totals group; group keys order entries and are never
// rendered.
func partitionEntries(entries []*domain.RawEntry, key domain.GroupByKey) *domain.GroupedMap {
	m := domain.NewGroupedMap()
	for _, entry := range entries {
		k := entry.GroupValue(key)
		if k == domain.TotalsKey {
			k = "\x00" + domain.TotalsKey
		}
		m.Append(k, entry)
	}
	return m
}

// sumMagnitude reduces entries to their exact decimal sum. Kept separate
// from partitioning so the totals formula is independently testable.
func sumMagnitude(entries []*domain.RawEntry, magnitude func(*domain.RawEntry) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range entries {
		total = total.Add(magnitude(entry))
	}
	return total
}

func sortEntriesByDate(entries []*domain.RawEntry, ascending bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entryDate(entries[i]), entryDate(entries[j])
		if ascending {
			return a.Before(b)
		}
		return b.Before(a)
	})
}

func entryDate(e *domain.RawEntry) time.Time {
	if e.Date == nil {
		return time.Time{}
	}
	return *e.Date
}

// AssignIndices walks the map in iteration order and assigns sequential
// 1-based display indices to every entry, totals group included. It must run
// after grouping and before consolidation, exactly once per refresh.
func AssignIndices(m *domain.GroupedMap) {
	i := 1
	for _, key := range m.Keys() {
		for _, entry := range m.Get(key) {
			entry.Index = strconv.Itoa(i)
			i++
		}
	}
}

// ConsolidateEntries flattens the map into a single ordered sequence,
// concatenating the groups in map order.
func ConsolidateEntries(m *domain.GroupedMap) []*domain.RawEntry {
	entries := make([]*domain.RawEntry, 0, m.Len())
	for _, key := range m.Keys() {
		entries = append(entries, m.Get(key)...)
	}
	return entries
}
