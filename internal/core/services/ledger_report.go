package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ledgerlite/ledger_reports_app/internal/apperrors"
	"github.com/ledgerlite/ledger_reports_app/internal/core/domain"
	portsrepo "github.com/ledgerlite/ledger_reports_app/internal/core/ports/repositories"
	portssvc "github.com/ledgerlite/ledger_reports_app/internal/core/ports/services"
	"github.com/ledgerlite/ledger_reports_app/internal/platform/events"
	"github.com/shopspring/decimal"
)

// ReportKind selects the raw-data pipeline of a directional ledger report.
type ReportKind string

const (
	// KindPaymentLedger lists individual payment entries (Collections,
	// Payments).
	KindPaymentLedger ReportKind = "paymentLedger"
	// KindOutstanding nets sales against purchase invoices per counterparty
	// (Receivable, Payable).
	KindOutstanding ReportKind = "outstanding"
)

// ReportConfig parametrizes one directional ledger report. The four report
// variants are configurations of a single implementation, not subclasses;
// the references join is a feature flag rather than a per-variant fork.
type ReportConfig struct {
	Name           string
	Title          string
	Direction      domain.Direction
	PartyType      domain.PartyRole
	Kind           ReportKind
	JoinReferences bool
}

// ledgerReport is the report façade. One instance serves one report session
// and is not safe for concurrent use: SetReportData must not be re-entered
// while a prior invocation is outstanding. Callers serialize access.
type ledgerReport struct {
	BaseService

	cfg       ReportConfig
	fetcher   portsrepo.RecordFetcher
	formatter RowFormatter

	params portssvc.ReportParams

	rawData       []*domain.RawEntry
	hasRawData    bool
	reportData    domain.ReportData
	loading       bool
	shouldRefresh bool
}

var _ portssvc.ReportService = (*ledgerReport)(nil)

// newLedgerReport builds one report variant and registers its staleness
// observers on the bus.
func newLedgerReport(cfg ReportConfig, fetcher portsrepo.RecordFetcher, bus *events.Bus) *ledgerReport {
	r := &ledgerReport{
		cfg:       cfg,
		fetcher:   fetcher,
		formatter: RowFormatter{SchemaLabel: fetcher.SchemaLabel},
	}
	r.setObservers(bus)
	return r
}

// NewCollectionsReport lists received payments for the period.
func NewCollectionsReport(fetcher portsrepo.RecordFetcher, bus *events.Bus) portssvc.ReportService {
	return newLedgerReport(ReportConfig{
		Name:           "collections",
		Title:          "Collection",
		Direction:      domain.DirectionReceive,
		PartyType:      domain.RoleCustomer,
		Kind:           KindPaymentLedger,
		JoinReferences: true,
	}, fetcher, bus)
}

// NewPaymentsReport lists outgoing payments for the period.
func NewPaymentsReport(fetcher portsrepo.RecordFetcher, bus *events.Bus) portssvc.ReportService {
	return newLedgerReport(ReportConfig{
		Name:           "payments",
		Title:          "Payment",
		Direction:      domain.DirectionPay,
		PartyType:      domain.RoleSupplier,
		Kind:           KindPaymentLedger,
		JoinReferences: true,
	}, fetcher, bus)
}

// NewReceivableReport nets customer outstanding balances.
func NewReceivableReport(fetcher portsrepo.RecordFetcher, bus *events.Bus) portssvc.ReportService {
	return newLedgerReport(ReportConfig{
		Name:      "receivable",
		Title:     "Receivable",
		Direction: domain.DirectionReceive,
		PartyType: domain.RoleCustomer,
		Kind:      KindOutstanding,
	}, fetcher, bus)
}

// NewPayableReport nets supplier outstanding balances.
func NewPayableReport(fetcher portsrepo.RecordFetcher, bus *events.Bus) portssvc.ReportService {
	return newLedgerReport(ReportConfig{
		Name:      "payable",
		Title:     "Payable",
		Direction: domain.DirectionPay,
		PartyType: domain.RoleSupplier,
		Kind:      KindOutstanding,
	}, fetcher, bus)
}

// setObservers subscribes to change notifications for the schemas this
// report reads. Listeners only flag staleness; the actual refetch waits for
// the next SetReportData call.
func (r *ledgerReport) setObservers(bus *events.Bus) {
	if bus == nil {
		return
	}
	listener := func() { r.shouldRefresh = true }

	var schemas []string
	switch r.cfg.Kind {
	case KindPaymentLedger:
		schemas = []string{domain.SchemaPayment}
	case KindOutstanding:
		schemas = []string{domain.SchemaParty, domain.SchemaSalesInvoice, domain.SchemaPurchaseInvoice}
	}
	for _, schema := range schemas {
		bus.On(events.SyncTopic(schema), listener)
		bus.On(events.DeleteTopic(schema), listener)
	}
}

func (r *ledgerReport) Name() string  { return r.cfg.Name }
func (r *ledgerReport) Title() string { return r.cfg.Title }

func (r *ledgerReport) ReportData() domain.ReportData { return r.reportData }
func (r *ledgerReport) Loading() bool                 { return r.loading }

// ApplyFilters replaces the stored filter parameters and marks cached data
// stale when they changed. Nil dates mean "keep current": stored bounds,
// defaulted or explicit, persist until the caller sends new ones, so a
// request that omits dates compares equal to the previous one.
func (r *ledgerReport) ApplyFilters(p portssvc.ReportParams) {
	if p.FromDate == nil {
		p.FromDate = r.params.FromDate
	}
	if p.ToDate == nil {
		p.ToDate = r.params.ToDate
	}
	if !paramsEqual(r.params, p) {
		r.shouldRefresh = true
	}
	r.params = p
}

// paramsEqual compares only the fetch-affecting parameters. GroupBy and
// Ascending reshape cached entries in memory and never require a refetch on
// their own.
func paramsEqual(a, b portssvc.ReportParams) bool {
	return a.Party == b.Party &&
		a.Reverted == b.Reverted &&
		timePtrEqual(a.FromDate, b.FromDate) &&
		timePtrEqual(a.ToDate, b.ToDate)
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// SetDefaultFilters fills unset date bounds with the report's default
// window: payment ledgers look one year back through tomorrow, outstanding
// reports only bound the upper end. Defaults are truncated to day
// granularity so two defaulted refreshes carry identical bounds.
func (r *ledgerReport) SetDefaultFilters() {
	if r.params.ToDate != nil {
		return
	}
	today := dayStart(time.Now())
	toDate := today.AddDate(0, 0, 1)
	r.params.ToDate = &toDate
	if r.cfg.Kind == KindPaymentLedger {
		fromDate := today.AddDate(-1, 0, 0)
		r.params.FromDate = &fromDate
	}
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SetReportData runs one refresh cycle: decide whether to refetch, group,
// index, consolidate, format, publish. The loading flag is reset on every
// path, including fetch failure, and a failed fetch leaves the previously
// published rows intact.
func (r *ledgerReport) SetReportData(ctx context.Context, mode string, force bool) error {
	r.loading = true
	defer func() { r.loading = false }()

	sort := true
	if force || mode != portssvc.ViewGrouped || !r.hasRawData || r.shouldRefresh {
		if err := r.setRawData(ctx); err != nil {
			r.LogError(ctx, err, "Failed to refresh report data",
				slog.String("report", r.cfg.Name))
			return err
		}
		r.shouldRefresh = false
		// Fetch already delivered storage order; skip the re-sort.
		sort = false
	}

	m := GroupEntries(r.rawData, r.params.GroupBy, GroupOptions{
		Sort:           sort,
		Ascending:      r.params.Ascending,
		Magnitude:      r.magnitude,
		NewTotalsEntry: r.newTotalsEntry,
	})
	AssignIndices(m)

	entries := ConsolidateEntries(m)
	reportData := make(domain.ReportData, 0, len(entries))
	columns := r.GetColumns()
	for _, entry := range entries {
		reportData = append(reportData, r.formatter.RowFromEntry(entry, columns))
	}
	r.reportData = reportData

	r.LogDebug(ctx, "Report data refreshed",
		slog.String("report", r.cfg.Name),
		slog.Int("row_count", len(reportData)))
	return nil
}

func (r *ledgerReport) setRawData(ctx context.Context) error {
	var (
		entries []*domain.RawEntry
		err     error
	)
	switch r.cfg.Kind {
	case KindOutstanding:
		entries, err = r.fetchOutstandingEntries(ctx)
	default:
		entries, err = r.fetchPaymentEntries(ctx)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrFetchFailed, err)
	}
	r.rawData = entries
	r.hasRawData = true
	return nil
}

// magnitude selects the decimal field the grand total accumulates. All
// monetary sums route through decimal exclusively.
func (r *ledgerReport) magnitude(e *domain.RawEntry) decimal.Decimal {
	if r.cfg.Kind == KindOutstanding {
		return e.OutstandingAmount
	}
	return e.Amount
}

func (r *ledgerReport) newTotalsEntry(total decimal.Decimal) *domain.RawEntry {
	entry := &domain.RawEntry{Sentinel: domain.SentinelTotal}
	if r.cfg.Kind == KindOutstanding {
		entry.Party = "Total"
		entry.OutstandingAmount = total
		return entry
	}
	entry.PaymentNo = fmt.Sprintf("Total (%s)", r.cfg.Direction)
	entry.Amount = total
	return entry
}

// GetColumns returns the column set of the report variant.
func (r *ledgerReport) GetColumns() []domain.ColumnField {
	if r.cfg.Kind == KindOutstanding {
		return []domain.ColumnField{
			{Label: "#", Fieldtype: domain.FieldTypeInt, Fieldname: domain.FieldIndex, Align: "right", Width: 0.5},
			{Label: "Party", Fieldtype: domain.FieldTypeLink, Fieldname: domain.FieldParty},
			{Label: "Email", Fieldtype: domain.FieldTypeData, Fieldname: domain.FieldEmail, Width: 1.25},
			{Label: "Phone", Fieldtype: domain.FieldTypeData, Fieldname: domain.FieldPhone},
			{Label: "Address", Fieldtype: domain.FieldTypeData, Fieldname: domain.FieldAddress},
			{Label: "Outstanding Amount", Fieldtype: domain.FieldTypeCurrency, Fieldname: domain.FieldOutstandingAmount},
			{Label: "Currency", Fieldtype: domain.FieldTypeData, Fieldname: domain.FieldCurrency},
		}
	}
	return []domain.ColumnField{
		{Label: "#", Fieldtype: domain.FieldTypeInt, Fieldname: domain.FieldIndex, Align: "right", Width: 0.5},
		{Label: "Date", Fieldtype: domain.FieldTypeDate, Fieldname: domain.FieldDate},
		{Label: r.cfg.Title + " No", Fieldtype: domain.FieldTypeLink, Fieldname: domain.FieldPaymentNo, Target: domain.SchemaPayment, Width: 1.5},
		{Label: "Party", Fieldtype: domain.FieldTypeLink, Fieldname: domain.FieldParty, Target: domain.SchemaParty},
		{Label: "Payment Method", Fieldtype: domain.FieldTypeLink, Fieldname: domain.FieldPaymentMethod, Width: 1.25},
		{Label: "From Account", Fieldtype: domain.FieldTypeLink, Fieldname: domain.FieldAccount},
		{Label: "Clearance Date", Fieldtype: domain.FieldTypeDate, Fieldname: domain.FieldClearanceDate},
		{Label: "Ref. / Cheque No.", Fieldtype: domain.FieldTypeData, Fieldname: domain.FieldReferenceID},
		{Label: "Reference Date", Fieldtype: domain.FieldTypeDate, Fieldname: domain.FieldReferenceDate},
		{Label: "Amount", Fieldtype: domain.FieldTypeCurrency, Fieldname: domain.FieldAmount},
		{Label: "Reference Invoice", Fieldtype: domain.FieldTypeLink, Fieldname: domain.FieldReferences, Target: domain.SchemaSalesInvoice},
	}
}

// GetFilters returns the filter controls the display layer should offer for
// this variant.
func (r *ledgerReport) GetFilters() []domain.FieldDescriptor {
	filters := []domain.FieldDescriptor{
		{Fieldtype: domain.FieldTypeLink, Target: domain.SchemaParty, Label: "Party", Placeholder: "Party", Fieldname: domain.FieldParty},
	}
	if r.cfg.Kind == KindPaymentLedger {
		filters = append(filters,
			domain.FieldDescriptor{Fieldtype: domain.FieldTypeDate, Label: "From Date", Placeholder: "From Date", Fieldname: "fromDate"},
		)
	}
	filters = append(filters,
		domain.FieldDescriptor{Fieldtype: domain.FieldTypeDate, Label: "To Date", Placeholder: "To Date", Fieldname: "toDate"},
	)
	if r.cfg.Kind == KindPaymentLedger {
		filters = append(filters,
			domain.FieldDescriptor{Fieldtype: domain.FieldTypeCheck, Label: "Include Cancelled", Fieldname: domain.FieldReverted},
			domain.FieldDescriptor{Fieldtype: domain.FieldTypeCheck, Label: "Ascending Order", Fieldname: "ascending"},
		)
	}
	return filters
}
