package services

import (
	"context"
	"time"

	"github.com/ledgerlite/ledger_reports_app/internal/core/domain"
)

// ReportParams are the user-settable filter parameters of a report. They
// persist on the report instance across refreshes until changed; nil/empty
// values mean "not set" and are omitted from fetch filters entirely.
type ReportParams struct {
	Party    string
	FromDate *time.Time
	ToDate   *time.Time

	// Reverted includes reverted payments in the fetch ("Include
	// Cancelled"); unset, only live payments are listed.
	Reverted bool

	GroupBy   domain.GroupByKey
	Ascending bool
}

// ReportService is the read-side report contract exposed to the display
// layer. A report instance is long-lived for a report session and is not
// safe for concurrent use; callers must not re-enter SetReportData while a
// prior invocation is outstanding.
type ReportService interface {
	// Name returns the stable report identifier used in routes.
	Name() string

	// Title returns the display title of the report.
	Title() string

	// GetColumns returns the column descriptors of the report.
	GetColumns() []domain.ColumnField

	// GetFilters returns the filter controls the display layer should offer.
	GetFilters() []domain.FieldDescriptor

	// SetDefaultFilters fills unset date parameters with the report's
	// default window.
	SetDefaultFilters()

	// ApplyFilters replaces the stored filter parameters. A change marks the
	// cached raw data stale so the next SetReportData refetches.
	ApplyFilters(p ReportParams)

	// SetReportData refreshes ReportData. mode "grouped" reuses cached raw
	// entries when nothing else forces a refetch; force always refetches.
	// On fetch failure the previously published rows stay intact.
	SetReportData(ctx context.Context, mode string, force bool) error

	// ReportData returns the rows published by the last successful refresh.
	ReportData() domain.ReportData

	// Loading reports whether a refresh is in progress.
	Loading() bool

	// GetActions returns the export actions of the report.
	GetActions() []domain.Action
}

// ViewGrouped is the SetReportData mode under which cached raw entries may be
// reused without a refetch.
const ViewGrouped = "grouped"
