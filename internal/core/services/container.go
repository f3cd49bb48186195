package services

import (
	portsrepo "github.com/ledgerlite/ledger_reports_app/internal/core/ports/repositories"
	portssvc "github.com/ledgerlite/ledger_reports_app/internal/core/ports/services"
	"github.com/ledgerlite/ledger_reports_app/internal/platform/events"
)

// Container holds the report variants and manages their dependencies.
type Container struct {
	// Reports maps report name to its long-lived service instance.
	Reports map[string]portssvc.ReportService

	// Order is the display order of report names.
	Order []string
}

// NewContainer creates a new service container with properly initialized
// report variants sharing one record fetcher and one event bus.
func NewContainer(repos *portsrepo.RepositoryProvider, bus *events.Bus) *Container {
	variants := []portssvc.ReportService{
		NewCollectionsReport(repos.RecordFetcher, bus),
		NewPaymentsReport(repos.RecordFetcher, bus),
		NewReceivableReport(repos.RecordFetcher, bus),
		NewPayableReport(repos.RecordFetcher, bus),
	}

	container := &Container{Reports: make(map[string]portssvc.ReportService, len(variants))}
	for _, report := range variants {
		report.SetDefaultFilters()
		container.Reports[report.Name()] = report
		container.Order = append(container.Order, report.Name())
	}
	return container
}
