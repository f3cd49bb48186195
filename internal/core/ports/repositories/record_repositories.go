package repositories

import (
	"context"

	"github.com/ledgerlite/ledger_reports_app/internal/core/domain"
)

// RecordFetcher is the storage capability the report engine consumes. The
// engine never issues SQL itself; it describes what it needs through
// RecordQuery and receives field-keyed rows back.
type RecordFetcher interface {
	// FetchRecords returns the rows of the named schema matching the query.
	FetchRecords(ctx context.Context, schema string, q domain.RecordQuery) ([]domain.RawRecord, error)

	// SchemaLabel resolves a schema name to its human display label.
	SchemaLabel(schema string) (string, bool)
}

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	RecordFetcher RecordFetcher
}
