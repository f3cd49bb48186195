package pgsql

import (
	portsrepo "github.com/ledgerlite/ledger_reports_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		RecordFetcher: newRecordRepository(dbPool),
	}
}
