package pgsql

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgerlite/ledger_reports_app/internal/apperrors"
	"github.com/ledgerlite/ledger_reports_app/internal/core/domain"
	portsrepo "github.com/ledgerlite/ledger_reports_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// schemaDef maps a record schema onto its storage table. fields lists the
// record field names in canonical order; columns translates each field to
// its column name.
type schemaDef struct {
	table   string
	label   string
	fields  []string
	columns map[string]string
}

var schemaRegistry = map[string]schemaDef{
	domain.SchemaPayment: {
		table: "payments",
		label: "Payment",
		fields: []string{
			"name", "date", "party", "account", "paymentType", "paymentMethod",
			"clearanceDate", "referenceId", "referenceDate", "amount",
			"reverted", "reverts", "created",
		},
		columns: map[string]string{
			"name":          "name",
			"date":          "date",
			"party":         "party",
			"account":       "account",
			"paymentType":   "payment_type",
			"paymentMethod": "payment_method",
			"clearanceDate": "clearance_date",
			"referenceId":   "reference_id",
			"referenceDate": "reference_date",
			"amount":        "amount",
			"reverted":      "reverted",
			"reverts":       "reverts",
			"created":       "created",
		},
	},
	domain.SchemaPaymentFor: {
		table:  "payment_references",
		label:  "Payment Reference",
		fields: []string{"name", "parent", "referenceType", "referenceName"},
		columns: map[string]string{
			"name":          "name",
			"parent":        "parent",
			"referenceType": "reference_type",
			"referenceName": "reference_name",
		},
	},
	domain.SchemaSalesInvoice: {
		table:  "sales_invoices",
		label:  "Sales Invoice",
		fields: []string{"name", "date", "party", "outstandingAmount", "submitted", "cancelled", "currency"},
		columns: map[string]string{
			"name":              "name",
			"date":              "date",
			"party":             "party",
			"outstandingAmount": "outstanding_amount",
			"submitted":         "submitted",
			"cancelled":         "cancelled",
			"currency":          "currency",
		},
	},
	domain.SchemaPurchaseInvoice: {
		table:  "purchase_invoices",
		label:  "Purchase Invoice",
		fields: []string{"name", "date", "party", "outstandingAmount", "submitted", "cancelled", "currency"},
		columns: map[string]string{
			"name":              "name",
			"date":              "date",
			"party":             "party",
			"outstandingAmount": "outstanding_amount",
			"submitted":         "submitted",
			"cancelled":         "cancelled",
			"currency":          "currency",
		},
	},
	domain.SchemaParty: {
		table:  "parties",
		label:  "Party",
		fields: []string{"name", "email", "phone", "address", "role", "currency"},
		columns: map[string]string{
			"name":     "name",
			"email":    "email",
			"phone":    "phone",
			"address":  "address",
			"role":     "role",
			"currency": "currency",
		},
	},
}

// recordRepository implements the RecordFetcher port over PostgreSQL.
type recordRepository struct {
	BaseRepository
}

func newRecordRepository(db *pgxpool.Pool) portsrepo.RecordFetcher {
	return &recordRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.RecordFetcher = (*recordRepository)(nil)

// SchemaLabel resolves a schema name to its display label.
func (r *recordRepository) SchemaLabel(schema string) (string, bool) {
	def, ok := schemaRegistry[schema]
	if !ok {
		return "", false
	}
	return def.label, true
}

// FetchRecords returns the rows of the named schema matching the query as
// field-keyed records.
func (r *recordRepository) FetchRecords(ctx context.Context, schema string, q domain.RecordQuery) ([]domain.RawRecord, error) {
	def, ok := schemaRegistry[schema]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q: %w", schema, apperrors.ErrNotFound)
	}

	query, fields, args, err := buildSelect(def, q)
	if err != nil {
		return nil, err
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying %s records: %w", schema, err)
	}
	defer rows.Close()

	var records []domain.RawRecord
	targets := make([]any, len(fields))
	ptrs := make([]any, len(fields))
	for i := range targets {
		ptrs[i] = &targets[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("error scanning %s record: %w", schema, err)
		}
		record := make(domain.RawRecord, len(fields))
		for i, field := range fields {
			record[field] = normalizeValue(targets[i])
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s records: %w", schema, err)
	}

	if len(records) == 0 {
		// Return empty slice instead of nil
		return []domain.RawRecord{}, nil
	}
	return records, nil
}

// buildSelect assembles the SELECT statement for a schema query. It returns
// the statement, the field names in column order, and the positional args.
func buildSelect(def schemaDef, q domain.RecordQuery) (string, []string, []any, error) {
	fields := q.Fields
	if len(fields) == 0 || (len(fields) == 1 && fields[0] == "*") {
		fields = def.fields
	}

	cols := make([]string, len(fields))
	for i, field := range fields {
		col, ok := def.columns[field]
		if !ok {
			return "", nil, nil, fmt.Errorf("unknown field %q on schema %q: %w", field, def.table, apperrors.ErrValidation)
		}
		cols[i] = col
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(def.table)

	where, args, err := buildWhere(def, q.Filters)
	if err != nil {
		return "", nil, nil, err
	}
	sb.WriteString(where)

	if len(q.OrderBy) > 0 {
		direction := "ASC"
		if q.Order == domain.OrderDesc {
			direction = "DESC"
		}
		orderCols := make([]string, len(q.OrderBy))
		for i, field := range q.OrderBy {
			col, ok := def.columns[field]
			if !ok {
				return "", nil, nil, fmt.Errorf("unknown order field %q on schema %q: %w", field, def.table, apperrors.ErrValidation)
			}
			orderCols[i] = col + " " + direction
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(orderCols, ", "))
	}

	return sb.String(), fields, args, nil
}

// buildWhere renders a FilterSet into a WHERE clause with positional args.
// Fields are emitted in sorted order so the generated SQL is deterministic.
func buildWhere(def schemaDef, filters domain.FilterSet) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	fields := make([]string, 0, len(filters))
	for field := range filters {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var (
		clauses []string
		args    []any
	)
	for _, field := range fields {
		col, ok := def.columns[field]
		if !ok {
			return "", nil, fmt.Errorf("unknown filter field %q on schema %q: %w", field, def.table, apperrors.ErrValidation)
		}
		for _, cond := range filters[field] {
			args = append(args, cond.Value)
			n := len(args)
			switch cond.Op {
			case domain.OpIn:
				clauses = append(clauses, fmt.Sprintf("%s = ANY($%d)", col, n))
			case domain.OpEq, domain.OpGt, domain.OpGte, domain.OpLte:
				clauses = append(clauses, fmt.Sprintf("%s %s $%d", col, cond.Op, n))
			default:
				return "", nil, fmt.Errorf("unsupported filter operator %q: %w", cond.Op, apperrors.ErrValidation)
			}
		}
	}

	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

// normalizeValue maps driver-level types onto the value shapes the report
// engine consumes: numeric becomes decimal, byte slices become strings.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case pgtype.Numeric:
		if !t.Valid || t.NaN || t.Int == nil {
			return decimal.Zero
		}
		return decimal.NewFromBigInt(t.Int, t.Exp)
	case []byte:
		return string(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	default:
		return v
	}
}
