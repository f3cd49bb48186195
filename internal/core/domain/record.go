package domain

// Schema names of the record sets the report engine reads. The fetcher
// adapter maps these to storage tables.
const (
	SchemaPayment         = "Payment"
	SchemaPaymentFor      = "PaymentFor"
	SchemaSalesInvoice    = "SalesInvoice"
	SchemaPurchaseInvoice = "PurchaseInvoice"
	SchemaParty           = "Party"
)

// Operator is a filter comparison operator understood by the record fetcher.
type Operator string

const (
	OpEq  Operator = "="
	OpGt  Operator = ">"
	OpGte Operator = ">="
	OpLte Operator = "<="
	OpIn  Operator = "in"
)

// Condition is one predicate applied to a record field.
type Condition struct {
	Op    Operator
	Value any
}

// FilterSet maps a record field name to the predicates constraining it. A
// field absent from the set is unconstrained; builders never emit empty
// conditions for unset parameters.
type FilterSet map[string][]Condition

// Add appends a predicate for the given field.
func (f FilterSet) Add(field string, op Operator, value any) {
	f[field] = append(f[field], Condition{Op: op, Value: value})
}

// SortOrder is the fetch ordering direction.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// RecordQuery describes one fetch against a record schema. An empty Fields
// list selects every field the schema defines.
type RecordQuery struct {
	Fields  []string
	Filters FilterSet
	OrderBy []string
	Order   SortOrder
}

// RawRecord is one fetched row, keyed by record field name.
type RawRecord map[string]any
