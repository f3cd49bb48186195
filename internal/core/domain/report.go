package domain

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// FieldType is the semantic type of a report column or filter field.
type FieldType string

const (
	FieldTypeLink     FieldType = "Link"
	FieldTypeDate     FieldType = "Date"
	FieldTypeInt      FieldType = "Int"
	FieldTypeCurrency FieldType = "Currency"
	FieldTypeData     FieldType = "Data"
	FieldTypeCheck    FieldType = "Check"
)

// Sentinel marks synthetic report entries that do not correspond to a stored
// record. The numeric values mirror the reserved identifiers used by the
// display layer (-1 excluded, -2 total, -3 spacer).
type Sentinel int

const (
	SentinelNone     Sentinel = 0
	SentinelExcluded Sentinel = -1
	SentinelTotal    Sentinel = -2
	SentinelSpacer   Sentinel = -3
)

// GroupByKey selects the partition dimension for a grouped report view.
type GroupByKey string

const (
	GroupByNone      GroupByKey = "none"
	GroupByName      GroupByKey = "name"
	GroupByAccount   GroupByKey = "account"
	GroupByParty     GroupByKey = "party"
	GroupByReference GroupByKey = "referenceName"
)

// Valid reports whether k is one of the supported grouping dimensions.
func (k GroupByKey) Valid() bool {
	switch k {
	case GroupByNone, GroupByName, GroupByAccount, GroupByParty, GroupByReference:
		return true
	}
	return false
}

// Field names addressable through RawEntry.Field. Columns and grouping refer
// to entries by these names only.
const (
	FieldIndex             = "index"
	FieldName              = "name"
	FieldDate              = "date"
	FieldAmount            = "amount"
	FieldOutstandingAmount = "outstandingAmount"
	FieldParty             = "party"
	FieldAccount           = "account"
	FieldPaymentNo         = "paymentNo"
	FieldPaymentMethod     = "paymentMethod"
	FieldClearanceDate     = "clearanceDate"
	FieldReferenceID       = "referenceId"
	FieldReferenceDate     = "referenceDate"
	FieldReferenceType     = "referenceType"
	FieldReferences        = "references"
	FieldReverted          = "reverted"
	FieldReverts           = "reverts"
	FieldEmail             = "email"
	FieldPhone             = "phone"
	FieldAddress           = "address"
	FieldCurrency          = "currency"
)

// RawEntry is one source record after fetch and directional normalization,
// before formatting. Amount and OutstandingAmount are stored as non-negative
// magnitudes; sign and direction are carried by the record type and report
// configuration, never by a negative value.
type RawEntry struct {
	Name     string
	Sentinel Sentinel

	Date              *time.Time
	Amount            decimal.Decimal
	OutstandingAmount decimal.Decimal
	Party             string
	Account           string

	PaymentNo     string
	PaymentMethod string
	ClearanceDate *time.Time
	ReferenceID   string
	ReferenceDate *time.Time
	ReferenceType string
	References    string
	Reverted      bool
	Reverts       string

	Email    string
	Phone    string
	Address  string
	Currency string

	// Index is the 1-based display position, assigned after grouping.
	Index string
}

// Field returns the value carried under the given report field name. The
// second return is false for names outside the validated set. Nil-able
// values (dates) come back as untyped nil when unset.
func (e *RawEntry) Field(name string) (any, bool) {
	switch name {
	case FieldIndex:
		return e.Index, true
	case FieldName:
		return e.Name, true
	case FieldDate:
		return timeValue(e.Date), true
	case FieldAmount:
		return e.Amount, true
	case FieldOutstandingAmount:
		return e.OutstandingAmount, true
	case FieldParty:
		return e.Party, true
	case FieldAccount:
		return e.Account, true
	case FieldPaymentNo:
		return e.PaymentNo, true
	case FieldPaymentMethod:
		return e.PaymentMethod, true
	case FieldClearanceDate:
		return timeValue(e.ClearanceDate), true
	case FieldReferenceID:
		return e.ReferenceID, true
	case FieldReferenceDate:
		return timeValue(e.ReferenceDate), true
	case FieldReferenceType:
		return e.ReferenceType, true
	case FieldReferences:
		return e.References, true
	case FieldReverted:
		return e.Reverted, true
	case FieldReverts:
		return e.Reverts, true
	case FieldEmail:
		return e.Email, true
	case FieldPhone:
		return e.Phone, true
	case FieldAddress:
		return e.Address, true
	case FieldCurrency:
		return e.Currency, true
	}
	return nil, false
}

// GroupValue returns the partition key of the entry for the given grouping
// dimension. GroupByNone falls back to the entry identity.
func (e *RawEntry) GroupValue(key GroupByKey) string {
	switch key {
	case GroupByAccount:
		return e.Account
	case GroupByParty:
		return e.Party
	case GroupByReference:
		return e.References
	default:
		return e.Name
	}
}

func timeValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

// TotalsKey is the reserved grouping key under which the synthetic totals
// entry is appended. It is always the last key of a GroupedMap.
const TotalsKey = "totals"

// GroupedMap is an insertion-ordered mapping from a grouping-key value to the
// entries of that group. Iteration order equals first-seen order of the
// underlying entries, with the totals key appended last when present.
type GroupedMap struct {
	keys   []string
	groups map[string][]*RawEntry
}

func NewGroupedMap() *GroupedMap {
	return &GroupedMap{groups: make(map[string][]*RawEntry)}
}

// Append adds entries to the named group, creating it at the end of the key
// order on first use.
func (m *GroupedMap) Append(key string, entries ...*RawEntry) {
	if _, ok := m.groups[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.groups[key] = append(m.groups[key], entries...)
}

// Keys returns the group keys in insertion order.
func (m *GroupedMap) Keys() []string {
	return m.keys
}

// Get returns the entries of the named group, nil if absent.
func (m *GroupedMap) Get(key string) []*RawEntry {
	return m.groups[key]
}

// Len returns the total number of entries across all groups.
func (m *GroupedMap) Len() int {
	n := 0
	for _, entries := range m.groups {
		n += len(entries)
	}
	return n
}

// ColumnField describes one report column for the display layer.
type ColumnField struct {
	Fieldname string    `json:"fieldname"`
	Label     string    `json:"label"`
	Fieldtype FieldType `json:"fieldtype"`
	Align     string    `json:"align,omitempty"`
	Width     float64   `json:"width,omitempty"`
	Target    string    `json:"target,omitempty"`
}

// FieldDescriptor describes one user-facing report filter control.
type FieldDescriptor struct {
	Fieldname   string    `json:"fieldname"`
	Label       string    `json:"label"`
	Fieldtype   FieldType `json:"fieldtype"`
	Placeholder string    `json:"placeholder,omitempty"`
	Target      string    `json:"target,omitempty"`
}

// Cell is one rendered report cell. Value is the display string; RawValue
// keeps the untransformed source value for numeric sort and export.
type Cell struct {
	Value    string
	RawValue any
	Align    string
	Width    float64
	Bold     bool
	Italic   bool
}

// ReportRow is one rendered row. Spacer rows carry IsEmpty and width-only
// cells.
type ReportRow struct {
	Cells   []Cell
	IsEmpty bool
}

// ReportData is the ordered row sequence published to the display layer.
type ReportData []ReportRow

// Action is an opaque report action (export targets) runnable by the display
// layer. Run streams the action output to w.
type Action struct {
	Name      string
	Label     string
	Extension string
	Run       func(ctx context.Context, w io.Writer) error
}
