package dto

import (
	"github.com/ledgerlite/ledger_reports_app/internal/core/domain"
)

// ReportListItemResponse identifies one available report.
type ReportListItemResponse struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// ColumnFieldResponse describes one report column for the display layer.
type ColumnFieldResponse struct {
	Fieldname string  `json:"fieldname"`
	Label     string  `json:"label"`
	Fieldtype string  `json:"fieldtype"`
	Align     string  `json:"align,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Target    string  `json:"target,omitempty"`
}

// CellResponse carries both the display string and the untransformed raw
// value of a cell so clients can sort and export numerically.
type CellResponse struct {
	Value    string  `json:"value"`
	RawValue any     `json:"rawValue"`
	Align    string  `json:"align,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Bold     bool    `json:"bold,omitempty"`
	Italic   bool    `json:"italic,omitempty"`
}

// ReportRowResponse is one rendered report row.
type ReportRowResponse struct {
	Cells   []CellResponse `json:"cells"`
	IsEmpty bool           `json:"isEmpty,omitempty"`
}

// FilterFieldResponse describes one filter control of a report.
type FilterFieldResponse struct {
	Fieldname   string `json:"fieldname"`
	Label       string `json:"label"`
	Fieldtype   string `json:"fieldtype"`
	Placeholder string `json:"placeholder,omitempty"`
	Target      string `json:"target,omitempty"`
}

// ReportResponse is the full report payload: descriptors plus rendered rows.
type ReportResponse struct {
	Name    string                `json:"name"`
	Title   string                `json:"title"`
	Columns []ColumnFieldResponse `json:"columns"`
	Filters []FilterFieldResponse `json:"filters"`
	Rows    []ReportRowResponse   `json:"rows"`
}

// ReportQuery binds the report filter query parameters. Dates use the
// YYYY-MM-DD layout; an empty value leaves the stored parameter default.
type ReportQuery struct {
	Party     string `form:"party"`
	FromDate  string `form:"fromDate"`
	ToDate    string `form:"toDate"`
	GroupBy   string `form:"groupBy"`
	Reverted  bool   `form:"reverted"`
	Ascending bool   `form:"ascending"`
	Mode      string `form:"mode"`
	Force     bool   `form:"force"`
}

// ToReportResponse converts report descriptors and rendered rows to the
// response shape.
func ToReportResponse(name, title string, columns []domain.ColumnField, filters []domain.FieldDescriptor, data domain.ReportData) ReportResponse {
	resp := ReportResponse{
		Name:    name,
		Title:   title,
		Columns: make([]ColumnFieldResponse, 0, len(columns)),
		Filters: make([]FilterFieldResponse, 0, len(filters)),
		Rows:    make([]ReportRowResponse, 0, len(data)),
	}
	for _, col := range columns {
		resp.Columns = append(resp.Columns, ColumnFieldResponse{
			Fieldname: col.Fieldname,
			Label:     col.Label,
			Fieldtype: string(col.Fieldtype),
			Align:     col.Align,
			Width:     col.Width,
			Target:    col.Target,
		})
	}
	for _, filter := range filters {
		resp.Filters = append(resp.Filters, FilterFieldResponse{
			Fieldname:   filter.Fieldname,
			Label:       filter.Label,
			Fieldtype:   string(filter.Fieldtype),
			Placeholder: filter.Placeholder,
			Target:      filter.Target,
		})
	}
	for _, row := range data {
		rowResp := ReportRowResponse{IsEmpty: row.IsEmpty}
		for _, cell := range row.Cells {
			rowResp.Cells = append(rowResp.Cells, CellResponse{
				Value:    cell.Value,
				RawValue: cell.RawValue,
				Align:    cell.Align,
				Width:    cell.Width,
				Bold:     cell.Bold,
				Italic:   cell.Italic,
			})
		}
		resp.Rows = append(resp.Rows, rowResp)
	}
	return resp
}
