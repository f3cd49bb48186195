package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ledgerlite/ledger_reports_app/internal/apperrors"
	"github.com/ledgerlite/ledger_reports_app/internal/core/domain"
	portsrepo "github.com/ledgerlite/ledger_reports_app/internal/core/ports/repositories"
	portssvc "github.com/ledgerlite/ledger_reports_app/internal/core/ports/services"
	"github.com/ledgerlite/ledger_reports_app/internal/core/services"
	"github.com/ledgerlite/ledger_reports_app/internal/platform/events"
	"github.com/ledgerlite/ledger_reports_app/internal/dto"
	"github.com/ledgerlite/ledger_reports_app/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Mock ReportService ---
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockReportService) Title() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockReportService) GetColumns() []domain.ColumnField {
	args := m.Called()
	return args.Get(0).([]domain.ColumnField)
}

func (m *MockReportService) GetFilters() []domain.FieldDescriptor {
	args := m.Called()
	return args.Get(0).([]domain.FieldDescriptor)
}

func (m *MockReportService) SetDefaultFilters() {
	m.Called()
}

func (m *MockReportService) ApplyFilters(p portssvc.ReportParams) {
	m.Called(p)
}

func (m *MockReportService) SetReportData(ctx context.Context, mode string, force bool) error {
	args := m.Called(ctx, mode, force)
	return args.Error(0)
}

func (m *MockReportService) ReportData() domain.ReportData {
	args := m.Called()
	return args.Get(0).(domain.ReportData)
}

func (m *MockReportService) Loading() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockReportService) GetActions() []domain.Action {
	args := m.Called()
	return args.Get(0).([]domain.Action)
}

// Ensure mock implements the interface
var _ portssvc.ReportService = (*MockReportService)(nil)

// --- Test Suite Setup ---

type ReportHandlerTestSuite struct {
	suite.Suite
	router *gin.Engine
	report *MockReportService
}

func (suite *ReportHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.report = new(MockReportService)
	suite.report.On("Name").Return("collections").Maybe()
	suite.report.On("Title").Return("Collection").Maybe()

	container := &services.Container{
		Reports: map[string]portssvc.ReportService{"collections": suite.report},
		Order:   []string{"collections"},
	}

	suite.router = gin.New()
	v1 := suite.router.Group("/api/v1")
	handlers.RegisterReportRoutes(v1, container)
}

func (suite *ReportHandlerTestSuite) serve(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ReportHandlerTestSuite) stubRefreshSuccess() {
	suite.report.On("ApplyFilters", mock.Anything).Return()
	suite.report.On("SetDefaultFilters").Return()
	suite.report.On("SetReportData", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	suite.report.On("GetColumns").Return([]domain.ColumnField{
		{Label: "#", Fieldtype: domain.FieldTypeInt, Fieldname: domain.FieldIndex},
		{Label: "Amount", Fieldtype: domain.FieldTypeCurrency, Fieldname: domain.FieldAmount},
	})
	suite.report.On("GetFilters").Return([]domain.FieldDescriptor{
		{Fieldtype: domain.FieldTypeLink, Label: "Party", Fieldname: domain.FieldParty},
	})
	suite.report.On("ReportData").Return(domain.ReportData{
		{Cells: []domain.Cell{
			{Value: "1", Align: "right", Width: 0.5},
			{Value: "50.00", Align: "left", Width: 1},
		}},
	})
}

// --- Test Cases ---

func (suite *ReportHandlerTestSuite) TestListReports() {
	w := suite.serve("/api/v1/reports")
	require.Equal(suite.T(), http.StatusOK, w.Code)

	var items []dto.ReportListItemResponse
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(suite.T(), items, 1)
	assert.Equal(suite.T(), "collections", items[0].Name)
	assert.Equal(suite.T(), "Collection", items[0].Title)
}

func (suite *ReportHandlerTestSuite) TestGetReport_Success() {
	suite.stubRefreshSuccess()

	w := suite.serve("/api/v1/reports/collections?mode=grouped")
	require.Equal(suite.T(), http.StatusOK, w.Code)

	var resp dto.ReportResponse
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(suite.T(), "collections", resp.Name)
	assert.Len(suite.T(), resp.Columns, 2)
	assert.Len(suite.T(), resp.Filters, 1)
	require.Len(suite.T(), resp.Rows, 1)
	assert.Equal(suite.T(), "50.00", resp.Rows[0].Cells[1].Value)

	suite.report.AssertCalled(suite.T(), "SetReportData", mock.Anything, "grouped", false)
}

func (suite *ReportHandlerTestSuite) TestGetReport_ParsesQueryParams() {
	suite.stubRefreshSuccess()

	w := suite.serve("/api/v1/reports/collections?party=ACME%20Corp&fromDate=2024-01-01&toDate=2024-02-01&groupBy=party&reverted=true&ascending=true&force=true")
	require.Equal(suite.T(), http.StatusOK, w.Code)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	suite.report.AssertCalled(suite.T(), "ApplyFilters", mock.MatchedBy(func(p portssvc.ReportParams) bool {
		return p.Party == "ACME Corp" &&
			p.GroupBy == domain.GroupByParty &&
			p.Ascending &&
			p.Reverted &&
			p.FromDate != nil && p.FromDate.Equal(from) &&
			p.ToDate != nil && p.ToDate.Equal(to)
	}))
	suite.report.AssertCalled(suite.T(), "SetReportData", mock.Anything, "", true)
}

func (suite *ReportHandlerTestSuite) TestGetReport_UnknownReport() {
	w := suite.serve("/api/v1/reports/nope")
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *ReportHandlerTestSuite) TestGetReport_InvalidGroupBy() {
	w := suite.serve("/api/v1/reports/collections?groupBy=color")
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	suite.report.AssertNotCalled(suite.T(), "SetReportData", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportHandlerTestSuite) TestGetReport_InvalidDate() {
	w := suite.serve("/api/v1/reports/collections?toDate=01-02-2024")
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *ReportHandlerTestSuite) TestGetReport_RefreshFailure() {
	suite.report.On("ApplyFilters", mock.Anything).Return()
	suite.report.On("SetDefaultFilters").Return()
	suite.report.On("SetReportData", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("connection reset"))

	w := suite.serve("/api/v1/reports/collections")
	assert.Equal(suite.T(), http.StatusInternalServerError, w.Code)
}

func (suite *ReportHandlerTestSuite) TestGetReport_ValidationFailurePropagates() {
	suite.report.On("ApplyFilters", mock.Anything).Return()
	suite.report.On("SetDefaultFilters").Return()
	suite.report.On("SetReportData", mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.ErrValidation)

	w := suite.serve("/api/v1/reports/collections")
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *ReportHandlerTestSuite) TestExportReport_CSV() {
	suite.stubRefreshSuccess()
	suite.report.On("GetActions").Return([]domain.Action{
		{
			Name:      "export-csv",
			Label:     "Export CSV",
			Extension: "csv",
			Run: func(ctx context.Context, w io.Writer) error {
				_, err := w.Write([]byte("#,Amount\n1,50.00\n"))
				return err
			},
		},
	})

	w := suite.serve("/api/v1/reports/collections/export?format=csv")
	require.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(suite.T(), "attachment; filename=collections.csv", w.Header().Get("Content-Disposition"))
	assert.Equal(suite.T(), "#,Amount\n1,50.00\n", w.Body.String())
}

func (suite *ReportHandlerTestSuite) TestExportReport_UnknownFormat() {
	suite.report.On("GetActions").Return([]domain.Action{})

	w := suite.serve("/api/v1/reports/collections/export?format=pdf")
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	suite.report.AssertNotCalled(suite.T(), "SetReportData", mock.Anything, mock.Anything, mock.Anything)
}

func TestReportHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ReportHandlerTestSuite))
}

// countingRecordFetcher is a no-row fetcher that counts storage round trips.
type countingRecordFetcher struct {
	calls int
}

func (f *countingRecordFetcher) FetchRecords(ctx context.Context, schema string, q domain.RecordQuery) ([]domain.RawRecord, error) {
	f.calls++
	return []domain.RawRecord{}, nil
}

func (f *countingRecordFetcher) SchemaLabel(schema string) (string, bool) {
	return "", false
}

var _ portsrepo.RecordFetcher = (*countingRecordFetcher)(nil)

// Consecutive grouped requests through the handler, with defaults re-applied
// per request, must land on the cached raw entries after the first fetch.
func TestGetReport_ConsecutiveGroupedRequestsReuseCache(t *testing.T) {
	gin.SetMode(gin.TestMode)

	fetcher := &countingRecordFetcher{}
	report := services.NewCollectionsReport(fetcher, events.NewBus())
	container := &services.Container{
		Reports: map[string]portssvc.ReportService{report.Name(): report},
		Order:   []string{report.Name()},
	}

	router := gin.New()
	handlers.RegisterReportRoutes(router.Group("/api/v1"), container)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/collections?mode=grouped", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, 1, fetcher.calls)
}
