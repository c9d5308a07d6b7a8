package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charter-search/charter-availability/internal/adapter/http/response"
	"github.com/charter-search/charter-availability/internal/domain"
	"github.com/charter-search/charter-availability/internal/usecase"
)

// mockUseCase is a mock implementation of CharterSearchUseCase for testing.
type mockUseCase struct {
	searchFunc    func(ctx context.Context, params domain.SearchParams, opts usecase.SearchOptions) (*domain.SearchResult, error)
	operatorsFunc func(ctx context.Context) ([]domain.CharterSummary, error)
	entries       []domain.CacheEntry
	cleared       int
}

func (m *mockUseCase) SearchAll(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
	return m.Search(ctx, params, usecase.SearchOptions{})
}

func (m *mockUseCase) Search(ctx context.Context, params domain.SearchParams, opts usecase.SearchOptions) (*domain.SearchResult, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, params, opts)
	}
	return &domain.SearchResult{
		SearchID: "search-1",
		Params:   params,
		Items:    []domain.ResultItem{},
		Metadata: domain.SearchMetadata{OperatorsQueried: 1, OperatorsSucceeded: 1},
	}, nil
}

func (m *mockUseCase) Operators(ctx context.Context) ([]domain.CharterSummary, error) {
	if m.operatorsFunc != nil {
		return m.operatorsFunc(ctx)
	}
	return []domain.CharterSummary{{ID: "xael", Title: "XAEL Charters"}}, nil
}

func (m *mockUseCase) CacheEntries() []domain.CacheEntry {
	return m.entries
}

func (m *mockUseCase) ClearCache() {
	m.cleared++
	m.entries = nil
}

// setupTestHandler creates a test Echo instance and CharterHandler.
func setupTestHandler(uc usecase.CharterSearchUseCase, opts ...HandlerOption) (*echo.Echo, *CharterHandler) {
	e := echo.New()
	h := NewCharterHandler(uc, opts...)
	RegisterRoutes(e, h)
	return e, h
}

// makeRequest is a helper to make test requests.
func makeRequest(e *echo.Echo, method, path string, body any) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func validRequest() map[string]any {
	return map[string]any{
		"origin":        "MIA",
		"destination":   "HAV",
		"departureDate": "2026-03-01",
		"passengers":    2,
	}
}

func sampleItem(operator, title, flight, departure string, base float64, seats int) domain.ResultItem {
	first := domain.NewPriceTier(base + 200)
	return domain.ResultItem{
		Charter: domain.CharterSummary{ID: operator, Title: title},
		Leg:     domain.LegOutbound,
		Availability: domain.FlightAvailability{
			Date:           "2026-03-01",
			SeatsTotal:     10,
			SeatsAvailable: seats,
			Status:         domain.DeriveStatus(seats),
			Schedule:       domain.Schedule{FlightNumber: flight, Departure: departure, Arrival: "23:00"},
			Pricing:        domain.Pricing{Regular: domain.NewPriceTier(base), FirstClass: &first},
		},
	}
}

func decodeSearch(t *testing.T, rec *httptest.ResponseRecorder) SearchResponseDTO {
	t.Helper()
	var resp SearchResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorDetail {
	t.Helper()
	var resp response.ErrorDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// =====================================================
// Search Handler Tests
// =====================================================

func TestSearchCharters_Success(t *testing.T) {
	retrieved := time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)
	var gotParams domain.SearchParams
	var gotOpts usecase.SearchOptions

	mock := &mockUseCase{
		searchFunc: func(ctx context.Context, params domain.SearchParams, opts usecase.SearchOptions) (*domain.SearchResult, error) {
			gotParams, gotOpts = params, opts
			return &domain.SearchResult{
				SearchID:    "search-1",
				Params:      params,
				Items:       []domain.ResultItem{sampleItem("xael", "XAEL Charters", "XL100", "08:00", 300, 2)},
				RetrievedAt: retrieved,
				ValidUntil:  retrieved.Add(domain.ValidityWindow),
				Metadata:    domain.SearchMetadata{TotalResults: 1, OperatorsQueried: 1, OperatorsSucceeded: 1, SearchTimeMs: 8400},
			}, nil
		},
	}
	e, _ := setupTestHandler(mock)

	rec := makeRequest(e, http.MethodPost, "/api/v1/charters/search", validRequest())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MIA", gotParams.Origin)
	assert.Equal(t, domain.TripOneWay, gotParams.TripType)
	assert.Equal(t, 2, gotParams.Passengers)
	assert.Equal(t, domain.DefaultSortSpec(), gotOpts.Sort)
	assert.True(t, gotOpts.Filters.IsEmpty())

	resp := decodeSearch(t, rec)
	assert.Equal(t, "search-1", resp.SearchID)
	assert.Equal(t, "ok", resp.State)
	assert.Equal(t, "2026-03-01", resp.SearchCriteria.DepartureDate)
	assert.Equal(t, retrieved.Add(15*time.Minute), resp.ValidUntil.UTC())
	require.Len(t, resp.Results, 1)

	got := resp.Results[0]
	assert.Equal(t, CharterDTO{ID: "xael", Title: "XAEL Charters"}, got.Charter)
	assert.Equal(t, "XL100", got.FlightNumber)
	assert.Equal(t, "LIMITED", got.Status)
	assert.Equal(t, "outbound", got.Leg)
	assert.Equal(t, PriceDTO{Base: 300, Tax: 21.75, Total: 321.75}, got.Pricing.Regular)
	require.NotNil(t, got.Pricing.FirstClass)
	assert.InDelta(t, 536.25, got.Pricing.FirstClass.Total, 1e-9)
	assert.Equal(t, int64(8400), resp.Metadata.SearchTimeMs)
}

func TestSearchCharters_WithFiltersAndSort(t *testing.T) {
	var gotOpts usecase.SearchOptions
	var gotParams domain.SearchParams
	mock := &mockUseCase{
		searchFunc: func(ctx context.Context, params domain.SearchParams, opts usecase.SearchOptions) (*domain.SearchResult, error) {
			gotParams, gotOpts = params, opts
			return &domain.SearchResult{Params: params, Items: []domain.ResultItem{}}, nil
		},
	}
	e, _ := setupTestHandler(mock)

	body := validRequest()
	body["tripType"] = "RoundTrip"
	body["returnDate"] = "2026-03-08"
	body["operators"] = []string{" xael "}
	body["filters"] = map[string]any{
		"operator":      "xael",
		"maxPrice":      400.0,
		"departureTime": "Morning",
		"status":        "available",
	}
	body["sort"] = map[string]any{"key": "departure", "direction": "DESC"}

	rec := makeRequest(e, http.MethodPost, "/api/v1/charters/search", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, domain.TripRoundTrip, gotParams.TripType)
	assert.Equal(t, "2026-03-08", gotParams.ReturnDate)
	assert.Equal(t, []string{"xael"}, gotParams.Operators)

	assert.Equal(t, "xael", gotOpts.Filters.OperatorID)
	require.NotNil(t, gotOpts.Filters.MaxPrice)
	assert.Equal(t, 400.0, *gotOpts.Filters.MaxPrice)
	assert.Equal(t, domain.Morning, gotOpts.Filters.DepartureTime)
	assert.Equal(t, domain.StatusAvailable, gotOpts.Filters.Status)
	assert.Equal(t, domain.SortSpec{Key: domain.SortByDeparture, Direction: domain.Descending}, gotOpts.Sort)
}

func TestSearchCharters_InvalidJSON(t *testing.T) {
	e, _ := setupTestHandler(&mockUseCase{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/charters/search", bytes.NewBufferString("{not json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, response.CodeInvalidRequest, decodeError(t, rec).Code)
}

func TestSearchCharters_ValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(body map[string]any)
		wantField string
	}{
		{name: "missing origin", mutate: func(b map[string]any) { delete(b, "origin") }, wantField: "origin"},
		{name: "bad destination", mutate: func(b map[string]any) { b["destination"] = "HAVANA" }, wantField: "destination"},
		{name: "same airports", mutate: func(b map[string]any) { b["destination"] = "mia" }, wantField: "destination"},
		{name: "bad date", mutate: func(b map[string]any) { b["departureDate"] = "01/03/2026" }, wantField: "departureDate"},
		{name: "too many passengers", mutate: func(b map[string]any) { b["passengers"] = 12 }, wantField: "passengers"},
		{name: "unknown trip type", mutate: func(b map[string]any) { b["tripType"] = "multicity" }, wantField: "tripType"},
		{name: "return date on one way", mutate: func(b map[string]any) { b["returnDate"] = "2026-03-08" }, wantField: "returnDate"},
		{name: "bad status filter", mutate: func(b map[string]any) { b["filters"] = map[string]any{"status": "OPEN"} }, wantField: "filters.status"},
		{name: "bad sort key", mutate: func(b map[string]any) { b["sort"] = map[string]any{"key": "duration"} }, wantField: "sort.key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			mock := &mockUseCase{
				searchFunc: func(ctx context.Context, params domain.SearchParams, opts usecase.SearchOptions) (*domain.SearchResult, error) {
					called = true
					return nil, nil
				},
			}
			e, _ := setupTestHandler(mock)

			body := validRequest()
			tt.mutate(body)
			rec := makeRequest(e, http.MethodPost, "/api/v1/charters/search", body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, response.CodeValidationError, resp.Code)
			assert.Contains(t, resp.Details, tt.wantField)
			assert.False(t, called, "use case must not run for invalid requests")
		})
	}
}

func TestSearchCharters_AllOperatorsFailed(t *testing.T) {
	mock := &mockUseCase{
		searchFunc: func(ctx context.Context, params domain.SearchParams, opts usecase.SearchOptions) (*domain.SearchResult, error) {
			return &domain.SearchResult{
				Params: params,
				Items:  []domain.ResultItem{},
				Failures: []domain.OperatorFailure{{
					OperatorID:  "xael",
					DisplayName: "XAEL Charters",
					Leg:         domain.LegOutbound,
					Kind:        domain.FailureAuthentication,
					Message:     "authentication failed",
				}},
				Metadata: domain.SearchMetadata{OperatorsQueried: 1, OperatorsFailed: 1},
			}, nil
		},
	}
	e, _ := setupTestHandler(mock)

	rec := makeRequest(e, http.MethodPost, "/api/v1/charters/search", validRequest())

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decodeSearch(t, rec)
	assert.Equal(t, "all_failed", resp.State)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, "authentication", resp.Failures[0].Kind)
	assert.Equal(t, "XAEL Charters", resp.Failures[0].Title)
	assert.Empty(t, resp.Results)
}

func TestSearchCharters_PartialIsOK(t *testing.T) {
	mock := &mockUseCase{
		searchFunc: func(ctx context.Context, params domain.SearchParams, opts usecase.SearchOptions) (*domain.SearchResult, error) {
			return &domain.SearchResult{
				Params:   params,
				Items:    []domain.ResultItem{sampleItem("xael", "XAEL", "XL100", "08:00", 300, 5)},
				Failures: []domain.OperatorFailure{{OperatorID: "cubazul", Kind: domain.FailureExtractionTimeout}},
				Metadata: domain.SearchMetadata{TotalResults: 1, OperatorsQueried: 2, OperatorsSucceeded: 1, OperatorsFailed: 1},
			}, nil
		},
	}
	e, _ := setupTestHandler(mock)

	rec := makeRequest(e, http.MethodPost, "/api/v1/charters/search", validRequest())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "partial", decodeSearch(t, rec).State)
}

func TestSearchCharters_EmptyResults(t *testing.T) {
	e, _ := setupTestHandler(&mockUseCase{})

	rec := makeRequest(e, http.MethodPost, "/api/v1/charters/search", validRequest())

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeSearch(t, rec)
	assert.Equal(t, "empty", resp.State)
	assert.NotNil(t, resp.Results)
	assert.Contains(t, rec.Body.String(), `"results":[]`)
}

func TestSearchCharters_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "no operators", err: domain.ErrNoOperators, wantStatus: http.StatusServiceUnavailable, wantCode: response.CodeServiceUnavailable},
		{name: "unknown operator", err: fmt.Errorf("%w: [nope]", domain.ErrOperatorNotFound), wantStatus: http.StatusNotFound, wantCode: response.CodeNotFound},
		{name: "invalid request", err: fmt.Errorf("%w: bad", domain.ErrInvalidRequest), wantStatus: http.StatusBadRequest, wantCode: response.CodeValidationError},
		{name: "timeout", err: context.DeadlineExceeded, wantStatus: http.StatusGatewayTimeout, wantCode: response.CodeTimeout},
		{name: "cancelled", err: context.Canceled, wantStatus: http.StatusGatewayTimeout, wantCode: response.CodeTimeout},
		{name: "unexpected", err: errors.New("mongo: connection reset"), wantStatus: http.StatusInternalServerError, wantCode: response.CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockUseCase{
				searchFunc: func(ctx context.Context, params domain.SearchParams, opts usecase.SearchOptions) (*domain.SearchResult, error) {
					return nil, tt.err
				},
			}
			e, _ := setupTestHandler(mock)

			rec := makeRequest(e, http.MethodPost, "/api/v1/charters/search", validRequest())

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.NotContains(t, resp.Message, "mongo", "internal causes are not exposed")
		})
	}
}

// =====================================================
// Operators and Cache Handler Tests
// =====================================================

func TestListOperators(t *testing.T) {
	e, _ := setupTestHandler(&mockUseCase{})

	rec := makeRequest(e, http.MethodGet, "/api/v1/operators", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp OperatorsResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, []CharterDTO{{ID: "xael", Title: "XAEL Charters"}}, resp.Operators)
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestListOperators_DirectoryDown(t *testing.T) {
	mock := &mockUseCase{
		operatorsFunc: func(ctx context.Context) ([]domain.CharterSummary, error) {
			return nil, errors.New("server selection timeout")
		},
	}
	e, _ := setupTestHandler(mock)

	rec := makeRequest(e, http.MethodGet, "/api/v1/operators", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, response.MsgDirectoryUnavailable, decodeError(t, rec).Message)
}

func TestCacheEndpoints(t *testing.T) {
	inserted := time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)
	mock := &mockUseCase{
		entries: []domain.CacheEntry{{
			Key:        "xael-HAV-2026-03-01",
			Value:      []domain.FlightAvailability{sampleItem("xael", "XAEL", "XL100", "08:00", 300, 0).Availability},
			InsertedAt: inserted,
		}},
	}
	e, _ := setupTestHandler(mock)

	rec := makeRequest(e, http.MethodGet, "/api/v1/cache", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CacheResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "xael-HAV-2026-03-01", resp.Entries[0].Key)
	assert.Equal(t, inserted, resp.Entries[0].InsertedAt.UTC())
	require.Len(t, resp.Entries[0].Flights, 1)
	assert.Equal(t, "SOLD_OUT", resp.Entries[0].Flights[0].Status)

	rec = makeRequest(e, http.MethodDelete, "/api/v1/cache", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, mock.cleared)

	rec = makeRequest(e, http.MethodGet, "/api/v1/cache", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":0`)
}

func TestHealth_Success(t *testing.T) {
	e, _ := setupTestHandler(&mockUseCase{})

	rec := makeRequest(e, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealth_ReportsOpenSessions(t *testing.T) {
	e, _ := setupTestHandler(&mockUseCase{}, WithSessionCount(func() int { return 2 }))

	rec := makeRequest(e, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","open_sessions":2}`, rec.Body.String())
}

// =====================================================
// Routes Tests
// =====================================================

func TestRegisterRoutes(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("charter_searches_total 3\n"))
	})
	e, _ := setupTestHandler(&mockUseCase{}, WithMetricsHandler(metrics))

	routes := make(map[string]bool)
	for _, r := range e.Routes() {
		routes[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /health",
		"GET /metrics",
		"POST /api/v1/charters/search",
		"GET /api/v1/operators",
		"GET /api/v1/cache",
		"DELETE /api/v1/cache",
	} {
		assert.True(t, routes[want], "missing route %s", want)
	}

	rec := makeRequest(e, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "charter_searches_total")
}

func TestRegisterRoutes_WithoutMetrics(t *testing.T) {
	e, _ := setupTestHandler(&mockUseCase{})

	rec := makeRequest(e, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =====================================================
// Converter Tests
// =====================================================

func TestToDomainParams_Defaults(t *testing.T) {
	params := ToDomainParams(&SearchChartersRequest{Origin: "mia", Destination: "hav", DepartureDate: "2026-03-01"})

	assert.Equal(t, "MIA", params.Origin)
	assert.Equal(t, "HAV", params.Destination)
	assert.Equal(t, 1, params.Passengers)
	assert.Equal(t, domain.TripOneWay, params.TripType)
	assert.Nil(t, params.Operators)
}

func TestToDomainSort(t *testing.T) {
	assert.Equal(t, domain.DefaultSortSpec(), ToDomainSort(nil))
	assert.Equal(t, domain.DefaultSortSpec(), ToDomainSort(&SortDTO{}))
	assert.Equal(t, domain.SortSpec{Key: domain.SortByCharter, Direction: domain.Ascending}, ToDomainSort(&SortDTO{Key: "charter"}))
	assert.Equal(t, domain.SortSpec{Key: domain.SortByAvailability, Direction: domain.Descending}, ToDomainSort(&SortDTO{Key: "availability", Direction: "desc"}))
}

func TestToDomainFilters_Nil(t *testing.T) {
	assert.True(t, ToDomainFilters(nil).IsEmpty())
}

func TestToSearchResponseDTO_Nil(t *testing.T) {
	assert.Nil(t, ToSearchResponseDTO(nil))
}
