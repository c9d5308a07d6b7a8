// Package integration provides helpers and integration tests for the charter availability system.
// Integration tests verify that components work together correctly, including
// HTTP middleware and handlers, the search use case, the availability cache and metrics.
package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	httpAdapter "github.com/charter-search/charter-availability/internal/adapter/http"
	"github.com/charter-search/charter-availability/internal/adapter/http/middleware"
	"github.com/charter-search/charter-availability/internal/domain"
	"github.com/charter-search/charter-availability/internal/infrastructure/cache"
	"github.com/charter-search/charter-availability/internal/infrastructure/logger"
	"github.com/charter-search/charter-availability/internal/infrastructure/metrics"
	"github.com/charter-search/charter-availability/internal/infrastructure/retry"
	"github.com/charter-search/charter-availability/internal/infrastructure/timeutil"
	"github.com/charter-search/charter-availability/internal/usecase"
	"github.com/charter-search/charter-availability/test/testutil"
)

// SearchDate is the departure date used by default requests.
const SearchDate = "2026-03-01"

// Env wires the real use case, cache and HTTP stack around a mock source.
type Env struct {
	Source  domain.AvailabilitySource
	Cache   *cache.Memory
	Clock   *timeutil.MockClock
	Metrics *metrics.Metrics
	UseCase usecase.CharterSearchUseCase
	Server  *TestServer
}

// EnvOption customizes an Env.
type EnvOption func(*envOptions)

type envOptions struct {
	config    usecase.Config
	directory domain.OperatorDirectory
	cacheTTL  time.Duration
}

// WithConfig replaces the use case configuration.
func WithConfig(cfg usecase.Config) EnvOption {
	return func(o *envOptions) { o.config = cfg }
}

// WithDirectory replaces the default two-operator directory.
func WithDirectory(d domain.OperatorDirectory) EnvOption {
	return func(o *envOptions) { o.directory = d }
}

// WithCacheTTL replaces the cache lifetime.
func WithCacheTTL(ttl time.Duration) EnvOption {
	return func(o *envOptions) { o.cacheTTL = ttl }
}

// FastConfig keeps retries but shrinks their waits.
func FastConfig() usecase.Config {
	return usecase.Config{
		GlobalTimeout:   5 * time.Second,
		OperatorTimeout: 2 * time.Second,
		Retry:           retry.ScrapeConfig.WithInitialDelay(time.Millisecond),
	}
}

// DefaultDirectory lists two operators in a fixed order.
func DefaultDirectory() *domain.OperatorRegistry {
	return testutil.Registry("xael", "XAEL Charters", "cubazul", "Cubazul Air")
}

// NewEnv assembles the service around src.
func NewEnv(src domain.AvailabilitySource, opts ...EnvOption) *Env {
	o := &envOptions{
		config:   FastConfig(),
		cacheTTL: 15 * time.Minute,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.directory == nil {
		o.directory = DefaultDirectory()
	}

	clock := timeutil.NewMockClock(time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC))
	store := cache.New(o.cacheTTL, clock)
	m := metrics.New("charter", prometheus.NewRegistry())

	cfg := o.config
	uc := usecase.NewCharterSearchUseCase(usecase.Dependencies{
		Directory: o.directory,
		Source:    src,
		Cache:     store,
		Clock:     clock,
		Metrics:   m,
		Logger:    logger.Nop(),
	}, &cfg)

	return &Env{
		Source:  src,
		Cache:   store,
		Clock:   clock,
		Metrics: m,
		UseCase: uc,
		Server:  NewTestServer(uc, httpAdapter.WithMetricsHandler(m.Handler())),
	}
}

// TestServer wraps an Echo instance and provides helper methods for integration testing.
type TestServer struct {
	Echo    *echo.Echo
	Handler *httpAdapter.CharterHandler
}

// NewTestServer creates a new test server with the production middleware chain.
func NewTestServer(uc usecase.CharterSearchUseCase, opts ...httpAdapter.HandlerOption) *TestServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	middleware.Setup(e, logger.Nop())

	handler := httpAdapter.NewCharterHandler(uc, opts...)
	httpAdapter.RegisterRoutes(e, handler)

	return &TestServer{
		Echo:    e,
		Handler: handler,
	}
}

// Request represents a test HTTP request configuration.
type Request struct {
	Method      string
	Path        string
	Body        any
	ContentType string
	Headers     map[string]string
}

// Response represents a test HTTP response.
type Response struct {
	Code    int
	Body    []byte
	Headers http.Header
}

// Do executes a test request and returns the response.
func (ts *TestServer) Do(req Request) Response {
	var bodyReader *bytes.Reader
	if req.Body != nil {
		bodyBytes, _ := json.Marshal(req.Body)
		bodyReader = bytes.NewReader(bodyBytes)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	httpReq := httptest.NewRequest(req.Method, req.Path, bodyReader)

	if req.ContentType != "" {
		httpReq.Header.Set(echo.HeaderContentType, req.ContentType)
	} else if req.Body != nil {
		httpReq.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	ts.Echo.ServeHTTP(rec, httpReq)

	return Response{
		Code:    rec.Code,
		Body:    rec.Body.Bytes(),
		Headers: rec.Header(),
	}
}

// SearchRequest posts a search.
func (ts *TestServer) SearchRequest(body any) Response {
	return ts.Do(Request{
		Method: http.MethodPost,
		Path:   "/api/v1/charters/search",
		Body:   body,
	})
}

// Get makes a GET request.
func (ts *TestServer) Get(path string) Response {
	return ts.Do(Request{Method: http.MethodGet, Path: path})
}

// Delete makes a DELETE request.
func (ts *TestServer) Delete(path string) Response {
	return ts.Do(Request{Method: http.MethodDelete, Path: path})
}

// ParseSearchResponse parses the response body as a search response.
func (r *Response) ParseSearchResponse() (*httpAdapter.SearchResponseDTO, error) {
	var resp httpAdapter.SearchResponseDTO
	if err := json.Unmarshal(r.Body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ParseError parses the response body to extract error information.
func (r *Response) ParseError() (map[string]any, error) {
	var errResp map[string]any
	if err := json.Unmarshal(r.Body, &errResp); err != nil {
		return nil, err
	}
	return errResp, nil
}

// SearchRequestBody is a helper struct for building search request bodies.
type SearchRequestBody struct {
	Origin        string         `json:"origin"`
	Destination   string         `json:"destination"`
	DepartureDate string         `json:"departureDate"`
	ReturnDate    string         `json:"returnDate,omitempty"`
	Passengers    int            `json:"passengers,omitempty"`
	TripType      string         `json:"tripType,omitempty"`
	Operators     []string       `json:"operators,omitempty"`
	Filters       map[string]any `json:"filters,omitempty"`
	Sort          map[string]any `json:"sort,omitempty"`
}

// DefaultSearchRequest returns a valid one way search request body.
func DefaultSearchRequest() SearchRequestBody {
	return SearchRequestBody{
		Origin:        "MIA",
		Destination:   "HAV",
		DepartureDate: SearchDate,
		Passengers:    1,
	}
}

// DefaultSearchParams returns valid search parameters for testing the use case directly.
func DefaultSearchParams() domain.SearchParams {
	return domain.SearchParams{
		Origin:        "MIA",
		Destination:   "HAV",
		DepartureDate: SearchDate,
		Passengers:    1,
		TripType:      domain.TripOneWay,
	}
}
