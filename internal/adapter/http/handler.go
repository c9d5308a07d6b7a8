// Package http provides the HTTP handler layer for the charter availability API.
// It handles request parsing, validation, response formatting, and error mapping.
package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/charter-search/charter-availability/internal/adapter/http/middleware"
	"github.com/charter-search/charter-availability/internal/adapter/http/response"
	"github.com/charter-search/charter-availability/internal/domain"
	"github.com/charter-search/charter-availability/internal/infrastructure/logger"
	"github.com/charter-search/charter-availability/internal/usecase"
)

// CharterHandler handles HTTP requests for charter availability endpoints.
type CharterHandler struct {
	useCase usecase.CharterSearchUseCase
	metrics  http.Handler
	sessions func() int
	log      *logger.Logger
}

// HandlerOption configures a CharterHandler.
type HandlerOption func(*CharterHandler)

// WithMetricsHandler exposes h on /metrics.
func WithMetricsHandler(h http.Handler) HandlerOption {
	return func(ch *CharterHandler) { ch.metrics = h }
}

// WithSessionCount reports fn on /health as the number of open portal sessions.
func WithSessionCount(fn func() int) HandlerOption {
	return func(ch *CharterHandler) { ch.sessions = fn }
}

// WithHandlerLogger logs unexpected errors to l.
func WithHandlerLogger(l *logger.Logger) HandlerOption {
	return func(ch *CharterHandler) { ch.log = l }
}

// NewCharterHandler creates a new CharterHandler with the given use case.
func NewCharterHandler(uc usecase.CharterSearchUseCase, opts ...HandlerOption) *CharterHandler {
	h := &CharterHandler{
		useCase: uc,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SearchCharters handles POST /api/v1/charters/search
//
// @Summary Search charter availability
// @Description Log in to every charter operator's reservation portal, search the route and date, and merge the availability. Operator failures are reported alongside the results.
// @Tags charters
// @Accept json
// @Produce json
// @Param request body SearchChartersRequest true "Search criteria"
// @Success 200 {object} SearchResponseDTO
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 404 {object} response.ErrorDetail "Requested operators not found"
// @Failure 503 {object} SearchResponseDTO "Every operator failed"
// @Failure 504 {object} response.ErrorDetail "Gateway timeout"
// @Router /api/v1/charters/search [post]
func (h *CharterHandler) SearchCharters(c echo.Context) error {
	var req SearchChartersRequest

	// Bind request body
	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}

	// Validate request
	if err := req.Validate(); err != nil {
		return h.handleValidationError(c, err)
	}

	// Convert to domain types
	params := ToDomainParams(&req)
	opts := ToSearchOptions(&req)

	// Call use case with request context
	result, err := h.useCase.Search(c.Request().Context(), params, opts)
	if err != nil {
		return h.handleError(c, err)
	}

	return response.SearchResults(c, result.AllFailed(), ToSearchResponseDTO(result))
}

// ListOperators handles GET /api/v1/operators
//
// @Summary List charter operators
// @Description List the operators a search can query. Login details are never returned.
// @Tags operators
// @Produce json
// @Success 200 {object} OperatorsResponseDTO
// @Failure 503 {object} response.ErrorDetail "Directory unavailable"
// @Router /api/v1/operators [get]
func (h *CharterHandler) ListOperators(c echo.Context) error {
	summaries, err := h.useCase.Operators(c.Request().Context())
	if err != nil {
		h.logError(c, err, "Failed to list operators")
		return response.ServiceUnavailableWithMessage(c, response.MsgDirectoryUnavailable)
	}
	return response.OK(c, ToOperatorsResponseDTO(summaries))
}

// ListCache handles GET /api/v1/cache
//
// @Summary Inspect the availability cache
// @Description Return every cached scrape keyed by operator, destination and date.
// @Tags cache
// @Produce json
// @Success 200 {object} CacheResponseDTO
// @Router /api/v1/cache [get]
func (h *CharterHandler) ListCache(c echo.Context) error {
	return response.OK(c, ToCacheResponseDTO(h.useCase.CacheEntries()))
}

// ClearCache handles DELETE /api/v1/cache
//
// @Summary Clear the availability cache
// @Description Drop every cached scrape so the next search logs in to the portals again.
// @Tags cache
// @Success 204
// @Router /api/v1/cache [delete]
func (h *CharterHandler) ClearCache(c echo.Context) error {
	h.useCase.ClearCache()
	return response.NoContent(c)
}

// Health handles GET /health
// Reports the number of pooled portal sessions when a counter is configured.
//
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} response.HealthResponse
// @Router /health [get]
func (h *CharterHandler) Health(c echo.Context) error {
	if h.sessions == nil {
		return response.Health(c, nil)
	}
	open := h.sessions()
	return response.Health(c, &open)
}

// handleValidationError handles validation errors and returns a 400 response.
func (h *CharterHandler) handleValidationError(c echo.Context, err error) error {
	var validationErrs *ValidationErrors
	if errors.As(err, &validationErrs) {
		return response.ValidationError(c, validationErrs.ToMap())
	}

	// Fallback for non-structured validation errors
	return response.ValidationErrorWithMessage(c, err.Error())
}

// handleError maps domain errors to appropriate HTTP responses.
func (h *CharterHandler) handleError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return response.ValidationErrorWithMessage(c, err.Error())

	case errors.Is(err, domain.ErrOperatorNotFound):
		return response.OperatorNotFound(c, err.Error())

	case errors.Is(err, domain.ErrNoOperators):
		return response.ServiceUnavailableWithMessage(c, response.MsgNoOperators)

	case errors.Is(err, context.DeadlineExceeded):
		return response.GatewayTimeout(c)

	case errors.Is(err, context.Canceled):
		return response.RequestCancelled(c)
	}

	h.logError(c, err, "Charter search failed")
	return response.InternalServerError(c)
}

func (h *CharterHandler) logError(c echo.Context, err error, msg string) {
	h.log.Error().
		Err(err).
		Str("request_id", middleware.GetRequestID(c)).
		Str("path", c.Path()).
		Msg(msg)
}
