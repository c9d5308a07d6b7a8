package http

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all charter availability API routes.
// It creates a versioned API group and attaches the handler methods.
func RegisterRoutes(e *echo.Echo, h *CharterHandler) {
	RegisterRoutesWithMiddleware(e, h)
}

// RegisterRoutesWithMiddleware registers routes with custom middleware on the API group.
// Health and metrics stay outside the group so probes bypass it.
func RegisterRoutesWithMiddleware(e *echo.Echo, h *CharterHandler, middleware ...echo.MiddlewareFunc) {
	// Operational endpoints (no version prefix)
	e.GET("/health", h.Health)
	if h.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(h.metrics))
	}

	// API v1 group
	api := e.Group("/api/v1", middleware...)

	charters := api.Group("/charters")
	charters.POST("/search", h.SearchCharters)

	api.GET("/operators", h.ListOperators)

	cache := api.Group("/cache")
	cache.GET("", h.ListCache)
	cache.DELETE("", h.ClearCache)
}
