package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status       string `json:"status" example:"ok"`
	OpenSessions *int   `json:"open_sessions,omitempty" example:"2"`
}

// Health writes a health check response. openSessions is omitted when nil.
func Health(c echo.Context, openSessions *int) error {
	return c.JSON(http.StatusOK, &HealthResponse{
		Status:       "ok",
		OpenSessions: openSessions,
	})
}

// SearchResults writes search results. A search where no operator could be
// queried still carries its failures, so it is returned in full with 503.
func SearchResults(c echo.Context, allFailed bool, results any) error {
	status := http.StatusOK
	if allFailed {
		status = http.StatusServiceUnavailable
	}
	return JSON(c, status, results)
}
