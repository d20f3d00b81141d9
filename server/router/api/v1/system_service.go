package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/calkins/teampulse/server/internal/observability"
)

// PingResponse reports service version and record store reachability.
type PingResponse struct {
	Version string `json:"version"`
	Store   string `json:"store"`
}

// Ping verifies the service and its record store backend are reachable.
func (s *APIV1Service) Ping(c echo.Context) error {
	response := &PingResponse{Version: s.Profile.Version, Store: "ok"}
	if err := s.Store.Ping(c.Request().Context()); err != nil {
		response.Store = "unreachable"
		return c.JSON(http.StatusServiceUnavailable, response)
	}
	return c.JSON(http.StatusOK, response)
}

// Metrics returns a snapshot of the in-process operation counters.
func (s *APIV1Service) Metrics(c echo.Context) error {
	return c.JSON(http.StatusOK, observability.GlobalMetrics().Snapshot())
}
