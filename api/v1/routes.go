package v1

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts the REST surface. submit wraps session submission
// only.
func RegisterRoutes(e *echo.Echo, submit ...echo.MiddlewareFunc) {
	RegisterAuthRoutes(e.Group("/api/auth"))
	RegisterProfileRoutes(e.Group("/profiles"))
	RegisterSessionRoutes(e.Group("/sessions"), submit...)
	RegisterStatsRoutes(e)
	e.GET("/healthz", HealthHandler)
}
