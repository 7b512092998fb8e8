package router

import (
	"github.com/bookwarm/bookwarm-api/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers the endpoints that are not part of the
// book/user API: liveness, health, static docs assets and the docs UI.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/", h.Health.Root)
	r.GET("/status", h.Health.CheckHealth)
	r.Static("/static", handler.StaticDir)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
