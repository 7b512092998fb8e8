// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API routes,
// mapping specific paths to their corresponding handlers
package router

import (
	"net/http"

	"github.com/bookwarm/bookwarm-api/internal/handler"
	"github.com/bookwarm/bookwarm-api/internal/middleware"
	"github.com/bookwarm/bookwarm-api/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the echo instance.
//
// Middleware order matters: the request id is needed by tracing and the
// context logger, the New Relic transaction must exist before
// EnhanceTracing and EnhanceContext read it, and RequestLogger must wrap
// Recover so panics are still logged.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)
	registerAPIRoutes(router, h)

	return router
}

// registerAPIRoutes registers the user and book endpoints at the root, where
// existing clients call them.
func registerAPIRoutes(r *echo.Echo, h *handler.Handlers) {
	r.POST("/users", handler.Handle(h.Users.Handler, h.Users.CreateUser, http.StatusOK, &handler.CreateUserRequest{}))
	r.GET("/role/:email", handler.Handle(h.Users.Handler, h.Users.GetRole, http.StatusOK, &handler.RoleRequest{}))

	r.POST("/books", handler.Handle(h.Books.Handler, h.Books.CreateBook, http.StatusOK, &handler.CreateBookRequest{}))
	r.GET("/books", handler.Handle(h.Books.Handler, h.Books.ListBooks, http.StatusOK, &handler.ListBooksRequest{}))
	r.PUT("/books/:id", handler.Handle(h.Books.Handler, h.Books.UpdateBook, http.StatusOK, &handler.UpdateBookRequest{}))
	r.DELETE("/books/:id", handler.Handle(h.Books.Handler, h.Books.DeleteBook, http.StatusOK, &handler.DeleteBookRequest{}))
}
