// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns
// such as request ids, request logging, New Relic tracing, CORS,
// security headers and panic recovery, and hold the global
// error handler that shapes every error response.
package middleware
