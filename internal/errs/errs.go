// Package errs defines the error types returned to API clients.
//
// Every failure leaves the service as an *HTTPError serialized by the
// global error handler, so clients always see the same shape:
//
//	{ "success": false, "code": "NOT_FOUND", "message": "User not found", "status": 404, ... }
//
// The success flag keeps the body compatible with clients that only look at
// `success` and `message`.
package errs
