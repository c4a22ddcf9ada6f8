// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs method, path, client IP, status and duration_ms on completion.

# Router-wide Middleware

CORS and Recover have the func(http.Handler) http.Handler shape and are
chained around the whole mux:

	alice.New(middleware.Recover, middleware.CORS).Then(mux)

CORS reflects the request origin (or "*") and allows the X-Device-Key
header. Recover converts handler panics into a JSON 500.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusCreated, resp)
	middleware.ErrorResponse(w, http.StatusBadRequest, "detail shown to the user")

Errors are written as {"error": <status text>, "detail": <message>}.
*/
package middleware
