// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs one line per request with method, path, matched route, status and
duration_ms. Server errors are logged at warn level.

# Request Metrics

Count requests and latency by route pattern:

	mux.HandleFunc("GET /sessions/{id}", middleware.WithMetrics(m, handler))

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Echoes the request origin (or "*" without one), allows GET, POST and
OPTIONS with headers Content-Type, X-Admin-Key, X-Caller-Address, and
answers preflight requests with 204.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.ErrorResponseCode(w, http.StatusConflict, "wrong_phase", reason)

Parse JSON request bodies (one value, at most 64 KiB):

	var req models.CreateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used for hashed client IPs in vote logs.
*/
package middleware
