// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start at debug level (method, path, client IP) and completion
at info level (status, duration_ms). WebSocket upgrades pass through.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows GET, POST, OPTIONS with headers Content-Type, Authorization and
X-User-Identity.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Request Values

	identity := middleware.UserIdentity(r)  // X-User-Identity, trimmed
	ip := middleware.GetClientIP(r)         // X-Forwarded-For, X-Real-IP, RemoteAddr
*/
package middleware
