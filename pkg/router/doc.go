// Package router provides the HTTP router behind the retrodesk REST API,
// with pattern matching, middleware and URL parameter extraction.
//
// The router supports the following patterns:
//   - Exact match: /api/images
//   - Named parameters: /api/desktop/items/:id
//   - Wildcard matching: /uploads/*
//
// A path that matches under another method answers 405 with an Allow
// header; anything else answers 404. Both bodies are JSON errors.
//
// Example usage:
//
//	r := router.New()
//	r.Use(router.RecoveryMiddleware(logger), router.LoggingMiddleware(logger))
//	r.GET("/api/desktop/items/:id", itemHandler)
//	http.ListenAndServe(":5000", r)
package router
