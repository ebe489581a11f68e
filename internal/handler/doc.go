// Package handler implements the HTTP API for the ucsboard workspace.
//
// # Handlers
//
// WorkspaceHandler exposes graph authoring, selection, undo/redo, tree
// projection, search and replay, record import/export, and saved trees.
//
// NewRouter mounts the handlers on a chi router together with the SSE
// stream at /events, Prometheus metrics at /metrics and a /health check.
//
// # Response Format
//
// Success responses return JSON data with appropriate status codes (200, 201).
// Error responses return JSON with {error, details} structure. Domain errors
// map to status codes as follows:
//
//	ErrInvalidInput, ErrMalformedRecord    400
//	ErrNotFound                            404
//	ErrPrecondition, ErrSearchInProgress   409
//	ErrSearchService                       502
//
// Request bodies are validated before they reach the workspace.
package handler
