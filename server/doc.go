// Package server runs the HTTP surface on Gin behind an h2c handler.
//
// Middleware (server/middleware) wraps the whole handler rather than the Gin
// engine, so it also covers anything mounted with Handle:
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: X-Request-Id generation and propagation into the context
//   - CORS: cross-origin headers and preflight
//   - BodySizeLimit: request body cap
//   - RequestLogger: one line per request, probes skipped
//
// Probe endpoints live in server/endpoint: /alive, /ready and /version.
package server
