// Package component defines the lifecycle contract for long-lived parts of
// the service (HTTP server, staging storage) and a Registry that starts them
// in order, stops them in reverse, and aggregates their health.
package component
