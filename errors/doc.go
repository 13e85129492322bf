// Package errors provides the structured error type shared by every layer of
// the service. An AppError carries a machine-readable code, the HTTP status it
// maps to, and the wire body sent to clients ({error, details}).
package errors
