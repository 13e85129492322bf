// Package util holds small helpers shared by configuration and ingest:
// human-readable size parsing, secret masking, and filename sanitizing.
package util
