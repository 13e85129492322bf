// Package ingest turns uploads into validated audio payloads and stages
// per-request copies of them in the storage backend.
//
// A Payload is immutable once created. FromMultipart enforces the size limit
// and audio media type before any upstream call is made; a Stager writes the
// payload under a unique key and removes it again on Release.
package ingest
