// Package speechservice is the client for the co-located speech service
// that runs transcription and speaker diarization.
//
// Analyze makes a single /analyze-full call and returns both results.
// Transcribe and Diarize hit the single-capability endpoints, and their Raw
// variants return the upstream JSON untouched for pass-through handlers.
// The transport is swappable so callers can be tested without a network.
package speechservice
