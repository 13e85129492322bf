// Package api binds the analysis services to HTTP routes.
//
// Routes:
//
//	POST /api/tts            synthesized speech as NDJSON audio chunks
//	POST /api/analyze-voice  emotion-only analysis
//	POST /api/transcribe     speech service transcription, passed through
//	POST /api/diarize        speech service diarization, passed through
//	POST /api/analyze-full   transcription, diarization and emotions merged
//	POST /analyze-full       alias of /api/analyze-full
//	GET  /health             API key and speech service status
//
// Uploads use the multipart field "audio". Failures are answered as
// {"error": <operation message>, "details": <cause>}.
package api
