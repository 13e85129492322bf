// Package analysis runs the speech service and the prosody provider over
// one upload and merges their results.
//
// Run is sequential: transcription and diarization first, and only on
// success the emotion path. A failed speech call fails the request; a failed
// emotion call only leaves EmotionAnalysis empty. AnalyzeVoice runs the
// emotion path alone, where every failure is fatal.
package analysis
