package speechservice

import (
	"github.com/kbukum/voicelens/diarization"
	"github.com/kbukum/voicelens/transcription"
)

// Analysis is the combined result of /analyze-full. Diarization is nil when
// the service has no diarization pipeline loaded.
type Analysis struct {
	Transcription *transcription.Result `json:"transcription"`
	Diarization   *diarization.Result   `json:"diarization"`
}

// Health is the service's self-reported state.
type Health struct {
	Status            string `json:"status"`
	WhisperLoaded     bool   `json:"whisper_loaded"`
	DiarizationLoaded bool   `json:"diarization_loaded"`
}

type analyzeResponse struct {
	Success       bool                  `json:"success"`
	Transcription *transcription.Result `json:"transcription"`
	Diarization   *diarization.Result   `json:"diarization"`
}
