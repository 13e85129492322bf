package analysis

import (
	"github.com/kbukum/voicelens/diarization"
	"github.com/kbukum/voicelens/emotion"
	"github.com/kbukum/voicelens/transcription"
)

// Result is the merged analysis returned to clients. Absent sections
// encode as null.
type Result struct {
	Success         bool                  `json:"success" yaml:"success"`
	Transcription   *transcription.Result `json:"transcription" yaml:"transcription"`
	Diarization     *diarization.Result   `json:"diarization" yaml:"diarization"`
	EmotionAnalysis *emotion.Summary      `json:"emotion_analysis" yaml:"emotion_analysis"`
}

// VoiceResult is the emotion-only analysis.
type VoiceResult struct {
	Success     bool            `json:"success" yaml:"success"`
	Emotions    []emotion.Score `json:"emotions" yaml:"emotions"`
	TotalFrames int             `json:"totalFrames" yaml:"total_frames"`
}
