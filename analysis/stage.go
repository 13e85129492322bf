package analysis

// Stage is a step of the per-request analysis state machine:
//
//	INGESTED -> TRANSCRIBING_DIARIZING -> FAILED
//	                                   -> EMOTION_ANALYZING -> EMOTION_FAILED -> ASSEMBLED
//	                                                        -> EMOTION_DONE   -> ASSEMBLED
type Stage string

const (
	StageIngested              Stage = "INGESTED"
	StageTranscribingDiarizing Stage = "TRANSCRIBING_DIARIZING"
	StageFailed                Stage = "FAILED"
	StageEmotionAnalyzing      Stage = "EMOTION_ANALYZING"
	StageEmotionFailed         Stage = "EMOTION_FAILED"
	StageEmotionDone           Stage = "EMOTION_DONE"
	StageAssembled             Stage = "ASSEMBLED"
)

var transitions = map[Stage][]Stage{
	StageIngested:              {StageTranscribingDiarizing, StageEmotionAnalyzing},
	StageTranscribingDiarizing: {StageFailed, StageEmotionAnalyzing},
	StageEmotionAnalyzing:      {StageEmotionFailed, StageEmotionDone},
	StageEmotionFailed:         {StageAssembled},
	StageEmotionDone:           {StageAssembled},
}

// CanTransition reports whether next may follow s.
func (s Stage) CanTransition(next Stage) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Terminal reports whether s ends the request.
func (s Stage) Terminal() bool {
	return s == StageFailed || s == StageAssembled
}
