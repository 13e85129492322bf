package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/kbukum/voicelens/analysis"
	"github.com/kbukum/voicelens/emotion"
	"github.com/kbukum/voicelens/transcription"
)

// Overview is the headline view of an analysis.
type Overview struct {
	Language       string `json:"language"`
	Duration       string `json:"duration"`
	Words          int    `json:"words"`
	Speakers       int    `json:"speakers"`
	PrimaryEmotion string `json:"primary_emotion"`
	Tone           Tone   `json:"tone"`
}

var languageNames = map[string]string{
	"ru": "Russian",
	"en": "English",
}

// LanguageName names a language code, falling back to the upper-cased code
// and to "Unknown" when there is none.
func LanguageName(code string) string {
	if code == "" {
		return "Unknown"
	}
	if name, ok := languageNames[code]; ok {
		return name
	}
	return strings.ToUpper(code)
}

// FormatDuration renders whole seconds as m:ss.
func FormatDuration(seconds float64) string {
	total := int(math.Floor(seconds))
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// PrimaryEmotion renders the top emotion of s as "Name (NN%)".
func PrimaryEmotion(s emotion.Summary) string {
	top, ok := s.Top()
	if !ok {
		return "Not detected"
	}
	return fmt.Sprintf("%s (%.0f%%)", FormatEmotionName(top.Name), top.Score*100)
}

// NewOverview builds the overview of r. Missing sections yield zero values.
func NewOverview(r *analysis.Result) Overview {
	var t *transcription.Result
	var summary emotion.Summary
	speakers := 0
	if r != nil {
		t = r.Transcription
		if r.EmotionAnalysis != nil {
			summary = *r.EmotionAnalysis
		}
		if r.Diarization != nil {
			speakers = r.Diarization.NumSpeakers
			if speakers == 0 {
				speakers = len(r.Diarization.Speakers)
			}
		}
	}

	o := Overview{
		Language:       "Unknown",
		Duration:       "0:00",
		Speakers:       speakers,
		PrimaryEmotion: PrimaryEmotion(summary),
		Tone:           ToneOf(summary.Emotions),
	}
	if t != nil {
		o.Language = LanguageName(t.Language)
		o.Duration = FormatDuration(t.Duration())
		o.Words = t.WordCount()
	}
	return o
}

// Tone is the overall emotional direction of a conversation.
type Tone string

const (
	TonePositive Tone = "Positive"
	ToneNegative Tone = "Negative"
	ToneNeutral  Tone = "Neutral"
)

var (
	tonePositive = []string{"joy", "excitement", "contentment", "amusement", "love", "admiration"}
	toneNegative = []string{"anger", "sadness", "anxiety", "fear", "distress", "disgust"}
)

// toneThreshold is the summed score a side needs to set the tone.
const toneThreshold = 0.3

// ToneOf sums scores of positive and negative emotions; the larger side
// wins when it exceeds the threshold, otherwise the tone is neutral.
func ToneOf(emotions []emotion.Score) Tone {
	var pos, neg float64
	for _, e := range emotions {
		name := strings.ToLower(e.Name)
		switch {
		case containsAny(name, tonePositive):
			pos += e.Score
		case containsAny(name, toneNegative):
			neg += e.Score
		}
	}
	switch {
	case pos > neg && pos > toneThreshold:
		return TonePositive
	case neg > pos && neg > toneThreshold:
		return ToneNegative
	default:
		return ToneNeutral
	}
}
