package report

import (
	"strings"
	"unicode"

	"github.com/kbukum/voicelens/emotion"
)

// FormatEmotionName splits a CamelCase name into capitalized words:
// "EmpathicPain" becomes "Empathic Pain".
func FormatEmotionName(name string) string {
	var words []string
	var cur []rune
	for _, r := range name {
		if unicode.IsUpper(r) || unicode.IsSpace(r) {
			if len(cur) > 0 {
				words = append(words, string(cur))
			}
			cur = cur[:0]
			if unicode.IsSpace(r) {
				continue
			}
		}
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		words = append(words, string(cur))
	}
	for i, w := range words {
		rs := []rune(strings.ToLower(w))
		rs[0] = unicode.ToUpper(rs[0])
		words[i] = string(rs)
	}
	return strings.Join(words, " ")
}

// Intensity names how strongly an emotion registers.
func Intensity(score float64) string {
	switch {
	case score > 0.25:
		return "strong"
	case score > 0.15:
		return "notable"
	case score > 0.08:
		return "moderate"
	default:
		return "subtle"
	}
}

var glosses = map[string]string{
	"determination": "(focused resolve)",
	"concentration": "(mental focus)",
	"interest":      "(engaged attention)",
	"excitement":    "(energetic enthusiasm)",
	"calmness":      "(peaceful composure)",
	"contemplation": "(thoughtful reflection)",
	"admiration":    "(respectful appreciation)",
	"pride":         "(confident satisfaction)",
	"joy":           "(positive happiness)",
	"satisfaction":  "(contentment)",
	"anxiety":       "(worried tension)",
	"anger":         "(intense frustration)",
	"confusion":     "(uncertain puzzlement)",
	"distress":      "(emotional discomfort)",
	"love":          "(warm affection)",
	"amusement":     "(lighthearted enjoyment)",
}

// Summary thresholds for mentioning the second and third emotions.
const (
	secondEmotionMin = 0.05
	thirdEmotionMin  = 0.07
)

func phrase(parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// Summarize describes the top three emotions of a ranked list in a few
// sentences.
func Summarize(emotions []emotion.Score) string {
	if len(emotions) == 0 {
		return "Insufficient data for analysis."
	}

	names := make([]string, 3)
	scores := make([]float64, 3)
	for i := 0; i < 3 && i < len(emotions); i++ {
		names[i] = strings.ToLower(FormatEmotionName(emotions[i].Name))
		scores[i] = emotions[i].Score
	}
	set := map[string]bool{names[0]: true, names[1]: true, names[2]: true}

	var b strings.Builder
	b.WriteString("This voice demonstrates ")
	b.WriteString(phrase(Intensity(scores[0]), names[0], glosses[names[0]]))
	if names[1] != "" && scores[1] > secondEmotionMin {
		b.WriteString(" combined with ")
		b.WriteString(phrase(Intensity(scores[1]), names[1], glosses[names[1]]))
	}

	switch {
	case set["determination"] && (set["anger"] || set["concentration"]):
		b.WriteString(". This blend suggests focused, goal-oriented communication with assertive energy")
	case set["determination"] && set["calmness"]:
		b.WriteString(". This combination indicates controlled, purposeful delivery")
	case set["anger"] && scores[0] > 0.15:
		b.WriteString(". The elevated intensity suggests passionate or frustrated expression")
	case set["calmness"] || set["contentment"]:
		b.WriteString(". This creates a measured, composed communication style")
	case set["anxiety"] || set["distress"]:
		b.WriteString(". There are signs of tension or concern in the delivery")
	case set["joy"] || set["excitement"]:
		b.WriteString(". The voice carries positive, energetic qualities")
	default:
		b.WriteString(", creating a distinct emotional tone")
	}

	if names[2] != "" && scores[2] > thirdEmotionMin {
		b.WriteString(". The ")
		b.WriteString(phrase(Intensity(scores[2]), names[2], glosses[names[2]]))
		b.WriteString(" adds nuance to the expression")
	}
	b.WriteString(".")
	return b.String()
}

// Sentiment classifies a single emotion name for display.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

var (
	positiveMarkers = []string{"joy", "contentment", "interest", "excitement", "admiration", "love", "pride", "amusement", "satisfaction", "relief"}
	negativeMarkers = []string{"anger", "annoyance", "anxiety", "fear", "disgust", "sadness", "distress", "pain", "contempt", "embarrassment", "shame"}
)

// SentimentOf classifies name by substring, positive first.
func SentimentOf(name string) Sentiment {
	lower := strings.ToLower(name)
	if containsAny(lower, positiveMarkers) {
		return SentimentPositive
	}
	if containsAny(lower, negativeMarkers) {
		return SentimentNegative
	}
	return SentimentNeutral
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
