package transcription

import "strings"

// Result is a transcript as returned by the speech service.
type Result struct {
	Text     string    `json:"text" yaml:"text"`
	Language string    `json:"language" yaml:"language"`
	Segments []Segment `json:"segments" yaml:"segments"`
}

// Segment is a time-aligned piece of the transcript, in seconds.
type Segment struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
	Text  string  `json:"text" yaml:"text"`
}

// Duration returns the end of the last segment, or 0 without segments.
func (r *Result) Duration() float64 {
	if r == nil || len(r.Segments) == 0 {
		return 0
	}
	return r.Segments[len(r.Segments)-1].End
}

// WordCount counts whitespace-separated words in the full text.
func (r *Result) WordCount() int {
	if r == nil {
		return 0
	}
	return len(strings.Fields(r.Text))
}
