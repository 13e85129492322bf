package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/kbukum/voicelens/analysis"
	"github.com/kbukum/voicelens/diarization"
	"github.com/kbukum/voicelens/emotion"
	"github.com/kbukum/voicelens/transcription"
)

const (
	topEmotions  = 5
	notAvailable = "not available"
)

var sentimentMarks = map[Sentiment]string{
	SentimentPositive: "+",
	SentimentNegative: "-",
	SentimentNeutral:  "~",
}

// Render writes a plain-text report of r.
func Render(w io.Writer, r *analysis.Result) error {
	if r == nil {
		r = &analysis.Result{}
	}
	p := &printer{w: w}
	o := NewOverview(r)

	p.heading("Overview")
	p.line("Language:        %s", o.Language)
	p.line("Duration:        %s", o.Duration)
	p.line("Words:           %d", o.Words)
	if r.Diarization != nil {
		p.line("Speakers:        %d", o.Speakers)
	} else {
		p.line("Speakers:        %s", notAvailable)
	}
	p.line("Primary emotion: %s", o.PrimaryEmotion)
	p.line("Emotional tone:  %s", o.Tone)

	p.heading("Voice Analysis")
	if r.EmotionAnalysis == nil {
		p.line("%s", notAvailable)
	} else {
		p.emotions(*r.EmotionAnalysis)
	}

	p.heading("Transcription")
	p.transcription(r.Transcription)

	p.heading("Speakers")
	p.speakers(r.Diarization)

	p.heading("Most Repeated")
	if r.Transcription == nil {
		p.line("%s", notAvailable)
	} else if words := RepeatedWords(r.Transcription.Text); len(words) == 0 {
		p.line("(no repeated words)")
	} else {
		parts := make([]string, len(words))
		for i, wc := range words {
			parts[i] = fmt.Sprintf("%s (%d)", wc.Word, wc.Count)
		}
		p.line("%s", strings.Join(parts, ", "))
	}
	return p.err
}

// RenderVoice writes a plain-text report of an emotion-only analysis.
func RenderVoice(w io.Writer, r *analysis.VoiceResult) error {
	p := &printer{w: w}
	p.heading("Voice Analysis")
	if r == nil {
		p.line("%s", notAvailable)
		return p.err
	}
	p.emotions(emotion.Summary{Emotions: r.Emotions, TotalFrames: r.TotalFrames})
	return p.err
}

// RenderTranscription writes a plain-text report of a transcription.
func RenderTranscription(w io.Writer, t *transcription.Result) error {
	p := &printer{w: w}
	p.heading("Transcription")
	p.transcription(t)
	if t != nil {
		p.line("")
		p.line("Language: %s", LanguageName(t.Language))
		p.line("Duration: %s", FormatDuration(t.Duration()))
		p.line("Words:    %d", t.WordCount())
	}
	return p.err
}

// RenderSpeakers writes a plain-text report of a diarization.
func RenderSpeakers(w io.Writer, d *diarization.Result) error {
	p := &printer{w: w}
	p.heading("Speakers")
	p.speakers(d)
	return p.err
}

// printer remembers the first write error.
type printer struct {
	w       io.Writer
	err     error
	started bool
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) heading(title string) {
	if p.started {
		p.line("")
	}
	p.started = true
	p.line("== %s ==", title)
}

func (p *printer) emotions(s emotion.Summary) {
	if len(s.Emotions) == 0 {
		p.line("No emotional data detected.")
		return
	}
	p.line("%s", Summarize(s.Emotions))
	p.line("")
	n := topEmotions
	if len(s.Emotions) < n {
		n = len(s.Emotions)
	}
	for _, e := range s.Emotions[:n] {
		p.line("  %s %-22s %5.1f%%", sentimentMarks[SentimentOf(e.Name)], FormatEmotionName(e.Name), e.Score*100)
	}
	p.line("  (%d frames)", s.TotalFrames)
}

func (p *printer) transcription(t *transcription.Result) {
	switch {
	case t == nil:
		p.line("%s", notAvailable)
	case strings.TrimSpace(t.Text) == "":
		p.line("(no speech detected)")
	default:
		p.line("%s", strings.TrimSpace(t.Text))
	}
}

func (p *printer) speakers(d *diarization.Result) {
	if d == nil {
		p.line("%s", notAvailable)
		return
	}
	speakers := d.Speakers
	if len(speakers) == 0 {
		seen := make(map[string]bool)
		for _, t := range d.Turns {
			if !seen[t.Speaker] {
				seen[t.Speaker] = true
				speakers = append(speakers, t.Speaker)
			}
		}
	}
	count := d.NumSpeakers
	if count == 0 {
		count = len(speakers)
	}
	p.line("Number of speakers detected: %d", count)
	for _, t := range d.Turns {
		dur := t.Duration
		if dur == 0 {
			dur = t.End - t.Start
		}
		p.line("  %s  %s - %s  (%.1fs)", t.Speaker, formatClock(t.Start), formatClock(t.End), dur)
	}
	if len(speakers) == 0 {
		return
	}
	p.line("Speaking time:")
	totals := d.SpeakingTime()
	for _, s := range speakers {
		p.line("  %s  %s", s, FormatDuration(totals[s]))
	}
}

func formatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
