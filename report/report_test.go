package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/kbukum/voicelens/analysis"
	"github.com/kbukum/voicelens/diarization"
	"github.com/kbukum/voicelens/emotion"
	"github.com/kbukum/voicelens/transcription"
)

func sc(name string, score float64) emotion.Score {
	return emotion.Score{Name: name, Score: score}
}

func TestMachine(t *testing.T) {
	m := NewMachine()
	if m.State() != StateUploading {
		t.Fatalf("initial state %s", m.State())
	}
	if err := m.Transition(StateShowingResults); err == nil {
		t.Error("UPLOADING -> SHOWING_RESULTS should be rejected")
	}
	if m.State() != StateUploading {
		t.Error("rejected transition must not change state")
	}
	if err := m.Transition(StateProcessing); err != nil {
		t.Fatal(err)
	}
	if err := m.Finish(errors.New("upload failed")); err != nil || m.State() != StateShowingError {
		t.Errorf("Finish(err) -> %s, %v", m.State(), err)
	}
	if err := m.Transition(StateProcessing); err == nil {
		t.Error("SHOWING_ERROR -> PROCESSING should be rejected")
	}
	if err := m.Transition(StateUploading); err != nil {
		t.Errorf("reset failed: %v", err)
	}
	_ = m.Transition(StateProcessing)
	if err := m.Finish(nil); err != nil || m.State() != StateShowingResults {
		t.Errorf("Finish(nil) -> %s, %v", m.State(), err)
	}
}

func TestFormatEmotionName(t *testing.T) {
	tests := map[string]string{
		"Joy":                 "Joy",
		"EmpathicPain":        "Empathic Pain",
		"SurpriseNegative":    "Surprise Negative",
		"Surprise (positive)": "Surprise (positive)",
		"":                    "",
	}
	for in, want := range tests {
		if got := FormatEmotionName(in); got != want {
			t.Errorf("FormatEmotionName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIntensity(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.30, "strong"}, {0.2501, "strong"}, {0.25, "notable"},
		{0.16, "notable"}, {0.15, "moderate"}, {0.09, "moderate"},
		{0.08, "subtle"}, {0, "subtle"},
	}
	for _, tc := range tests {
		if got := Intensity(tc.score); got != tc.want {
			t.Errorf("Intensity(%v) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		emotions []emotion.Score
		contains []string
		excludes []string
	}{
		{
			name:     "empty",
			emotions: nil,
			contains: []string{"Insufficient data for analysis."},
		},
		{
			name:     "joy and calmness",
			emotions: []emotion.Score{sc("Joy", 0.42), sc("Calmness", 0.10)},
			contains: []string{
				"This voice demonstrates strong joy (positive happiness)",
				"combined with moderate calmness (peaceful composure)",
				"measured, composed communication style",
			},
		},
		{
			name:     "second below threshold",
			emotions: []emotion.Score{sc("Tiredness", 0.2), sc("Boredom", 0.05), sc("Awe", 0.04)},
			contains: []string{"notable tiredness, creating a distinct emotional tone."},
			excludes: []string{"combined with", "adds nuance"},
		},
		{
			name:     "third adds nuance",
			emotions: []emotion.Score{sc("Determination", 0.3), sc("Concentration", 0.2), sc("Interest", 0.1)},
			contains: []string{
				"goal-oriented communication with assertive energy",
				"The moderate interest (engaged attention) adds nuance to the expression.",
			},
		},
		{
			name:     "third at threshold",
			emotions: []emotion.Score{sc("Anger", 0.2), sc("Sadness", 0.1), sc("Fear", 0.07)},
			contains: []string{"passionate or frustrated expression."},
			excludes: []string{"adds nuance"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Summarize(tc.emotions)
			for _, c := range tc.contains {
				if !strings.Contains(got, c) {
					t.Errorf("summary %q missing %q", got, c)
				}
			}
			for _, c := range tc.excludes {
				if strings.Contains(got, c) {
					t.Errorf("summary %q should not contain %q", got, c)
				}
			}
		})
	}
}

func TestToneOf(t *testing.T) {
	tests := []struct {
		name     string
		emotions []emotion.Score
		want     Tone
	}{
		{"empty", nil, ToneNeutral},
		{"positive", []emotion.Score{sc("Joy", 0.2), sc("Amusement", 0.15), sc("Anger", 0.1)}, TonePositive},
		{"negative", []emotion.Score{sc("Anxiety", 0.25), sc("Distress", 0.1)}, ToneNegative},
		{"below threshold", []emotion.Score{sc("Joy", 0.3)}, ToneNeutral},
		{"tie", []emotion.Score{sc("Joy", 0.4), sc("Anger", 0.4)}, ToneNeutral},
		{"substring", []emotion.Score{sc("Surprise (positive)", 0.5), sc("Sadness", 0.35)}, ToneNegative},
	}
	for _, tc := range tests {
		if got := ToneOf(tc.emotions); got != tc.want {
			t.Errorf("%s: ToneOf = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestRepeatedWords(t *testing.T) {
	text := "Project deadline, project budget. The project! Budget? deadline deadline; it is it is. Да да да проект проект"
	got := RepeatedWords(text)

	want := []WordCount{
		{"project", 3, WordSmall},
		{"deadline", 3, WordSmall},
		{"budget", 2, WordSmall},
		{"проект", 2, WordSmall},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRepeatedWords_SizesAndLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString(strings.Repeat("alpha ", 11))
	b.WriteString(strings.Repeat("bravo ", 5))
	b.WriteString(strings.Repeat("charlie ", 4))
	for _, w := range []string{"delta", "echo", "foxtrot", "golf", "hotel", "india", "juliet", "kilo", "lima"} {
		b.WriteString(w + " " + w + " ")
	}
	got := RepeatedWords(b.String())

	if len(got) != 10 {
		t.Fatalf("expected 10 words, got %d", len(got))
	}
	if got[0].Word != "alpha" || got[0].Size != WordLarge {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Word != "bravo" || got[1].Size != WordMedium {
		t.Errorf("second = %+v", got[1])
	}
	if got[2].Size != WordSmall {
		t.Errorf("third = %+v", got[2])
	}
	if got[9].Word != "juliet" {
		t.Errorf("last kept word should be juliet, got %s", got[9].Word)
	}
}

func TestOverview(t *testing.T) {
	r := &analysis.Result{
		Transcription: &transcription.Result{
			Text:     "  one two three  four ",
			Language: "ru",
			Segments: []transcription.Segment{{End: 10}, {End: 83.9}},
		},
		Diarization:     &diarization.Result{Speakers: []string{"A", "B"}},
		EmotionAnalysis: &emotion.Summary{Emotions: []emotion.Score{sc("EmpathicPain", 0.416)}},
	}
	o := NewOverview(r)
	if o.Language != "Russian" || o.Duration != "1:23" || o.Words != 4 || o.Speakers != 2 {
		t.Errorf("unexpected overview %+v", o)
	}
	if o.PrimaryEmotion != "Empathic Pain (42%)" {
		t.Errorf("primary = %q", o.PrimaryEmotion)
	}

	empty := NewOverview(nil)
	if empty.Language != "Unknown" || empty.Duration != "0:00" || empty.PrimaryEmotion != "Not detected" || empty.Tone != ToneNeutral {
		t.Errorf("unexpected empty overview %+v", empty)
	}
	if LanguageName("de") != "DE" || LanguageName("en") != "English" {
		t.Error("LanguageName fallback")
	}
}

func TestRender(t *testing.T) {
	r := &analysis.Result{
		Success: true,
		Transcription: &transcription.Result{
			Text: "hello hello world", Language: "en",
			Segments: []transcription.Segment{{Start: 0, End: 65, Text: "hello hello world"}},
		},
		Diarization: &diarization.Result{
			NumSpeakers: 1, Speakers: []string{"SPEAKER_00"},
			Turns: []diarization.Turn{{Speaker: "SPEAKER_00", Start: 0, End: 65}},
		},
		EmotionAnalysis: &emotion.Summary{
			Emotions:    []emotion.Score{sc("Joy", 0.42), sc("Calmness", 0.10)},
			TotalFrames: 2,
		},
	}
	var buf bytes.Buffer
	if err := Render(&buf, r); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"== Overview ==", "Language:        English", "Duration:        1:05",
		"Primary emotion: Joy (42%)", "Emotional tone:  Positive",
		"strong joy (positive happiness)", "42.0%",
		"SPEAKER_00  00:00 - 01:05  (65.0s)",
		"Speaking time:", "SPEAKER_00  1:05",
		"hello (2)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRender_AbsentSections(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, &analysis.Result{Success: true}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Count(out, notAvailable) != 5 {
		t.Errorf("expected five unavailable markers:\n%s", out)
	}

	buf.Reset()
	if err := RenderVoice(&buf, &analysis.VoiceResult{Success: true, Emotions: []emotion.Score{}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No emotional data detected.") {
		t.Errorf("unexpected voice report %q", buf.String())
	}
}

func TestPrimaryEmotion(t *testing.T) {
	if got := PrimaryEmotion(emotion.Summary{}); got != "Not detected" {
		t.Errorf("empty summary = %q", got)
	}
	s := emotion.Summary{Emotions: []emotion.Score{sc("EmpathicPain", 0.42), sc("Joy", 0.1)}}
	if got := PrimaryEmotion(s); got != "Empathic Pain (42%)" {
		t.Errorf("PrimaryEmotion = %q", got)
	}
}

func TestRenderTranscription(t *testing.T) {
	var buf bytes.Buffer
	err := RenderTranscription(&buf, &transcription.Result{
		Text: " hi there ", Language: "ru",
		Segments: []transcription.Segment{{Start: 0, End: 83, Text: "hi there"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"== Transcription ==", "hi there", "Language: Russian", "Duration: 1:23", "Words:    2"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := RenderTranscription(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), notAvailable) {
		t.Errorf("expected unavailable marker, got %q", buf.String())
	}
}

func TestRenderSpeakers_SpeakingTime(t *testing.T) {
	d := &diarization.Result{Turns: []diarization.Turn{
		{Speaker: "B", Start: 0, End: 30},
		{Speaker: "A", Start: 30, End: 40, Duration: 10},
		{Speaker: "B", Start: 40, End: 100},
	}}
	var buf bytes.Buffer
	if err := RenderSpeakers(&buf, d); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Number of speakers detected: 2", "  B  1:30", "  A  0:10"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "  B  1:30") > strings.Index(out, "  A  0:10") {
		t.Errorf("speakers should follow first appearance:\n%s", out)
	}
	if d.Turns[0].Duration != 0 || len(d.Speakers) != 0 {
		t.Errorf("rendering must not modify the result: %+v", d)
	}
}
