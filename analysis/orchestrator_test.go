package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/kbukum/voicelens/diarization"
	apperrors "github.com/kbukum/voicelens/errors"
	"github.com/kbukum/voicelens/ingest"
	"github.com/kbukum/voicelens/logger"
	"github.com/kbukum/voicelens/prosody"
	"github.com/kbukum/voicelens/speechservice"
	"github.com/kbukum/voicelens/storage/local"
	"github.com/kbukum/voicelens/transcription"
)

type fakeSpeech struct {
	calls  int
	result *speechservice.Analysis
	err    error
	seen   []byte
}

func (f *fakeSpeech) Analyze(_ context.Context, audio ingest.Payload) (*speechservice.Analysis, error) {
	f.calls++
	f.seen = audio.Bytes()
	return f.result, f.err
}

type fakeProsody struct {
	calls int
	raw   json.RawMessage
	err   error
	seen  string
}

func (f *fakeProsody) Name() string                     { return "fake" }
func (f *fakeProsody) IsAvailable(context.Context) bool { return true }
func (f *fakeProsody) SubmitAndAwait(_ context.Context, audio ingest.Payload) (json.RawMessage, error) {
	f.calls++
	f.seen = audio.Filename
	return f.raw, f.err
}

const twoFrames = `[{"results":{"predictions":[{"models":{"prosody":{"grouped_predictions":[
	{"id":"unknown","predictions":[
		{"emotions":[{"name":"Joy","score":0.40},{"name":"Calmness","score":0.12}]},
		{"emotions":[{"name":"Joy","score":0.44},{"name":"Calmness","score":0.08}]}
	]}
]}}}]}}]`

func speechOK() *fakeSpeech {
	return &fakeSpeech{result: &speechservice.Analysis{
		Transcription: &transcription.Result{
			Text: "hello", Language: "en",
			Segments: []transcription.Segment{{Start: 0, End: 1, Text: "hello"}},
		},
		Diarization: &diarization.Result{Speakers: []string{"SPEAKER_00"}, NumSpeakers: 1},
	}}
}

func audio() ingest.Payload {
	return ingest.NewPayload([]byte("wav"), "clip.wav", "audio/wav")
}

func newStager(t *testing.T) (*ingest.Stager, *local.Storage) {
	t.Helper()
	store, err := local.NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	return ingest.NewStager(store, logger.Nop()), store
}

func assertNoStagedFiles(t *testing.T, store *local.Storage) {
	t.Helper()
	files, err := store.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("staged files left behind: %v", files)
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestRun_EndToEnd(t *testing.T) {
	stager, store := newStager(t)
	speech := speechOK()
	pros := &fakeProsody{raw: json.RawMessage(twoFrames)}
	var stages []Stage
	o := New(speech, pros, stager, nil, WithStageObserver(func(s Stage) { stages = append(stages, s) }))

	res, err := o.Run(context.Background(), audio())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Success || res.Transcription.Language != "en" || res.Diarization.NumSpeakers != 1 {
		t.Errorf("unexpected result %+v", res)
	}
	em := res.EmotionAnalysis
	if em == nil || em.TotalFrames != 2 || len(em.Emotions) != 2 {
		t.Fatalf("unexpected emotion analysis %+v", em)
	}
	if em.Emotions[0].Name != "Joy" || !near(em.Emotions[0].Score, 0.42) {
		t.Errorf("first emotion = %+v", em.Emotions[0])
	}
	if em.Emotions[1].Name != "Calmness" || !near(em.Emotions[1].Score, 0.10) {
		t.Errorf("second emotion = %+v", em.Emotions[1])
	}

	if string(speech.seen) != "wav" || pros.seen != "clip.wav" {
		t.Errorf("providers did not get the staged audio: %q %q", speech.seen, pros.seen)
	}
	want := []Stage{StageIngested, StageTranscribingDiarizing, StageEmotionAnalyzing, StageEmotionDone, StageAssembled}
	if strings.Join(stageNames(stages), ",") != strings.Join(stageNames(want), ",") {
		t.Errorf("stages = %v, want %v", stages, want)
	}
	assertNoStagedFiles(t, store)

	data, _ := json.Marshal(res)
	for _, key := range []string{`"success":true`, `"transcription":`, `"diarization":`, `"emotion_analysis":{"emotions":`, `"totalFrames":2`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("JSON missing %s: %s", key, data)
		}
	}
}

func TestRun_TranscriptionFailureIsFatal(t *testing.T) {
	stager, store := newStager(t)
	speech := &fakeSpeech{err: apperrors.Upstream("speech service", "Whisper crashed", nil)}
	pros := &fakeProsody{raw: json.RawMessage(twoFrames)}
	var stages []Stage
	o := New(speech, pros, stager, nil, WithStageObserver(func(s Stage) { stages = append(stages, s) }))

	res, err := o.Run(context.Background(), audio())
	if err == nil || res != nil {
		t.Fatalf("expected failure, got %+v", res)
	}
	if pros.calls != 0 {
		t.Errorf("prosody must not be called, got %d calls", pros.calls)
	}
	if stages[len(stages)-1] != StageFailed {
		t.Errorf("final stage = %s", stages[len(stages)-1])
	}
	assertNoStagedFiles(t, store)
}

func TestRun_EmotionFailureDegrades(t *testing.T) {
	for name, perr := range map[string]error{
		"job failed":  apperrors.JobFailed("j", "bad").WithCause(prosody.ErrJobFailed),
		"job timeout": apperrors.JobTimeout("j", 60).WithCause(prosody.ErrJobTimeout),
		"upstream":    errors.New("connection reset"),
	} {
		t.Run(name, func(t *testing.T) {
			stager, store := newStager(t)
			var stages []Stage
			o := New(speechOK(), &fakeProsody{err: perr}, stager, nil,
				WithStageObserver(func(s Stage) { stages = append(stages, s) }))

			res, err := o.Run(context.Background(), audio())
			if err != nil {
				t.Fatalf("emotion failure must not fail the request: %v", err)
			}
			if res.EmotionAnalysis != nil {
				t.Errorf("expected no emotion analysis, got %+v", res.EmotionAnalysis)
			}
			if res.Transcription == nil {
				t.Error("transcription should be kept")
			}
			if !containsStage(stages, StageEmotionFailed) || stages[len(stages)-1] != StageAssembled {
				t.Errorf("stages = %v", stages)
			}
			data, _ := json.Marshal(res)
			if !strings.Contains(string(data), `"emotion_analysis":null`) {
				t.Errorf("expected null emotion_analysis: %s", data)
			}
			assertNoStagedFiles(t, store)
		})
	}
}

func TestAnalyzeVoice(t *testing.T) {
	stager, store := newStager(t)
	o := New(speechOK(), &fakeProsody{raw: json.RawMessage(twoFrames)}, stager, nil)

	res, err := o.AnalyzeVoice(context.Background(), audio())
	if err != nil {
		t.Fatalf("AnalyzeVoice: %v", err)
	}
	if !res.Success || res.TotalFrames != 2 || res.Emotions[0].Name != "Joy" {
		t.Errorf("unexpected result %+v", res)
	}
	assertNoStagedFiles(t, store)

	data, _ := json.Marshal(res)
	if !strings.Contains(string(data), `"totalFrames":2`) {
		t.Errorf("JSON = %s", data)
	}
}

func TestAnalyzeVoice_JobErrorsAreFatal(t *testing.T) {
	stager, store := newStager(t)
	perr := apperrors.JobTimeout("j", 60).WithCause(prosody.ErrJobTimeout)
	o := New(nil, &fakeProsody{err: perr}, stager, nil)

	_, err := o.AnalyzeVoice(context.Background(), audio())
	if !errors.Is(err, prosody.ErrJobTimeout) {
		t.Fatalf("expected ErrJobTimeout, got %v", err)
	}
	assertNoStagedFiles(t, store)
}

func TestAnalyzeVoice_EmptyPredictions(t *testing.T) {
	o := New(nil, &fakeProsody{raw: json.RawMessage(`[]`)}, nil, nil)
	res, err := o.AnalyzeVoice(context.Background(), audio())
	if err != nil {
		t.Fatalf("AnalyzeVoice: %v", err)
	}
	if len(res.Emotions) != 0 || res.TotalFrames != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
	data, _ := json.Marshal(res)
	if !strings.Contains(string(data), `"emotions":[]`) {
		t.Errorf("emotions should encode as an empty list: %s", data)
	}
}

func TestStage_Transitions(t *testing.T) {
	if !StageIngested.CanTransition(StageTranscribingDiarizing) {
		t.Error("INGESTED -> TRANSCRIBING_DIARIZING should be legal")
	}
	if StageFailed.CanTransition(StageEmotionAnalyzing) {
		t.Error("FAILED is terminal")
	}
	if StageEmotionDone.CanTransition(StageEmotionFailed) {
		t.Error("EMOTION_DONE cannot become EMOTION_FAILED")
	}
	if !StageAssembled.Terminal() || StageEmotionDone.Terminal() {
		t.Error("unexpected Terminal results")
	}
}

func stageNames(ss []Stage) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return out
}

func containsStage(ss []Stage, s Stage) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}
