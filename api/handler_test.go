package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicelens/analysis"
	"github.com/kbukum/voicelens/emotion"
	apperrors "github.com/kbukum/voicelens/errors"
	"github.com/kbukum/voicelens/ingest"
	"github.com/kbukum/voicelens/speechservice"
	"github.com/kbukum/voicelens/transcription"
	"github.com/kbukum/voicelens/tts"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAnalyzer struct {
	runCalls   int
	voiceCalls int
	got        ingest.Payload
	result     *analysis.Result
	voice      *analysis.VoiceResult
	err        error
}

func (f *fakeAnalyzer) Run(_ context.Context, audio ingest.Payload) (*analysis.Result, error) {
	f.runCalls++
	f.got = audio
	return f.result, f.err
}

func (f *fakeAnalyzer) AnalyzeVoice(_ context.Context, audio ingest.Payload) (*analysis.VoiceResult, error) {
	f.voiceCalls++
	f.got = audio
	return f.voice, f.err
}

type fakeSpeech struct {
	calls  int
	body   []byte
	err    error
	health *speechservice.Health
}

func (f *fakeSpeech) TranscribeRaw(context.Context, ingest.Payload) ([]byte, error) {
	f.calls++
	return f.body, f.err
}

func (f *fakeSpeech) DiarizeRaw(context.Context, ingest.Payload) ([]byte, error) {
	f.calls++
	return f.body, f.err
}

func (f *fakeSpeech) Health(context.Context) (*speechservice.Health, error) {
	if f.health == nil {
		return nil, apperrors.Upstream("speech service", "", fmt.Errorf("connection refused"))
	}
	return f.health, nil
}

type fakeProvider struct{ available bool }

func (f fakeProvider) Name() string { return "hume" }
func (f fakeProvider) IsAvailable(context.Context) bool { return f.available }

func newRouter(deps Deps) *gin.Engine {
	r := gin.New()
	NewHandler(deps, nil).Register(r)
	return r
}

func uploadRequest(t *testing.T, path, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, ingest.FormField, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write(data)
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()
	var body apperrors.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not JSON: %v (%s)", err, rec.Body.String())
	}
	return body
}

func TestAnalyzeFull(t *testing.T) {
	fa := &fakeAnalyzer{result: &analysis.Result{
		Success:       true,
		Transcription: &transcription.Result{Text: "hello", Language: "en"},
		EmotionAnalysis: &emotion.Summary{
			Emotions:    []emotion.Score{{Name: "Joy", Score: 0.42}},
			TotalFrames: 2,
		},
	}}
	r := newRouter(Deps{Analyzer: fa})

	for _, path := range []string{"/analyze-full", "/api/analyze-full"} {
		rec := do(r, uploadRequest(t, path, "call.webm", "audio/webm;codecs=opus", []byte("audio-bytes")))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", path, rec.Code, rec.Body.String())
		}
		var body map[string]json.RawMessage
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		for _, key := range []string{"success", "transcription", "diarization", "emotion_analysis"} {
			if _, ok := body[key]; !ok {
				t.Errorf("%s: missing key %q in %s", path, key, rec.Body.String())
			}
		}
		if string(body["diarization"]) != "null" {
			t.Errorf("absent diarization should be null, got %s", body["diarization"])
		}
	}
	if fa.runCalls != 2 {
		t.Errorf("expected 2 runs, got %d", fa.runCalls)
	}
	if fa.got.Filename != "call.webm" || string(fa.got.Bytes()) != "audio-bytes" {
		t.Errorf("payload not forwarded intact: %+v", fa.got)
	}
}

func TestUpload_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		req       func(t *testing.T) *http.Request
		wantError string
	}{
		{
			name: "missing file",
			req: func(*testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/analyze-voice", strings.NewReader("{}"))
			},
			wantError: "No audio file provided",
		},
		{
			name: "oversized",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/api/analyze-voice", "big.wav", "audio/wav", make([]byte, 64))
			},
			wantError: "File too large",
		},
		{
			name: "not audio",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/api/analyze-voice", "notes.txt", "text/plain", []byte("hi"))
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fa := &fakeAnalyzer{}
			r := newRouter(Deps{Analyzer: fa, MaxUpload: 32})

			rec := do(r, tc.req(t))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			if body := decodeError(t, rec); tc.wantError != "" && body.Error != tc.wantError {
				t.Errorf("expected %q, got %q", tc.wantError, body.Error)
			}
			if fa.voiceCalls != 0 || fa.runCalls != 0 {
				t.Errorf("expected no upstream calls, got voice=%d run=%d", fa.voiceCalls, fa.runCalls)
			}
		})
	}
}

func TestAnalyzeVoice(t *testing.T) {
	fa := &fakeAnalyzer{voice: &analysis.VoiceResult{
		Success:     true,
		Emotions:    []emotion.Score{{Name: "Calmness", Score: 0.3}},
		TotalFrames: 4,
	}}
	rec := do(newRouter(Deps{Analyzer: fa}), uploadRequest(t, "/api/analyze-voice", "a.wav", "audio/wav", []byte("x")))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Success     bool            `json:"success"`
		Emotions    []emotion.Score `json:"emotions"`
		TotalFrames int             `json:"totalFrames"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if !body.Success || body.TotalFrames != 4 || len(body.Emotions) != 1 {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestAnalyzeVoice_JobFailed(t *testing.T) {
	fa := &fakeAnalyzer{err: apperrors.JobFailed("job-1", "corrupt file")}
	rec := do(newRouter(Deps{Analyzer: fa}), uploadRequest(t, "/api/analyze-voice", "a.wav", "audio/wav", []byte("x")))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body.Error != MsgAnalyzeVoice || body.Details != "Hume job failed: corrupt file" {
		t.Errorf("unexpected error body %+v", body)
	}
}

func TestTranscribe_PassThrough(t *testing.T) {
	raw := []byte(`{"text":"привет","language":"ru","segments":[],"extra":{"kept":true}}`)
	fs := &fakeSpeech{body: raw}
	rec := do(newRouter(Deps{Speech: fs}), uploadRequest(t, "/api/transcribe", "a.ogg", "audio/ogg", []byte("x")))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !bytes.Equal(rec.Body.Bytes(), raw) {
		t.Errorf("body changed in transit: %s", rec.Body.String())
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		t.Errorf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
}

func TestDiarize_Unavailable(t *testing.T) {
	fs := &fakeSpeech{err: apperrors.UpstreamUnavailable("speech service", "Speaker diarization not available", nil)}
	rec := do(newRouter(Deps{Speech: fs}), uploadRequest(t, "/api/diarize", "a.wav", "audio/wav", []byte("x")))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body.Error != MsgDiarize || body.Details != "Speaker diarization not available" {
		t.Errorf("unexpected error body %+v", body)
	}
	if fs.calls != 1 {
		t.Errorf("expected one upstream call, got %d", fs.calls)
	}
}

func TestHealth(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		fs := &fakeSpeech{health: &speechservice.Health{Status: "ok", WhisperLoaded: true}}
		rec := do(newRouter(Deps{Speech: fs, Prosody: fakeProvider{available: true}}), httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

		want := `{"status":"ok","apiKeyConfigured":true,"pythonService":{"reachable":true,"whisper_loaded":true,"diarization_loaded":false}}`
		if got := strings.TrimSpace(rec.Body.String()); got != want {
			t.Errorf("unexpected body\n got: %s\nwant: %s", got, want)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		rec := do(newRouter(Deps{Speech: &fakeSpeech{}, Prosody: fakeProvider{}}), httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		want := `{"status":"ok","apiKeyConfigured":false,"pythonService":{"reachable":false}}`
		if got := strings.TrimSpace(rec.Body.String()); got != want {
			t.Errorf("unexpected body\n got: %s\nwant: %s", got, want)
		}
	})
}

func newSynthesizer(t *testing.T, h http.HandlerFunc) *tts.Service {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	s, err := tts.New(tts.Config{APIKey: "k", BaseURL: srv.URL}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func speechRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/tts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSpeech_StreamsAudioChunks(t *testing.T) {
	synth := newSynthesizer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, `{"type":"audio","audio":"AAA","chunk_index":0}`)
		fmt.Fprintln(w, `{"type":"timestamp","time":{"begin":0}}`)
		fmt.Fprintln(w, `{"type":"audio","audio":"BBB","chunk_index":1}`)
	})
	rec := do(newRouter(Deps{Synthesizer: synth}), speechRequest(`{"text":"I understand","emotion":"calm"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != tts.ContentType {
		t.Errorf("unexpected content type %q", got)
	}
	if rec.Header().Get("Cache-Control") != "no-cache" {
		t.Error("expected Cache-Control: no-cache")
	}

	var audio []string
	sc := bufio.NewScanner(rec.Body)
	for sc.Scan() {
		var chunk map[string]any
		if err := json.Unmarshal(sc.Bytes(), &chunk); err != nil {
			t.Fatalf("line is not JSON: %q", sc.Text())
		}
		if chunk["type"] != "audio" {
			t.Errorf("non-audio chunk forwarded: %v", chunk)
		}
		audio = append(audio, chunk["audio"].(string))
	}
	if len(audio) != 2 || audio[0] != "AAA" || audio[1] != "BBB" {
		t.Errorf("unexpected audio chunks %v", audio)
	}
}

func TestSpeech_Errors(t *testing.T) {
	upstreamCalls := 0
	synth := newSynthesizer(t, func(w http.ResponseWriter, _ *http.Request) {
		upstreamCalls++
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"invalid api key"}`)
	})
	r := newRouter(Deps{Synthesizer: synth})

	rec := do(r, speechRequest(`{"text":"   "}`))
	if rec.Code != http.StatusBadRequest || decodeError(t, rec).Error != tts.MsgInvalidText {
		t.Errorf("blank text: got %d %s", rec.Code, rec.Body.String())
	}
	rec = do(r, speechRequest(`not json`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid body: got %d", rec.Code)
	}
	if upstreamCalls != 0 {
		t.Errorf("expected no upstream calls for invalid requests, got %d", upstreamCalls)
	}

	rec = do(r, speechRequest(`{"text":"hello"}`))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body.Error != MsgSpeech || !strings.Contains(body.Details, "invalid api key") {
		t.Errorf("unexpected error body %+v", body)
	}
}
