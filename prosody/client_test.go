package prosody

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "github.com/kbukum/voicelens/errors"
	"github.com/kbukum/voicelens/ingest"
)

// fakeHume serves the batch API. Status checks answer IN_PROGRESS until
// pending reaches zero, then final.
type fakeHume struct {
	mu       sync.Mutex
	pending  int
	final    Status
	message  string
	checks   int
	submits  int
	apiKey   string
	jsonPart string
	fileName string
	fileData string
}

func (f *fakeHume) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.apiKey = r.Header.Get(APIKeyHeader)

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v0/batch/jobs":
			f.submits++
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("ParseMultipartForm: %v", err)
			}
			f.jsonPart = r.FormValue("json")
			file, fh, err := r.FormFile("file")
			if err == nil {
				data, _ := io.ReadAll(file)
				_ = file.Close()
				f.fileName, f.fileData = fh.Filename, string(data)
			}
			_, _ = w.Write([]byte(`{"job_id":"job-123"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/v0/batch/jobs/job-123":
			f.checks++
			status := StatusInProgress
			if f.pending == 0 {
				status = f.final
			} else {
				f.pending--
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"state": map[string]any{"status": status, "message": f.message},
			})
		case r.Method == http.MethodGet && r.URL.Path == "/v0/batch/jobs/job-123/predictions":
			_, _ = w.Write([]byte(`[{"results":{"predictions":[]}}]`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

type countingSleep struct {
	calls int
	total time.Duration
}

func (s *countingSleep) Sleep(ctx context.Context, d time.Duration) error {
	s.calls++
	s.total += d
	return ctx.Err()
}

func newTestClient(t *testing.T, f *fakeHume, cfg Config) (*Client, *countingSleep) {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	cfg.BaseURL = srv.URL
	if cfg.APIKey == "" {
		cfg.APIKey = "test-key"
	}
	sleep := &countingSleep{}
	c, err := New(cfg, nil, WithSleep(sleep.Sleep))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, sleep
}

func audio() ingest.Payload {
	return ingest.NewPayload([]byte("mp3-bytes"), "voice.mp3", "audio/mpeg")
}

func TestSubmitAndAwait_CompletesAfterNChecks(t *testing.T) {
	const n = 3
	f := &fakeHume{pending: n, final: StatusCompleted}
	c, sleep := newTestClient(t, f, Config{})

	raw, err := c.SubmitAndAwait(context.Background(), audio())
	if err != nil {
		t.Fatalf("SubmitAndAwait: %v", err)
	}
	if f.checks != n+1 {
		t.Errorf("expected %d status checks, got %d", n+1, f.checks)
	}
	if sleep.calls != n+1 || sleep.total != time.Duration(n+1)*DefaultPollInterval {
		t.Errorf("expected a 2s wait before every check, got %d waits totalling %v", sleep.calls, sleep.total)
	}
	if !strings.HasPrefix(string(raw), "[") {
		t.Errorf("expected raw predictions array, got %s", raw)
	}
	if f.apiKey != "test-key" {
		t.Errorf("api key header = %q", f.apiKey)
	}
	if f.jsonPart != `{"models":{"prosody":{}}}` {
		t.Errorf("json part = %q", f.jsonPart)
	}
	if f.fileName != "voice.mp3" || f.fileData != "mp3-bytes" {
		t.Errorf("file part = %q %q", f.fileName, f.fileData)
	}
}

func TestSubmitAndAwait_TimeoutAfterMaxAttempts(t *testing.T) {
	f := &fakeHume{pending: 1000, final: StatusCompleted}
	c, _ := newTestClient(t, f, Config{MaxAttempts: 5})

	_, err := c.SubmitAndAwait(context.Background(), audio())
	if !errors.Is(err, ErrJobTimeout) {
		t.Fatalf("expected ErrJobTimeout, got %v", err)
	}
	if errors.Is(err, ErrJobFailed) {
		t.Error("timeout must not match ErrJobFailed")
	}
	if f.checks != 5 {
		t.Errorf("expected exactly 5 checks, got %d", f.checks)
	}
	if !apperrors.HasCode(err, apperrors.ErrCodeJobTimeout) {
		t.Errorf("expected JOB_TIMEOUT code, got %v", err)
	}
	appErr, _ := apperrors.AsAppError(err)
	if appErr.Message != "Analysis timeout - job did not complete in time" {
		t.Errorf("message = %q", appErr.Message)
	}
}

func TestSubmitAndAwait_JobFailed(t *testing.T) {
	f := &fakeHume{pending: 1, final: StatusFailed, message: "unsupported media"}
	c, _ := newTestClient(t, f, Config{})

	_, err := c.SubmitAndAwait(context.Background(), audio())
	if !errors.Is(err, ErrJobFailed) {
		t.Fatalf("expected ErrJobFailed, got %v", err)
	}
	appErr, _ := apperrors.AsAppError(err)
	if appErr == nil || appErr.Message != "Hume job failed: unsupported media" {
		t.Errorf("unexpected error %v", err)
	}
	if f.checks != 2 {
		t.Errorf("expected polling to stop at FAILED, got %d checks", f.checks)
	}
}

func TestSubmit_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid ApiKey"}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, APIKey: "bad"}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = c.Submit(context.Background(), audio())
	if !apperrors.HasCode(err, apperrors.ErrCodeUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid ApiKey") {
		t.Errorf("expected provider message, got %v", err)
	}
}

func TestAwait_ContextCanceled(t *testing.T) {
	f := &fakeHume{pending: 1000}
	c, _ := newTestClient(t, f, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Await(ctx, "job-123")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if f.checks != 0 {
		t.Errorf("expected no checks after cancel, got %d", f.checks)
	}
}

func TestClient_IsAvailable(t *testing.T) {
	c, err := New(Config{APIKey: "your_actual_api_key_here"}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.IsAvailable(context.Background()) {
		t.Error("placeholder key should not count as configured")
	}
	c, _ = New(Config{APIKey: "real"}, nil)
	if !c.IsAvailable(context.Background()) || c.Name() != ProviderName {
		t.Error("expected available hume provider")
	}
}

func TestProsodyModel_BothSpellings(t *testing.T) {
	for _, key := range []string{"grouped_predictions", "groupedPredictions"} {
		var m ProsodyModel
		body := `{"` + key + `":[{"id":"unknown","predictions":[{"emotions":[{"name":"Joy","score":0.5}]}]}]}`
		if err := json.Unmarshal([]byte(body), &m); err != nil {
			t.Fatalf("%s: %v", key, err)
		}
		if len(m.GroupedPredictions) != 1 || m.GroupedPredictions[0].Predictions[0].Emotions[0].Name != "Joy" {
			t.Errorf("%s: decoded %+v", key, m)
		}
	}
}

func TestDecodePredictions_DropsMalformedElements(t *testing.T) {
	body := `[
		{"results":{"predictions":[{"models":{"prosody":{"grouped_predictions":[
			{"id":"a","predictions":[
				{"emotions":[{"name":"Joy","score":"high"},{"name":"Awe","score":0.3}]},
				{"emotions":[{"name":"Joy","score":0.7}]},
				{"time":"soon","emotions":[]}
			]},
			"bad group"
		]}}}]}},
		42
	]`
	files, err := DecodePredictions([]byte(body))
	if err != nil {
		t.Fatalf("DecodePredictions: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	groups := files[0].Results.Predictions[0].Models.Prosody.GroupedPredictions
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	frames := groups[0].Predictions
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if len(frames[0].Emotions) != 1 || frames[0].Emotions[0].Name != "Awe" {
		t.Errorf("first frame emotions = %+v", frames[0].Emotions)
	}

	if _, err := DecodePredictions([]byte(`{"error":"nope"}`)); err == nil {
		t.Error("expected an error for a non-array body")
	}
}

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	pc := cfg.PollConfig()
	if pc.Interval != 2*time.Second || pc.MaxAttempts != 60 {
		t.Errorf("unexpected poll config %+v", pc)
	}
	if cfg.KeyConfigured() {
		t.Error("empty key should not be configured")
	}
}
