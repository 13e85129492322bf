package ingest

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/voicelens/logger"
	"github.com/kbukum/voicelens/storage/local"
)

func newTestStager(t *testing.T) (*Stager, *local.Storage) {
	t.Helper()
	store, err := local.NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	return NewStager(store, logger.Nop()), store
}

func TestStager_Key(t *testing.T) {
	s, _ := newTestStager(t)
	s.now = func() time.Time { return time.UnixMilli(1700000000123) }

	key := s.Key(PrefixFull, "../my recording.webm")
	if !regexp.MustCompile(`^full-1700000000123-[0-9a-f]{8}-my_recording\.webm$`).MatchString(key) {
		t.Errorf("unexpected key %q", key)
	}
	if s.Key(PrefixFull, "a.wav") == s.Key(PrefixFull, "a.wav") {
		t.Error("keys in the same millisecond must differ")
	}
}

func TestStager_StageOpenRelease(t *testing.T) {
	ctx := context.Background()
	s, store := newTestStager(t)

	staged, err := s.Stage(ctx, PrefixAnalyze, NewPayload([]byte("audio"), "a.wav", "audio/wav"))
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if !strings.HasPrefix(staged.Key, "analyze-") {
		t.Errorf("key = %q", staged.Key)
	}

	p, err := staged.Open(ctx)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if string(p.Bytes()) != "audio" || p.Filename != "a.wav" || p.MIMEType != "audio/wav" {
		t.Errorf("unexpected reopened payload %+v", p)
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	staged.Release(cctx)
	if ok, _ := store.Exists(ctx, staged.Key); ok {
		t.Error("staged file should be removed even with a canceled context")
	}
	staged.Release(ctx)
}

func TestStager_Sweep(t *testing.T) {
	ctx := context.Background()
	s, store := newTestStager(t)

	stale, _ := s.Stage(ctx, PrefixUpload, NewPayload([]byte("1"), "old.wav", "audio/wav"))
	_ = store.Upload(ctx, "unrelated.txt", strings.NewReader("keep"))

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	removed, err := s.Sweep(ctx, time.Hour)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if ok, _ := store.Exists(ctx, stale.Key); ok {
		t.Error("stale staged file should be gone")
	}
	if ok, _ := store.Exists(ctx, "unrelated.txt"); !ok {
		t.Error("non-staged file must be kept")
	}
}
