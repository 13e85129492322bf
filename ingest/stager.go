package ingest

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/voicelens/logger"
	"github.com/kbukum/voicelens/storage"
	"github.com/kbukum/voicelens/util"
)

// Staging key prefixes, one per kind of request.
const (
	PrefixUpload  = "upload"
	PrefixAnalyze = "analyze"
	PrefixFull    = "full"
)

var knownPrefixes = []string{PrefixUpload, PrefixAnalyze, PrefixFull}

// Stager writes per-request copies of payloads to a storage backend.
type Stager struct {
	store storage.Storage
	log   *logger.Logger
	now   func() time.Time
}

// NewStager creates a Stager over store.
func NewStager(store storage.Storage, log *logger.Logger) *Stager {
	if log == nil {
		log = logger.Nop()
	}
	return &Stager{store: store, log: log.WithComponent("stager"), now: time.Now}
}

// Staged is a payload copy held in the staging area until Release.
type Staged struct {
	Key      string
	Filename string
	MIMEType string
	stager   *Stager
}

// Key builds a staging key: <prefix>-<unix millis>-<8 hex>-<sanitized name>.
func (s *Stager) Key(prefix, filename string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%d-%s-%s", prefix, s.now().UnixMilli(), id, util.SanitizeFilename(filename))
}

// Stage stores p under a fresh key.
func (s *Stager) Stage(ctx context.Context, prefix string, p Payload) (*Staged, error) {
	key := s.Key(prefix, p.Filename)
	if err := s.store.Upload(ctx, key, p.Reader()); err != nil {
		return nil, fmt.Errorf("stage %s: %w", key, err)
	}
	s.log.Debug("payload staged", logger.Fields(logger.FieldFile, key, logger.FieldSize, p.Size()))
	return &Staged{Key: key, Filename: p.Filename, MIMEType: p.MIMEType, stager: s}, nil
}

// Open reads the staged copy back into a Payload.
func (st *Staged) Open(ctx context.Context) (Payload, error) {
	rc, err := st.stager.store.Download(ctx, st.Key)
	if err != nil {
		return Payload{}, fmt.Errorf("open staged %s: %w", st.Key, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return Payload{}, fmt.Errorf("read staged %s: %w", st.Key, err)
	}
	return Payload{data: data, Filename: st.Filename, MIMEType: st.MIMEType}, nil
}

// Release deletes the staged copy. Failures are logged, not returned, so it
// can be deferred on every exit path. The delete runs even if ctx is done.
func (st *Staged) Release(ctx context.Context) {
	if st == nil {
		return
	}
	if err := st.stager.store.Delete(context.WithoutCancel(ctx), st.Key); err != nil {
		st.stager.log.Warn("failed to remove staged file", logger.Fields(logger.FieldFile, st.Key, logger.FieldError, err.Error()))
	}
}

// Sweep removes staged files older than maxAge, left behind by a crash.
// It returns the number of files removed.
func (s *Stager) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	files, err := s.store.List(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("sweep staging: %w", err)
	}
	cutoff := s.now().Add(-maxAge)
	removed := 0
	for _, f := range files {
		if !isStagedKey(f.Key) || f.LastModified.After(cutoff) {
			continue
		}
		if err := s.store.Delete(ctx, f.Key); err != nil {
			s.log.Warn("failed to sweep staged file", logger.Fields(logger.FieldFile, f.Key, logger.FieldError, err.Error()))
			continue
		}
		removed++
	}
	if removed > 0 {
		s.log.Info("swept stale staged files", logger.Fields("removed", removed))
	}
	return removed, nil
}

func isStagedKey(key string) bool {
	for _, p := range knownPrefixes {
		if strings.HasPrefix(key, p+"-") {
			return true
		}
	}
	return false
}
