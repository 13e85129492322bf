// Package tts proxies emotional speech synthesis as newline-delimited JSON.
package tts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/kbukum/voicelens/errors"
	"github.com/kbukum/voicelens/httpclient"
	"github.com/kbukum/voicelens/logger"
	"github.com/kbukum/voicelens/observability"
	"github.com/kbukum/voicelens/validation"
)

const (
	pathStreamJSON = "/v0/tts/stream/json"

	// ContentType is the media type of a forwarded stream.
	ContentType = "application/x-ndjson"

	// MsgInvalidText is returned for a missing or blank text.
	MsgInvalidText = "Missing or invalid text parameter"
)

var descriptions = map[string]string{
	"calm":      "speaking calmly and reassuringly, with a gentle and peaceful tone",
	"irritated": "speaking with irritation and frustration, with a sharp and tense tone",
	"anxious":   "speaking with worry and concern, with a nervous and hesitant tone",
	"loving":    "speaking with warmth and affection, with a tender and caring tone",
}

// Describe returns the voice description for an emotion, or "" for unknown
// or empty emotions.
func Describe(emotion string) string {
	return descriptions[emotion]
}

// Request is the body of a synthesis request.
type Request struct {
	Text    string `json:"text" validate:"notblank"`
	Emotion string `json:"emotion,omitempty"`
}

// Validate rejects requests without usable text.
func (r Request) Validate() error {
	if err := validation.Validate(r); err != nil {
		return apperrors.MissingField("text", MsgInvalidText)
	}
	return nil
}

type utterance struct {
	Text        string `json:"text"`
	Description string `json:"description,omitempty"`
}

type format struct {
	Type string `json:"type"`
}

type upstreamRequest struct {
	Utterances   []utterance `json:"utterances"`
	StripHeaders bool        `json:"strip_headers"`
	Format       format      `json:"format"`
	InstantMode  bool        `json:"instant_mode"`
}

func newUpstreamRequest(r Request) upstreamRequest {
	return upstreamRequest{
		Utterances:   []utterance{{Text: strings.TrimSpace(r.Text), Description: Describe(r.Emotion)}},
		StripHeaders: true,
		Format:       format{Type: "mp3"},
		// Instant mode requires a fixed voice, which descriptions replace.
		InstantMode: false,
	}
}

// DefaultBaseURL is the synthesis API root.
const DefaultBaseURL = "https://api.hume.ai"

// Config configures the synthesis client.
type Config struct {
	APIKey  string
	BaseURL string
}

// Service opens synthesis streams.
type Service struct {
	http *httpclient.Client
	log  *logger.Logger
}

// New creates a Service.
func New(cfg Config, log *logger.Logger) (*Service, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	hc, err := httpclient.New(httpclient.Config{
		BaseURL: cfg.BaseURL,
		Auth:    httpclient.APIKeyAuthHeader(cfg.APIKey, "X-Hume-Api-Key"),
	})
	if err != nil {
		return nil, fmt.Errorf("tts http client: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{http: hc, log: log.WithComponent("tts")}, nil
}

// Stream is an open synthesis stream. Close it when done.
type Stream struct {
	resp *httpclient.StreamResponse
	log  *logger.Logger
}

// Open validates req and starts synthesis. Errors returned here happen
// before anything was written to the caller.
func (s *Service) Open(ctx context.Context, req Request) (*Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	log := s.log.WithContext(ctx)
	emotion := req.Emotion
	if emotion == "" {
		emotion = "neutral"
	}
	log.Info("generating speech", logger.Fields("emotion", emotion, "chars", len(req.Text)))

	resp, err := s.http.DoStream(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   pathStreamJSON,
		Body:   newUpstreamRequest(req),
	})
	if err != nil {
		msg := ""
		if hErr, ok := httpclient.AsError(err); ok && hErr.StatusCode > 0 {
			msg = hErr.UpstreamMessage()
		}
		log.Error("speech stream failed", logger.ErrorFields("tts", err))
		return nil, apperrors.Upstream("hume tts", msg, err)
	}
	return &Stream{resp: resp, log: log}, nil
}

type chunkHeader struct {
	Type string `json:"type"`
}

// Forward copies audio chunks to w, one JSON object per line, flushing
// after each when w supports it. Other chunk types are dropped. It returns
// the number of chunks written.
func (st *Stream) Forward(ctx context.Context, w io.Writer) (int, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanSpeechSynthesis)
	defer span.End()

	flusher, _ := w.(http.Flusher)
	n := 0
	err := st.resp.Lines(func(line []byte) error {
		var h chunkHeader
		if json.Unmarshal(line, &h) != nil || h.Type != "audio" {
			return nil
		}
		out := make([]byte, 0, len(line)+1)
		out = append(append(out, line...), '\n')
		if _, err := w.Write(out); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		n++
		return nil
	})
	if err != nil {
		observability.SetSpanError(ctx, err)
		st.log.Warn("speech stream interrupted", logger.Fields("chunks", n, logger.FieldError, err.Error()))
		return n, err
	}
	st.log.Info("speech stream completed", logger.Fields("chunks", n))
	return n, nil
}

// Close releases the upstream connection.
func (st *Stream) Close() error {
	return st.resp.Close()
}
