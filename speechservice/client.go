package speechservice

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kbukum/voicelens/diarization"
	apperrors "github.com/kbukum/voicelens/errors"
	"github.com/kbukum/voicelens/httpclient"
	"github.com/kbukum/voicelens/ingest"
	"github.com/kbukum/voicelens/logger"
	"github.com/kbukum/voicelens/observability"
	"github.com/kbukum/voicelens/provider"
	"github.com/kbukum/voicelens/transcription"
)

// ProviderName is the registered name of the speech service provider.
const ProviderName = "speech-service"

const serviceName = "speech service"

// Endpoint paths.
const (
	PathAnalyzeFull = "/analyze-full"
	PathTranscribe  = "/transcribe"
	PathDiarize     = "/diarize"
	PathHealth      = "/health"
)

// Client talks to the speech service.
type Client struct {
	transport Transport
	cfg       Config
	log       *logger.Logger
}

var (
	_ transcription.Provider = (*Client)(nil)
	_ diarization.Provider   = (*Client)(nil)
)

// New creates a client over HTTP.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t, err := NewHTTPTransport(httpclient.Config{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout})
	if err != nil {
		return nil, fmt.Errorf("speech service transport: %w", err)
	}
	return NewWithTransport(t, cfg, log), nil
}

// NewWithTransport creates a client over an arbitrary transport.
func NewWithTransport(t Transport, cfg Config, log *logger.Logger) *Client {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Nop()
	}
	return &Client{transport: t, cfg: cfg, log: log.WithComponent("speechservice")}
}

// TranscriptionFactory returns a factory for a transcription registry.
// Recognized keys: base_url, timeout, health_timeout.
func TranscriptionFactory(log *logger.Logger) provider.Factory[transcription.Provider] {
	return func(cfg map[string]any) (transcription.Provider, error) {
		c, err := fromOptions(cfg, log)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// DiarizationFactory returns a factory for a diarization registry. It reads
// the same keys as TranscriptionFactory.
func DiarizationFactory(log *logger.Logger) provider.Factory[diarization.Provider] {
	return func(cfg map[string]any) (diarization.Provider, error) {
		c, err := fromOptions(cfg, log)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

func fromOptions(cfg map[string]any, log *logger.Logger) (*Client, error) {
	return New(Config{
		BaseURL:       provider.String(cfg, "base_url"),
		Timeout:       provider.Duration(cfg, "timeout"),
		HealthTimeout: provider.Duration(cfg, "health_timeout"),
	}, log)
}

// Name implements provider.Provider.
func (c *Client) Name() string { return ProviderName }

// IsAvailable reports whether the health endpoint answers.
func (c *Client) IsAvailable(ctx context.Context) bool {
	_, err := c.Health(ctx)
	return err == nil
}

// Analyze runs transcription and diarization in one upstream call.
func (c *Client) Analyze(ctx context.Context, audio ingest.Payload) (*Analysis, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanSpeechAnalyze,
		observability.AttrFileSize.Int64(audio.Size()))
	defer span.End()

	body, err := c.post(ctx, PathAnalyzeFull, audio)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return nil, err
	}

	var resp analyzeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		err = apperrors.Upstream(serviceName, "Invalid response from speech service", err)
		observability.SetSpanError(ctx, err)
		return nil, err
	}
	resp.Diarization.Normalize()

	c.log.WithContext(ctx).Info("speech analysis complete", logger.Fields(
		logger.FieldFile, audio.Filename,
		"language", languageOf(resp.Transcription),
		"speakers", speakerCount(resp.Diarization),
	))
	return &Analysis{Transcription: resp.Transcription, Diarization: resp.Diarization}, nil
}

// Transcribe implements transcription.Provider.
func (c *Client) Transcribe(ctx context.Context, audio ingest.Payload) (*transcription.Result, error) {
	body, err := c.TranscribeRaw(ctx, audio)
	if err != nil {
		return nil, err
	}
	var r transcription.Result
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, apperrors.Upstream(serviceName, "Invalid response from speech service", err)
	}
	return &r, nil
}

// TranscribeRaw returns the /transcribe response body unchanged.
func (c *Client) TranscribeRaw(ctx context.Context, audio ingest.Payload) ([]byte, error) {
	return c.post(ctx, PathTranscribe, audio)
}

// Diarize implements diarization.Provider.
func (c *Client) Diarize(ctx context.Context, audio ingest.Payload) (*diarization.Result, error) {
	body, err := c.DiarizeRaw(ctx, audio)
	if err != nil {
		return nil, err
	}
	var r diarization.Result
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, apperrors.Upstream(serviceName, "Invalid response from speech service", err)
	}
	r.Normalize()
	return &r, nil
}

// DiarizeRaw returns the /diarize response body unchanged. A service
// without a diarization pipeline answers 503, reported as unavailable.
func (c *Client) DiarizeRaw(ctx context.Context, audio ingest.Payload) ([]byte, error) {
	return c.post(ctx, PathDiarize, audio)
}

// Health queries the service's health endpoint, bounded by HealthTimeout.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.HealthTimeout)
	defer cancel()

	body, err := c.transport.Get(ctx, PathHealth)
	if err != nil {
		return nil, c.upstreamError(err)
	}
	var h Health
	if err := json.Unmarshal(body, &h); err != nil {
		return nil, apperrors.Upstream(serviceName, "Invalid health response", err)
	}
	return &h, nil
}

func (c *Client) post(ctx context.Context, path string, audio ingest.Payload) ([]byte, error) {
	mp := &httpclient.MultipartBody{Files: []httpclient.FileField{{
		FieldName:   ingest.FormField,
		FileName:    audio.Filename,
		ContentType: audio.MIMEType,
		Reader:      audio.Reader(),
	}}}

	c.log.WithContext(ctx).Debug("proxying to speech service", logger.Fields(
		logger.FieldUpstream, path, logger.FieldFile, audio.Filename, logger.FieldSize, audio.Size()))

	body, err := c.transport.Post(ctx, path, mp)
	if err != nil {
		appErr := c.upstreamError(err)
		c.log.WithContext(ctx).Warn("speech service request failed", logger.Fields(
			logger.FieldUpstream, path, logger.FieldError, appErr.Message))
		return nil, appErr
	}
	return body, nil
}

// upstreamError maps a transport failure to an AppError carrying the
// service's own explanation when it sent one.
func (c *Client) upstreamError(err error) *apperrors.AppError {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}
	hErr, ok := httpclient.AsError(err)
	if !ok {
		return apperrors.Upstream(serviceName, "", err)
	}
	if hErr.StatusCode == 0 {
		return apperrors.Upstream(serviceName, "", err)
	}
	msg := hErr.UpstreamMessage()
	if httpclient.IsUnavailable(err) {
		return apperrors.UpstreamUnavailable(serviceName, msg, err)
	}
	return apperrors.Upstream(serviceName, msg, err)
}

func languageOf(t *transcription.Result) string {
	if t == nil {
		return ""
	}
	return t.Language
}

func speakerCount(d *diarization.Result) int {
	if d == nil {
		return 0
	}
	return d.NumSpeakers
}
