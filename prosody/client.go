package prosody

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/kbukum/voicelens/errors"
	"github.com/kbukum/voicelens/httpclient"
	"github.com/kbukum/voicelens/ingest"
	"github.com/kbukum/voicelens/logger"
	"github.com/kbukum/voicelens/observability"
	"github.com/kbukum/voicelens/provider"
	"github.com/kbukum/voicelens/resilience"
)

// ProviderName is the registered name of the batch API provider.
const ProviderName = "hume"

const (
	pathJobs = "/v0/batch/jobs"
	upstream = "hume"
)

// Provider is implemented by batch emotion-inference backends.
type Provider interface {
	provider.Provider

	// SubmitAndAwait returns the raw predictions array of a completed job.
	SubmitAndAwait(ctx context.Context, audio ingest.Payload) (json.RawMessage, error)
}

// Client is the batch API client.
type Client struct {
	http    *httpclient.Client
	cfg     Config
	log     *logger.Logger
	metrics *observability.Metrics
	sleep   resilience.SleepFunc
}

var _ Provider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithMetrics records job outcomes and poll counts on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithSleep replaces the wait between status checks.
func WithSleep(fn resilience.SleepFunc) Option {
	return func(c *Client) { c.sleep = fn }
}

// New creates a batch API client.
func New(cfg Config, log *logger.Logger, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	hc, err := httpclient.New(httpclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Auth:    httpclient.APIKeyAuthHeader(cfg.APIKey, APIKeyHeader),
	})
	if err != nil {
		return nil, fmt.Errorf("prosody http client: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	c := &Client{http: hc, cfg: cfg, log: log.WithComponent("prosody")}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Factory returns a provider factory. Recognized keys: api_key, base_url,
// timeout, poll_interval, max_attempts.
func Factory(log *logger.Logger, opts ...Option) provider.Factory[Provider] {
	return func(cfg map[string]any) (Provider, error) {
		c, err := New(Config{
			APIKey:       provider.String(cfg, "api_key"),
			BaseURL:      provider.String(cfg, "base_url"),
			Timeout:      provider.Duration(cfg, "timeout"),
			PollInterval: provider.Duration(cfg, "poll_interval"),
			MaxAttempts:  provider.Int(cfg, "max_attempts"),
		}, log, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// Name implements provider.Provider.
func (c *Client) Name() string { return ProviderName }

// IsAvailable reports whether an API key is configured.
func (c *Client) IsAvailable(context.Context) bool { return c.cfg.KeyConfigured() }

// Submit starts a prosody job for audio.
func (c *Client) Submit(ctx context.Context, audio ingest.Payload) (*Job, error) {
	models, err := json.Marshal(ProsodyOnly())
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	body := &httpclient.MultipartBody{
		Fields: map[string]string{"json": string(models)},
		Files: []httpclient.FileField{{
			FieldName:   "file",
			FileName:    audio.Filename,
			ContentType: audio.MIMEType,
			Reader:      audio.Reader(),
		}},
	}

	var out submitResponse
	if err := c.http.DoJSON(ctx, httpclient.Request{Method: http.MethodPost, Path: pathJobs, Body: body}, &out); err != nil {
		return nil, upstreamError("start job", err)
	}
	if out.JobID == "" {
		return nil, apperrors.Upstream(upstream, "Hume did not return a job id", nil)
	}
	return &Job{ID: out.JobID, Status: StatusQueued, CreatedAt: time.Now()}, nil
}

// Status fetches the current state of a job.
func (c *Client) Status(ctx context.Context, jobID string) (*Job, error) {
	var out jobDetails
	if err := c.http.DoJSON(ctx, httpclient.Request{Method: http.MethodGet, Path: pathJobs + "/" + jobID}, &out); err != nil {
		return nil, upstreamError("job details", err)
	}
	job := &Job{ID: jobID, Status: out.State.Status, Message: out.State.Message}
	if out.State.CreatedAt > 0 {
		job.CreatedAt = time.UnixMilli(out.State.CreatedAt)
	}
	return job, nil
}

// Predictions fetches the raw predictions array of a completed job.
func (c *Client) Predictions(ctx context.Context, jobID string) (json.RawMessage, error) {
	resp, err := c.http.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: pathJobs + "/" + jobID + "/predictions"})
	if err != nil {
		return nil, upstreamError("job predictions", err)
	}
	return json.RawMessage(resp.Body), nil
}

// Await polls jobID until it completes or fails, or until the attempt
// ceiling is reached. Every check is preceded by one poll interval.
func (c *Client) Await(ctx context.Context, jobID string) (*Job, error) {
	log := c.log.WithContext(ctx).WithFields(logger.Fields(logger.FieldJobID, jobID))

	pc := c.cfg.PollConfig()
	pc.Sleep = c.sleep
	pc.OnAttempt = func(attempt int) {
		observability.AddSpanEvent(ctx, "status_check", observability.AttrAttempts.Int(attempt))
	}

	job, attempts, err := resilience.Poll(ctx, pc, func(ctx context.Context, attempt int) (*Job, bool, error) {
		job, err := c.Status(ctx, jobID)
		if err != nil {
			return nil, false, err
		}
		log.Debug("job status", logger.Fields(
			logger.FieldStatus, string(job.Status), logger.FieldAttempt, attempt, "max_attempts", pc.MaxAttempts))
		return job, job.Status.Terminal(), nil
	})
	c.metrics.RecordPollAttempts(ctx, attempts)

	switch {
	case errors.Is(err, resilience.ErrPollExhausted):
		c.metrics.RecordProsodyJob(ctx, "timeout")
		log.Warn("job did not complete in time", logger.Fields(logger.FieldAttempt, attempts))
		return job, jobTimeout(jobID, attempts)
	case err != nil:
		c.metrics.RecordProsodyJob(ctx, "error")
		return job, err
	case job.Status == StatusFailed:
		c.metrics.RecordProsodyJob(ctx, "failed")
		log.Warn("job failed", logger.Fields("message", job.Message))
		return job, jobFailed(jobID, job.Message)
	}
	c.metrics.RecordProsodyJob(ctx, "completed")
	log.Info("job completed", logger.Fields(logger.FieldAttempt, attempts))
	return job, nil
}

// SubmitAndAwait submits audio, waits for the job and returns its raw
// predictions. Failures are ErrJobFailed, ErrJobTimeout or upstream errors.
func (c *Client) SubmitAndAwait(ctx context.Context, audio ingest.Payload) (json.RawMessage, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanProsodyAwait,
		observability.AttrFileSize.Int64(audio.Size()))
	defer span.End()

	job, err := c.Submit(ctx, audio)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return nil, err
	}
	span.SetAttributes(observability.AttrJobID.String(job.ID))
	c.log.WithContext(ctx).Info("job submitted", logger.Fields(
		logger.FieldJobID, job.ID, logger.FieldFile, audio.Filename, logger.FieldSize, audio.Size()))

	if _, err := c.Await(ctx, job.ID); err != nil {
		observability.SetSpanError(ctx, err)
		return nil, err
	}

	raw, err := c.Predictions(ctx, job.ID)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return nil, err
	}
	return raw, nil
}

func upstreamError(op string, err error) error {
	hErr, ok := httpclient.AsError(err)
	if !ok {
		return apperrors.Upstream(upstream, "", fmt.Errorf("%s: %w", op, err))
	}
	if hErr.StatusCode == 0 {
		return apperrors.Upstream(upstream, "", fmt.Errorf("%s: %w", op, err))
	}
	return apperrors.Upstream(upstream, fmt.Sprintf("%s: %s", op, hErr.UpstreamMessage()), err)
}
