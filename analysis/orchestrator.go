package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/voicelens/emotion"
	"github.com/kbukum/voicelens/ingest"
	"github.com/kbukum/voicelens/logger"
	"github.com/kbukum/voicelens/observability"
	"github.com/kbukum/voicelens/prosody"
	"github.com/kbukum/voicelens/speechservice"
)

// SpeechAnalyzer produces transcription and diarization for a payload.
type SpeechAnalyzer interface {
	Analyze(ctx context.Context, audio ingest.Payload) (*speechservice.Analysis, error)
}

// Orchestrator merges speech and emotion analysis.
type Orchestrator struct {
	speech  SpeechAnalyzer
	prosody prosody.Provider
	stager  *ingest.Stager
	log     *logger.Logger
	metrics *observability.Metrics
	observe func(Stage)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMetrics records durations and degraded analyses on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithStageObserver calls fn on every stage transition.
func WithStageObserver(fn func(Stage)) Option {
	return func(o *Orchestrator) { o.observe = fn }
}

// New creates an Orchestrator. Without a stager, payloads are sent to the
// providers straight from memory.
func New(speech SpeechAnalyzer, p prosody.Provider, stager *ingest.Stager, log *logger.Logger, opts ...Option) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}
	o := &Orchestrator{
		speech:  speech,
		prosody: p,
		stager:  stager,
		log:     log.WithComponent("analysis"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// run tracks the stage of one request.
type run struct {
	o     *Orchestrator
	span  trace.Span
	log   *logger.Logger
	stage Stage
}

func (o *Orchestrator) begin(ctx context.Context, span trace.Span, audio ingest.Payload) *run {
	r := &run{
		o:    o,
		span: span,
		log: o.log.WithContext(ctx).WithFields(logger.Fields(
			logger.FieldFile, audio.Filename, logger.FieldSize, audio.Size())),
		stage: StageIngested,
	}
	r.notify()
	return r
}

func (r *run) to(next Stage) {
	if !r.stage.CanTransition(next) {
		r.log.Error("illegal stage transition", logger.Fields("from", string(r.stage), "to", string(next)))
	}
	r.stage = next
	r.notify()
}

func (r *run) notify() {
	r.span.SetAttributes(observability.AttrStage.String(string(r.stage)))
	r.log.Debug("analysis stage", logger.Fields(logger.FieldStage, string(r.stage)))
	if r.o.observe != nil {
		r.o.observe(r.stage)
	}
}

// Run performs the full analysis. Only a speech service failure is
// returned as an error.
func (o *Orchestrator) Run(ctx context.Context, audio ingest.Payload) (*Result, error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, observability.SpanAnalysisRun,
		observability.AttrFileSize.Int64(audio.Size()))
	defer span.End()

	r := o.begin(ctx, span, audio)
	r.log.Info("starting full analysis")

	r.to(StageTranscribingDiarizing)
	speech, err := o.analyzeSpeech(ctx, audio)
	if err != nil {
		r.to(StageFailed)
		observability.SetSpanError(ctx, err)
		o.metrics.RecordAnalysis(ctx, "full", "failed", time.Since(start))
		r.log.Error("speech analysis failed", logger.ErrorFields("analyze_full", err))
		return nil, err
	}

	result := &Result{
		Success:       true,
		Transcription: speech.Transcription,
		Diarization:   speech.Diarization,
	}

	r.to(StageEmotionAnalyzing)
	summary, err := o.emotion(ctx, ingest.PrefixFull, audio)
	outcome := "ok"
	if err != nil {
		r.to(StageEmotionFailed)
		outcome = "degraded"
		span.SetAttributes(observability.AttrEmotionDegraded.Bool(true))
		o.metrics.RecordDegraded(ctx, degradedReason(err))
		r.log.Warn("emotion analysis failed, continuing without it", logger.ErrorFields("emotion", err))
	} else {
		r.to(StageEmotionDone)
		result.EmotionAnalysis = summary
	}

	r.to(StageAssembled)
	o.metrics.RecordAnalysis(ctx, "full", outcome, time.Since(start))
	r.log.Info("full analysis complete", logger.DurationFields("analyze_full", time.Since(start)))
	return result, nil
}

// AnalyzeVoice runs the emotion path alone. Job failures and timeouts are
// returned as errors.
func (o *Orchestrator) AnalyzeVoice(ctx context.Context, audio ingest.Payload) (*VoiceResult, error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, observability.SpanAnalysisVoice,
		observability.AttrFileSize.Int64(audio.Size()))
	defer span.End()

	r := o.begin(ctx, span, audio)
	r.log.Info("analyzing voice")

	r.to(StageEmotionAnalyzing)
	summary, err := o.emotion(ctx, ingest.PrefixUpload, audio)
	if err != nil {
		r.to(StageEmotionFailed)
		observability.SetSpanError(ctx, err)
		o.metrics.RecordAnalysis(ctx, "voice", "failed", time.Since(start))
		r.log.Error("voice analysis failed", logger.ErrorFields("analyze_voice", err))
		return nil, err
	}
	r.to(StageEmotionDone)
	r.to(StageAssembled)

	o.metrics.RecordAnalysis(ctx, "voice", "ok", time.Since(start))
	r.log.Info("voice analysis complete", logger.Fields(
		"emotions", len(summary.Emotions), "total_frames", summary.TotalFrames))
	return &VoiceResult{Success: true, Emotions: summary.Emotions, TotalFrames: summary.TotalFrames}, nil
}

func (o *Orchestrator) analyzeSpeech(ctx context.Context, audio ingest.Payload) (*speechservice.Analysis, error) {
	var out *speechservice.Analysis
	err := o.withStaged(ctx, ingest.PrefixAnalyze, audio, func(p ingest.Payload) error {
		var err error
		out, err = o.speech.Analyze(ctx, p)
		return err
	})
	return out, err
}

func (o *Orchestrator) emotion(ctx context.Context, prefix string, audio ingest.Payload) (*emotion.Summary, error) {
	var summary emotion.Summary
	err := o.withStaged(ctx, prefix, audio, func(p ingest.Payload) error {
		raw, err := o.prosody.SubmitAndAwait(ctx, p)
		if err != nil {
			return err
		}
		_, span := observability.StartSpan(ctx, observability.SpanEmotionAggregate)
		summary = emotion.Aggregate(raw)
		span.SetAttributes(observability.AttrTotalFrames.Int(summary.TotalFrames))
		span.End()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// withStaged stages audio, hands the staged copy to fn and releases it on
// every path.
func (o *Orchestrator) withStaged(ctx context.Context, prefix string, audio ingest.Payload, fn func(ingest.Payload) error) error {
	if o.stager == nil {
		return fn(audio)
	}
	staged, err := o.stager.Stage(ctx, prefix, audio)
	if err != nil {
		return fmt.Errorf("staging upload: %w", err)
	}
	defer staged.Release(ctx)

	p, err := staged.Open(ctx)
	if err != nil {
		return fmt.Errorf("reading staged upload: %w", err)
	}
	return fn(p)
}

func degradedReason(err error) string {
	switch {
	case errors.Is(err, prosody.ErrJobFailed):
		return "job_failed"
	case errors.Is(err, prosody.ErrJobTimeout):
		return "job_timeout"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "upstream"
	}
}
