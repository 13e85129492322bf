package app

import (
	"context"
	"fmt"

	"github.com/kbukum/voicelens/analysis"
	"github.com/kbukum/voicelens/api"
	"github.com/kbukum/voicelens/bootstrap"
	"github.com/kbukum/voicelens/diarization"
	"github.com/kbukum/voicelens/httpclient"
	"github.com/kbukum/voicelens/ingest"
	"github.com/kbukum/voicelens/logger"
	"github.com/kbukum/voicelens/observability"
	"github.com/kbukum/voicelens/prosody"
	"github.com/kbukum/voicelens/provider"
	"github.com/kbukum/voicelens/server"
	"github.com/kbukum/voicelens/speechservice"
	"github.com/kbukum/voicelens/storage"
	"github.com/kbukum/voicelens/transcription"
	"github.com/kbukum/voicelens/tts"
	"github.com/kbukum/voicelens/util"

	// Staging backends register themselves with the storage factory.
	_ "github.com/kbukum/voicelens/storage/local"
	_ "github.com/kbukum/voicelens/storage/s3"
)

// App is the bootstrap application for this service.
type App = bootstrap.App[*Config]

// Services are the domain services shared by the HTTP API and the CLI.
type Services struct {
	Stager       *ingest.Stager
	Speech       *speechservice.Client
	Transcriber  transcription.Provider
	Diarizer     diarization.Provider
	Prosody      prosody.Provider
	Orchestrator *analysis.Orchestrator
	Synthesizer  *tts.Service
}

// NewServices builds the domain services. A nil store disables staging and
// payloads are sent upstream from memory.
func NewServices(cfg *Config, store storage.Storage, log *logger.Logger) (*Services, error) {
	metrics, err := observability.NewMetrics(observability.Meter(ServiceName))
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	speech, err := speechservice.New(cfg.SpeechService, log)
	if err != nil {
		return nil, err
	}

	transcribers := provider.NewRegistry[transcription.Provider]()
	transcribers.RegisterFactory(speechservice.ProviderName, speechservice.TranscriptionFactory(log))
	transcriber, err := transcribers.Create(cfg.SpeechService.Provider, cfg.SpeechService.Options())
	if err != nil {
		return nil, fmt.Errorf("transcription provider: %w", err)
	}

	diarizers := provider.NewRegistry[diarization.Provider]()
	diarizers.RegisterFactory(speechservice.ProviderName, speechservice.DiarizationFactory(log))
	diarizer, err := diarizers.Create(cfg.SpeechService.Provider, cfg.SpeechService.Options())
	if err != nil {
		return nil, fmt.Errorf("diarization provider: %w", err)
	}

	providers := provider.NewRegistry[prosody.Provider]()
	providers.RegisterFactory(prosody.ProviderName, prosody.Factory(log, prosody.WithMetrics(metrics)))
	p, err := providers.Create(cfg.Hume.Provider, cfg.ProsodyOptions())
	if err != nil {
		return nil, fmt.Errorf("prosody provider: %w", err)
	}

	synth, err := tts.New(tts.Config{APIKey: cfg.Hume.APIKey, BaseURL: cfg.Hume.BaseURL}, log)
	if err != nil {
		return nil, err
	}

	var stager *ingest.Stager
	if store != nil {
		stager = ingest.NewStager(store, log)
	}

	return &Services{
		Stager:       stager,
		Speech:       speech,
		Transcriber:  transcriber,
		Diarizer:     diarizer,
		Prosody:      p,
		Orchestrator: analysis.New(speech, p, stager, log, analysis.WithMetrics(metrics)),
		Synthesizer:  synth,
	}, nil
}

// RegisterInfrastructure installs telemetry around the lifecycle and
// registers the staging storage. The returned component's Storage is
// available once components have started.
func RegisterInfrastructure(a *App) (*storage.Component, error) {
	var shutdownTelemetry observability.ShutdownFunc
	a.OnStart(func(ctx context.Context) error {
		shutdown, err := observability.Setup(ctx, a.Cfg.Observability, a.Name, a.Version, a.Cfg.Environment)
		if err != nil {
			return fmt.Errorf("observability: %w", err)
		}
		shutdownTelemetry = shutdown
		return nil
	})
	a.OnStop(func(ctx context.Context) error {
		if shutdownTelemetry == nil {
			return nil
		}
		return shutdownTelemetry(ctx)
	})

	store := storage.NewComponent(a.Cfg.Staging, a.Logger)
	if err := a.RegisterComponent(store); err != nil {
		return nil, err
	}
	return store, nil
}

// NewServer builds the HTTP server with every route mounted.
func NewServer(a *App, svc *Services) *server.Server {
	srv := server.New(a.Cfg.Server, a.Logger)
	srv.ApplyMiddleware()

	api.NewHandler(api.Deps{
		Analyzer:    svc.Orchestrator,
		Speech:      svc.Speech,
		Synthesizer: svc.Synthesizer,
		Prosody:     svc.Prosody,
		MaxUpload:   a.Cfg.Upload.MaxBytes(),
	}, a.Logger).Register(srv.GinEngine())

	srv.RegisterDefaultEndpoints(a.Name, a.Components.HealthAll)
	return srv
}

// Setup wires the HTTP service onto a.
func Setup(a *App) error {
	store, err := RegisterInfrastructure(a)
	if err != nil {
		return err
	}

	var svc *Services
	a.OnConfigure(func(ctx context.Context, a *App) error {
		var err error
		svc, err = NewServices(a.Cfg, store.Storage(), a.Logger)
		if err != nil {
			return err
		}
		return a.RegisterComponent(server.NewComponent(NewServer(a, svc)))
	})

	a.OnReady(func(ctx context.Context) error {
		if a.Cfg.KeyConfigured() {
			a.Logger.Info("hume api key configured", logger.Fields("api_key", util.MaskSecret(a.Cfg.Hume.APIKey, 4)))
		} else {
			a.Logger.Warn("HUME_API_KEY is not configured; emotion analysis and speech synthesis will fail")
		}
		ProbeSpeechService(ctx, svc.Speech, a.Logger)
		if a.Cfg.Upload.StagingTTL > 0 && svc.Stager != nil {
			if n, err := svc.Stager.Sweep(ctx, a.Cfg.Upload.StagingTTL); err != nil {
				a.Logger.Warn("staging sweep failed", logger.ErrorFields("sweep", err))
			} else if n > 0 {
				a.Logger.Info("removed stale staged files", logger.Fields("count", n))
			}
		}
		return nil
	})
	return nil
}

// HealthProber reports the speech service's state.
type HealthProber interface {
	Health(ctx context.Context) (*speechservice.Health, error)
}

// ProbeSpeechService logs which speech service capabilities are loaded. It
// never fails: the service may come up after this one.
func ProbeSpeechService(ctx context.Context, p HealthProber, log *logger.Logger) {
	log = log.WithComponent("speechservice")
	h, err := p.Health(ctx)
	if httpclient.IsConnection(err) || httpclient.IsTimeout(err) {
		log.Warn("speech service not reachable", logger.Fields(logger.FieldError, err.Error()))
		return
	}
	if err != nil {
		log.Warn("speech service health check failed", logger.Fields(logger.FieldError, err.Error()))
		return
	}
	log.Info("speech service reachable", logger.Fields(
		"whisper_loaded", h.WhisperLoaded,
		"diarization_loaded", h.DiarizationLoaded,
	))
	if !h.DiarizationLoaded {
		log.Warn("speaker diarization not available; set HUGGINGFACE_TOKEN for the speech service and restart it")
	}
}
