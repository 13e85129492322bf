package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicelens/analysis"
	apperrors "github.com/kbukum/voicelens/errors"
	"github.com/kbukum/voicelens/ingest"
	"github.com/kbukum/voicelens/logger"
	"github.com/kbukum/voicelens/provider"
	"github.com/kbukum/voicelens/server"
	"github.com/kbukum/voicelens/speechservice"
	"github.com/kbukum/voicelens/tts"
	"github.com/kbukum/voicelens/util"
)

// Operation messages reported as "error" when a request fails upstream.
const (
	MsgAnalyzeVoice = "Failed to analyze audio"
	MsgTranscribe   = "Transcription failed"
	MsgDiarize      = "Diarization failed"
	MsgAnalyzeFull  = "Full analysis failed"
	MsgSpeech       = "Failed to generate speech"
)

// Analyzer runs the merged and the emotion-only analyses.
type Analyzer interface {
	Run(ctx context.Context, audio ingest.Payload) (*analysis.Result, error)
	AnalyzeVoice(ctx context.Context, audio ingest.Payload) (*analysis.VoiceResult, error)
}

// SpeechService proxies single capabilities of the speech service.
type SpeechService interface {
	TranscribeRaw(ctx context.Context, audio ingest.Payload) ([]byte, error)
	DiarizeRaw(ctx context.Context, audio ingest.Payload) ([]byte, error)
	Health(ctx context.Context) (*speechservice.Health, error)
}

// Synthesizer opens speech synthesis streams.
type Synthesizer interface {
	Open(ctx context.Context, req tts.Request) (*tts.Stream, error)
}

var _ Synthesizer = (*tts.Service)(nil)

// Deps are the services a Handler serves.
type Deps struct {
	Analyzer    Analyzer
	Speech      SpeechService
	Synthesizer Synthesizer
	// Prosody backs apiKeyConfigured in the health report.
	Prosody provider.Provider
	// MaxUpload caps uploads in bytes; ingest.DefaultMaxSize when zero.
	MaxUpload int64
}

// Handler serves the API routes.
type Handler struct {
	deps Deps
	log  *logger.Logger
}

// NewHandler creates a Handler.
func NewHandler(deps Deps, log *logger.Logger) *Handler {
	if deps.MaxUpload <= 0 {
		deps.MaxUpload = ingest.DefaultMaxSize
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{deps: deps, log: log.WithComponent("api")}
}

// Register mounts every route on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", h.Health)
	r.POST("/analyze-full", h.AnalyzeFull)

	g := r.Group("/api")
	g.POST("/tts", h.Speech)
	g.POST("/analyze-voice", h.AnalyzeVoice)
	g.POST("/transcribe", h.Transcribe)
	g.POST("/diarize", h.Diarize)
	g.POST("/analyze-full", h.AnalyzeFull)
}

// upload reads the "audio" file of a multipart request.
func (h *Handler) upload(c *gin.Context) (ingest.Payload, error) {
	fh, err := c.FormFile(ingest.FormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ingest.Payload{}, apperrors.PayloadTooLarge(c.Request.ContentLength, h.deps.MaxUpload)
		}
		fh = nil
	}
	return ingest.FromMultipart(fh, h.deps.MaxUpload)
}

// fail logs err and answers with op as the error message.
func (h *Handler) fail(c *gin.Context, op string, err error) {
	appErr := apperrors.ForOperation(op, err)
	fields := logger.Fields(logger.FieldOperation, op, logger.FieldError, err.Error())
	log := h.log.WithContext(c.Request.Context())
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		log.Error("request failed", fields)
	} else {
		log.Warn("request rejected", fields)
	}
	server.RespondWithError(c, appErr)
}

// withUpload reads the upload and hands it to fn, answering with op on
// failure.
func (h *Handler) withUpload(c *gin.Context, op string, fn func(ingest.Payload) error) {
	audio, err := h.upload(c)
	if err != nil {
		h.fail(c, op, err)
		return
	}
	h.log.WithContext(c.Request.Context()).Info("audio received", logger.Fields(
		logger.FieldOperation, op, logger.FieldFile, audio.Filename, logger.FieldSize, util.FormatSize(audio.Size())))
	if err := fn(audio); err != nil {
		h.fail(c, op, err)
	}
}
