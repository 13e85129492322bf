package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicelens/ingest"
	"github.com/kbukum/voicelens/logger"
	"github.com/kbukum/voicelens/server"
)

// AnalyzeVoice answers {success, emotions, totalFrames}.
func (h *Handler) AnalyzeVoice(c *gin.Context) {
	h.withUpload(c, MsgAnalyzeVoice, func(audio ingest.Payload) error {
		res, err := h.deps.Analyzer.AnalyzeVoice(c.Request.Context(), audio)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, res)
		return nil
	})
}

// AnalyzeFull answers the merged analysis.
func (h *Handler) AnalyzeFull(c *gin.Context) {
	h.withUpload(c, MsgAnalyzeFull, func(audio ingest.Payload) error {
		res, err := h.deps.Analyzer.Run(c.Request.Context(), audio)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, res)
		return nil
	})
}

// Transcribe passes the speech service's transcription through unchanged.
func (h *Handler) Transcribe(c *gin.Context) {
	h.withUpload(c, MsgTranscribe, func(audio ingest.Payload) error {
		body, err := h.deps.Speech.TranscribeRaw(c.Request.Context(), audio)
		if err != nil {
			return err
		}
		var summary struct {
			Language string `json:"language"`
		}
		_ = json.Unmarshal(body, &summary)
		h.log.WithContext(c.Request.Context()).Info("transcription complete", logger.Fields("language", summary.Language))
		server.RespondRawJSON(c, body)
		return nil
	})
}

// Diarize passes the speech service's diarization through unchanged.
func (h *Handler) Diarize(c *gin.Context) {
	h.withUpload(c, MsgDiarize, func(audio ingest.Payload) error {
		body, err := h.deps.Speech.DiarizeRaw(c.Request.Context(), audio)
		if err != nil {
			return err
		}
		var summary struct {
			NumSpeakers int `json:"num_speakers"`
		}
		_ = json.Unmarshal(body, &summary)
		h.log.WithContext(c.Request.Context()).Info("diarization complete", logger.Fields("speakers", summary.NumSpeakers))
		server.RespondRawJSON(c, body)
		return nil
	})
}
