package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status           string              `json:"status"`
	APIKeyConfigured bool                `json:"apiKeyConfigured"`
	PythonService    SpeechServiceStatus `json:"pythonService"`
}

// SpeechServiceStatus describes the speech service as seen from here. The
// loaded flags are omitted when it cannot be reached.
type SpeechServiceStatus struct {
	Reachable         bool  `json:"reachable"`
	WhisperLoaded     *bool `json:"whisper_loaded,omitempty"`
	DiarizationLoaded *bool `json:"diarization_loaded,omitempty"`
}

// Health always answers 200; an unreachable speech service only shows in
// the body.
func (h *Handler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	resp := HealthResponse{Status: "ok"}
	if h.deps.Prosody != nil {
		resp.APIKeyConfigured = h.deps.Prosody.IsAvailable(ctx)
	}
	if h.deps.Speech != nil {
		if sh, err := h.deps.Speech.Health(ctx); err == nil {
			whisper, diarization := sh.WhisperLoaded, sh.DiarizationLoaded
			resp.PythonService = SpeechServiceStatus{
				Reachable:         true,
				WhisperLoaded:     &whisper,
				DiarizationLoaded: &diarization,
			}
		}
	}
	c.JSON(http.StatusOK, resp)
}
