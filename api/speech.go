package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voicelens/logger"
	"github.com/kbukum/voicelens/tts"
)

// Speech streams synthesized audio chunks as NDJSON. Errors before the
// first chunk are answered as JSON; later ones end the stream.
func (h *Handler) Speech(c *gin.Context) {
	var req tts.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		req = tts.Request{}
	}

	stream, err := h.deps.Synthesizer.Open(c.Request.Context(), req)
	if err != nil {
		h.fail(c, MsgSpeech, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", tts.ContentType)
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)

	if _, err := stream.Forward(c.Request.Context(), c.Writer); err != nil {
		h.log.WithContext(c.Request.Context()).Warn("speech stream ended early", logger.Fields(logger.FieldError, err.Error()))
	}
}
