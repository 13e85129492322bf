package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/voicelens/errors"
)

// RespondWithError writes err as {error, details}. AppErrors carry their own
// status; anything else becomes a 500.
func RespondWithError(c *gin.Context, err error) {
	appErr := apperrors.Wrap(err)
	if appErr == nil {
		appErr = apperrors.Internal(nil)
	}
	c.JSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondRawJSON sends an already encoded JSON body with status 200.
func RespondRawJSON(c *gin.Context, body []byte) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
